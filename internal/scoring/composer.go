package scoring

import (
	"time"

	"github.com/expertlink/matching-service/internal/domain"
)

// Weights holds the factor weights of the composed score. They sum to 100
// so the weighted base stays in [0,100].
type Weights struct {
	Location     float64
	Skill        float64
	Experience   float64
	Availability float64
	Rating       float64
	Keyword      float64
}

// DefaultWeights is the fixed production weighting. It is loaded once and
// never mutated; treat it as configuration, not as a tunable.
var DefaultWeights = Weights{
	Location:     25,
	Skill:        20,
	Experience:   10,
	Availability: 15,
	Rating:       10,
	Keyword:      20,
}

// workStatusBonus is added to the weighted base, not weighted itself.
// OFF_DUTY's -100 is a near-total exclusion rather than a hard zero so
// the signal still combines with the rest in aggregate reporting.
var workStatusBonus = map[domain.WorkStatus]float64{
	domain.WorkStatusRushing:   15,
	domain.WorkStatusIdle:      5,
	domain.WorkStatusBooked:    0,
	domain.WorkStatusInService: -5,
	domain.WorkStatusOffDuty:   -100,
}

var membershipBonus = map[domain.Membership]float64{
	domain.MembershipDiamond:  10,
	domain.MembershipGold:     5,
	domain.MembershipSilver:   2,
	domain.MembershipStandard: 0,
}

// Breakdown records each factor's weighted contribution to the total
// (raw factor score scaled by weight/100) plus the raw work-status bonus.
type Breakdown struct {
	Location     float64
	Skill        float64
	Experience   float64
	Availability float64
	Rating       float64
	Keyword      float64
	StatusBonus  float64
}

// Result is the composed score for one (expert, request) pair.
type Result struct {
	// Total is clamped at 100 from above only; an OFF_DUTY expert can
	// score deeply negative and is expected to be filtered by the
	// caller's threshold, not by the composer.
	Total      float64
	Breakdown  Breakdown
	DistanceKm *float64
}

// Compose runs all six factor scorers for the pair and combines them with
// DefaultWeights and the two additive bonuses. It is side-effect-free and
// safe to call concurrently.
func Compose(e *domain.Expert, r *domain.ServiceRequest, now time.Time) Result {
	return ComposeWith(DefaultWeights, e, r, now)
}

// ComposeWith is Compose with an explicit weight table, used by tests.
func ComposeWith(w Weights, e *domain.Expert, r *domain.ServiceRequest, now time.Time) Result {
	location, dist := LocationScore(e, r)
	skill := SkillScore(r.RequiredSkills, e.SkillTags)
	experience := ExperienceScore(e.YearsExperience)
	availability := AvailabilityScore(e.Available, e.LastActiveAt, now)
	rating := RatingScore(e.RatingAvg, e.RatingCount)
	keyword := KeywordScore(e, r)

	base := (location*w.Location +
		skill*w.Skill +
		experience*w.Experience +
		availability*w.Availability +
		rating*w.Rating +
		keyword*w.Keyword) / 100

	statusBonus := workStatusBonus[e.WorkStatus]
	total := base + statusBonus + membershipBonus[e.Membership]

	if total > 100 {
		total = 100
	}

	return Result{
		Total: round2(total),
		Breakdown: Breakdown{
			Location:     round2(location * w.Location / 100),
			Skill:        round2(skill * w.Skill / 100),
			Experience:   round2(experience * w.Experience / 100),
			Availability: round2(availability * w.Availability / 100),
			Rating:       round2(rating * w.Rating / 100),
			Keyword:      round2(keyword * w.Keyword / 100),
			StatusBonus:  statusBonus,
		},
		DistanceKm: dist,
	}
}

// Sum returns the weight total; DefaultWeights sums to 100.
func (w Weights) Sum() float64 {
	return w.Location + w.Skill + w.Experience + w.Availability + w.Rating + w.Keyword
}
