package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/expertlink/matching-service/internal/domain"
)

// Neutral defaults returned when one side of a factor has no data to
// compare against.
const (
	neutralLocationScore = 50.0
	neutralSkillScore    = 70.0 // no required skills: don't penalize
	missingSkillScore    = 30.0 // expert lists no skills at all
	neutralRatingScore   = 50.0
	neutralSignalScore   = 50.0 // available but never signaled
	neutralKeywordScore  = 50.0
	missingKeywordScore  = 30.0
	keywordFloorScore    = 20.0
)

// LocationScore maps the expert/request distance to a banded score.
// Either side missing coordinates scores the neutral default with a nil
// distance. A declared service radius is a hard cutoff: beyond it the
// score is 0 while the true distance is still reported.
//
//	< 50km  -> 100
//	< 100km ->  90
//	< 200km ->  70
//	< 500km ->  50
//	< 1000km -> 30
//	else    ->  10
func LocationScore(e *domain.Expert, r *domain.ServiceRequest) (float64, *float64) {
	if e.Latitude == nil || e.Longitude == nil || r.Latitude == nil || r.Longitude == nil {
		return neutralLocationScore, nil
	}

	dist := Distance(*e.Latitude, *e.Longitude, *r.Latitude, *r.Longitude)

	if e.ServiceRadiusKm != nil && dist > *e.ServiceRadiusKm {
		return 0, &dist
	}

	var score float64

	switch {
	case dist < 50:
		score = 100
	case dist < 100:
		score = 90
	case dist < 200:
		score = 70
	case dist < 500:
		score = 50
	case dist < 1000:
		score = 30
	default:
		score = 10
	}

	return score, &dist
}

// SkillScore is the fraction of required skills covered by the expert's
// tags, matched case-insensitively in both containment directions.
func SkillScore(required []string, tags []string) float64 {
	if len(required) == 0 {
		return neutralSkillScore
	}

	if len(tags) == 0 {
		return missingSkillScore
	}

	matched := 0

	for _, want := range required {
		want = strings.ToLower(strings.TrimSpace(want))
		if want == "" {
			matched++ // empty requirement constrains nothing
			continue
		}

		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if strings.Contains(tag, want) || strings.Contains(want, tag) {
				matched++
				break
			}
		}
	}

	return math.Round(float64(matched) / float64(len(required)) * 100)
}

// ExperienceScore is a step function on years of experience.
func ExperienceScore(years int) float64 {
	switch {
	case years >= 10:
		return 100
	case years >= 7:
		return 90
	case years >= 5:
		return 80
	case years >= 3:
		return 60
	case years >= 1:
		return 40
	default:
		return 20
	}
}

// AvailabilityScore is 0 for an unavailable expert regardless of anything
// else. For available experts the score decays with the age of the last
// availability signal; no signal at all is neutral.
func AvailabilityScore(available bool, lastActiveAt *time.Time, now time.Time) float64 {
	if !available {
		return 0
	}

	if lastActiveAt == nil {
		return neutralSignalScore
	}

	age := now.Sub(*lastActiveAt)

	switch {
	case age < time.Hour:
		return 100
	case age < 4*time.Hour:
		return 90
	case age < 12*time.Hour:
		return 70
	case age < 24*time.Hour:
		return 50
	default:
		return 30
	}
}

// RatingScore discounts the average rating by review volume so a high
// average with few reviews underperforms the same average with many:
// confidence = min(count/10, 1), adjusted = avg * (0.7 + 0.3*confidence).
// Zero reviews is neutral, not penalized.
func RatingScore(avg *float64, count int) float64 {
	if avg == nil || count <= 0 {
		return neutralRatingScore
	}

	confidence := math.Min(float64(count)/10.0, 1.0)
	adjusted := *avg * (0.7 + 0.3*confidence)

	return math.Round(adjusted / 5.0 * 100)
}

// KeywordScore measures how much of the expert's free-text vocabulary
// (skill tags, field, services, certifications) appears in the request's
// title, description and required skills. A floor of 20 keeps keyword
// mismatch from eliminating a pairing on its own.
func KeywordScore(e *domain.Expert, r *domain.ServiceRequest) float64 {
	haystack := strings.ToLower(strings.TrimSpace(
		r.Title + " " + r.Description + " " + strings.Join(r.RequiredSkills, " "),
	))
	if haystack == "" {
		return neutralKeywordScore
	}

	tokens := expertTokens(e)
	if len(tokens) == 0 {
		return missingKeywordScore
	}

	matched := 0
	for token := range tokens {
		if strings.Contains(haystack, token) {
			matched++
		}
	}

	score := math.Round(float64(matched) / float64(len(tokens)) * 100)

	return math.Max(keywordFloorScore, score)
}

// expertTokens splits the expert's profile text into a lowercase set of
// tokens longer than two characters.
func expertTokens(e *domain.Expert) map[string]struct{} {
	fields := make([]string, 0, len(e.SkillTags)+3)
	fields = append(fields, e.SkillTags...)
	fields = append(fields, e.ProfessionalField, e.ServicesOffered, e.Certifications)

	tokens := make(map[string]struct{})

	for _, field := range fields {
		for _, token := range strings.FieldsFunc(strings.ToLower(field), isTokenSeparator) {
			if len(token) > 2 {
				tokens[token] = struct{}{}
			}
		}
	}

	return tokens
}

func isTokenSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';', '，', '；':
		return true
	}

	return false
}
