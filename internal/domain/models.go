package domain

import (
	"time"

	"github.com/lib/pq"
)

// WorkStatus is the expert's self-reported operational state. It feeds the
// composer's additive status bonus and the ordering of the rushing sweep.
type WorkStatus string

const (
	WorkStatusRushing   WorkStatus = "RUSHING"
	WorkStatusIdle      WorkStatus = "IDLE"
	WorkStatusBooked    WorkStatus = "BOOKED"
	WorkStatusInService WorkStatus = "IN_SERVICE"
	WorkStatusOffDuty   WorkStatus = "OFF_DUTY"
)

// Membership is the expert's paid tier.
type Membership string

const (
	MembershipStandard Membership = "STANDARD"
	MembershipSilver   Membership = "SILVER"
	MembershipGold     Membership = "GOLD"
	MembershipDiamond  Membership = "DIAMOND"
)

// Rank returns a sortable weight for the tier, higher is better.
func (m Membership) Rank() int {
	switch m {
	case MembershipDiamond:
		return 3
	case MembershipGold:
		return 2
	case MembershipSilver:
		return 1
	default:
		return 0
	}
}

// RequestStatus is the lifecycle state of a service request.
// Only OPEN requests are matchable.
type RequestStatus string

const (
	RequestStatusDraft      RequestStatus = "DRAFT"
	RequestStatusOpen       RequestStatus = "OPEN"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

// MatchStatus is the lifecycle state of a match result:
// NEW -> VIEWED -> DISMISSED. VIEWED is sticky, DISMISSED is terminal.
type MatchStatus string

const (
	MatchStatusNew       MatchStatus = "NEW"
	MatchStatusViewed    MatchStatus = "VIEWED"
	MatchStatusDismissed MatchStatus = "DISMISSED"
)

// MatchSource records which path created the pairing.
type MatchSource string

const (
	SourceAIMatched           MatchSource = "AI_MATCHED"
	SourcePlatformRecommended MatchSource = "PLATFORM_RECOMMENDED"
	SourceBuyerSpecified      MatchSource = "BUYER_SPECIFIED"
)

// Side identifies which party of a match an action applies to.
type Side string

const (
	SideExpert    Side = "expert"
	SideRequester Side = "requester"
)

// Expert is the read-mostly scoring input. Latitude/Longitude and
// ServiceRadiusKm are pointers: absent coordinates mean "not
// geo-comparable", an absent radius means unlimited range.
type Expert struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Approved          bool           `db:"approved"`
	Available         bool           `db:"available"`
	LastActiveAt      *time.Time     `db:"last_active_at"`
	WorkStatus        WorkStatus     `db:"work_status"`
	RushingSince      *time.Time     `db:"rushing_since"`
	Membership        Membership     `db:"membership"`
	YearsExperience   int            `db:"years_experience"`
	Latitude          *float64       `db:"latitude"`
	Longitude         *float64       `db:"longitude"`
	ServiceRadiusKm   *float64       `db:"service_radius_km"`
	SkillTags         pq.StringArray `db:"skill_tags"`
	ProfessionalField string         `db:"professional_field"`
	ServicesOffered   string         `db:"services_offered"`
	Certifications    string         `db:"certifications"`
	RatingAvg         *float64       `db:"rating_avg"`
	RatingCount       int            `db:"rating_count"`
}

type ServiceRequest struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Status         RequestStatus  `db:"status"`
	Latitude       *float64       `db:"latitude"`
	Longitude      *float64       `db:"longitude"`
	RequiredSkills pq.StringArray `db:"required_skills"`
	Public         bool           `db:"public"`
	CreatedAt      time.Time      `db:"created_at"`
}

// MatchResult is the persisted pairing of one expert with one request.
// At most one row exists per (ExpertID, RequestID); the database enforces
// this with a unique constraint. Score columns hold weighted
// contributions, not raw factor values, except StatusBonus which is the
// raw additive bonus.
type MatchResult struct {
	ID                  string      `db:"id"`
	ExpertID            string      `db:"expert_id"`
	RequestID           string      `db:"request_id"`
	TotalScore          float64     `db:"total_score"`
	ScoreLocation       float64     `db:"score_location"`
	ScoreSkill          float64     `db:"score_skill"`
	ScoreExperience     float64     `db:"score_experience"`
	ScoreAvailability   float64     `db:"score_availability"`
	ScoreRating         float64     `db:"score_rating"`
	ScoreKeyword        float64     `db:"score_keyword"`
	ScoreStatusBonus    float64     `db:"score_status_bonus"`
	Source              MatchSource `db:"source"`
	Status              MatchStatus `db:"status"`
	DistanceKm          *float64    `db:"distance_km"`
	ExpertNotified      bool        `db:"expert_notified"`
	RequesterNotified   bool        `db:"requester_notified"`
	ExpertNotifiedAt    *time.Time  `db:"expert_notified_at"`
	RequesterNotifiedAt *time.Time  `db:"requester_notified_at"`
	ExpertViewedAt      *time.Time  `db:"expert_viewed_at"`
	RequesterViewedAt   *time.Time  `db:"requester_viewed_at"`
	CreatedAt           time.Time   `db:"created_at"`
	UpdatedAt           time.Time   `db:"updated_at"`
}
