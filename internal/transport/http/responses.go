package http

import (
	"time"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/service"
)

type matchResponse struct {
	ID         string             `json:"id"`
	ExpertID   string             `json:"expert_id"`
	RequestID  string             `json:"request_id"`
	TotalScore float64            `json:"total_score"`
	Breakdown  breakdownResponse  `json:"breakdown"`
	Source     domain.MatchSource `json:"source"`
	Status     domain.MatchStatus `json:"status"`
	DistanceKm *float64           `json:"distance_km"`
	CreatedAt  time.Time          `json:"created_at"`
}

type breakdownResponse struct {
	Location     float64 `json:"location"`
	Skill        float64 `json:"skill"`
	Experience   float64 `json:"experience"`
	Availability float64 `json:"availability"`
	Rating       float64 `json:"rating"`
	Keyword      float64 `json:"keyword"`
	StatusBonus  float64 `json:"status_bonus"`
}

type pushReportResponse struct {
	Pushed int `json:"pushed"`
	Failed int `json:"failed"`
}

type candidateResponse struct {
	ExpertID       string            `json:"expert_id"`
	Name           string            `json:"name"`
	WorkStatus     domain.WorkStatus `json:"work_status"`
	Membership     domain.Membership `json:"membership"`
	RatingAvg      *float64          `json:"rating_avg"`
	RatingCount    int               `json:"rating_count"`
	Score          float64           `json:"score"`
	DistanceKm     *float64          `json:"distance_km"`
	AlreadyMatched bool              `json:"already_matched"`
}

func toMatchResponse(m *domain.MatchResult) matchResponse {
	return matchResponse{
		ID:         m.ID,
		ExpertID:   m.ExpertID,
		RequestID:  m.RequestID,
		TotalScore: m.TotalScore,
		Breakdown: breakdownResponse{
			Location:     m.ScoreLocation,
			Skill:        m.ScoreSkill,
			Experience:   m.ScoreExperience,
			Availability: m.ScoreAvailability,
			Rating:       m.ScoreRating,
			Keyword:      m.ScoreKeyword,
			StatusBonus:  m.ScoreStatusBonus,
		},
		Source:     m.Source,
		Status:     m.Status,
		DistanceKm: m.DistanceKm,
		CreatedAt:  m.CreatedAt,
	}
}

func toMatchResponses(matches []domain.MatchResult) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i := range matches {
		out[i] = toMatchResponse(&matches[i])
	}

	return out
}

func toCandidateResponses(candidates []service.ExpertCandidate) []candidateResponse {
	out := make([]candidateResponse, len(candidates))
	for i, c := range candidates {
		out[i] = candidateResponse{
			ExpertID:       c.Expert.ID,
			Name:           c.Expert.Name,
			WorkStatus:     c.Expert.WorkStatus,
			Membership:     c.Expert.Membership,
			RatingAvg:      c.Expert.RatingAvg,
			RatingCount:    c.Expert.RatingCount,
			Score:          c.Score,
			DistanceKm:     c.DistanceKm,
			AlreadyMatched: c.AlreadyMatched,
		}
	}

	return out
}
