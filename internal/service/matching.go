package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/expertlink/matching-service/internal/apperrors"
	"github.com/expertlink/matching-service/internal/config"
	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
	"github.com/expertlink/matching-service/internal/scoring"
	"github.com/expertlink/matching-service/pkg/logger/sl"
	"github.com/google/uuid"
)

// NotifyQueue is the outbound hand-off for freshly created matches.
// Enqueue failures are logged and swallowed, never surfaced.
type NotifyQueue interface {
	Enqueue(ctx context.Context, matchID string) error
}

// PushReport summarizes a push-to-experts batch. The batch continues past
// individual expert failures; Failed counts them instead of aborting.
type PushReport struct {
	Pushed int
	Failed int
}

// SearchOptions narrows SearchExperts results.
type SearchOptions struct {
	Keyword    string
	WorkStatus *domain.WorkStatus
	MinScore   float64
	Limit      int
}

// ExpertCandidate is one search result: the expert annotated with the
// score it would receive for the request and whether a pairing already
// exists.
type ExpertCandidate struct {
	Expert         domain.Expert
	Score          float64
	DistanceKm     *float64
	AlreadyMatched bool
}

type MatchingService interface {
	RunMatching(ctx context.Context, requestID string) ([]domain.MatchResult, error)
	CreatePairing(ctx context.Context, expertID, requestID string, source domain.MatchSource) (*domain.MatchResult, error)
	PushToExperts(ctx context.Context, requestID string, expertIDs []string, source domain.MatchSource) (*PushReport, error)
	AutoMatchRushing(ctx context.Context, requestID string) ([]domain.MatchResult, error)
	MarkViewed(ctx context.Context, matchID string, side domain.Side) (*domain.MatchResult, error)
	Dismiss(ctx context.Context, matchID string) (*domain.MatchResult, error)
	SearchExperts(ctx context.Context, requestID string, opts SearchOptions) ([]ExpertCandidate, error)
	ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error)
	ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error)
}

type MatchingServiceImpl struct {
	log      *slog.Logger
	cfg      config.Matching
	requests repository.RequestRepository
	experts  repository.ExpertRepository
	matchCmd repository.MatchCommandRepository
	matchQry repository.MatchQueryRepository
	notify   NotifyQueue // may be nil
	now      func() time.Time
}

func NewMatchingService(
	log *slog.Logger,
	cfg config.Matching,
	requests repository.RequestRepository,
	experts repository.ExpertRepository,
	matchCmd repository.MatchCommandRepository,
	matchQry repository.MatchQueryRepository,
	notify NotifyQueue,
) *MatchingServiceImpl {
	return &MatchingServiceImpl{
		log:      log,
		cfg:      cfg,
		requests: requests,
		experts:  experts,
		matchCmd: matchCmd,
		matchQry: matchQry,
		notify:   notify,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RunMatching scores every eligible expert not yet paired with the
// request and persists the pairings that clear the standard threshold.
// A missing or non-OPEN request is a no-op, not an error.
func (s *MatchingServiceImpl) RunMatching(ctx context.Context, requestID string) ([]domain.MatchResult, error) {
	const op = "internal.service.matching.RunMatching"
	log := s.log.With(slog.String("op", op), slog.String("request_id", requestID))

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info("request not found, skipping matching")
			return []domain.MatchResult{}, nil
		}

		return nil, fmt.Errorf("%s: failed to get request: %w", op, err)
	}

	if req.Status != domain.RequestStatusOpen {
		log.Info("request is not open, skipping matching", slog.String("status", string(req.Status)))
		return []domain.MatchResult{}, nil
	}

	experts, err := s.experts.ListEligible(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list eligible experts: %w", op, err)
	}

	paired, err := s.pairedExpertSet(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created := make([]domain.MatchResult, 0)

	for i := range experts {
		expert := &experts[i]
		if _, ok := paired[expert.ID]; ok {
			continue
		}

		result := scoring.Compose(expert, req, s.now())
		if result.Total < s.cfg.MinScore {
			continue
		}

		match, err := s.createMatch(ctx, expert.ID, requestID, result, domain.SourceAIMatched)
		if err != nil {
			var dup *apperrors.MatchAlreadyExistsError
			if errors.As(err, &dup) {
				// lost the race to a concurrent run or sweep
				continue
			}

			return nil, fmt.Errorf("%s: failed to create match: %w", op, err)
		}

		created = append(created, *match)
	}

	log.Info("matching run finished",
		slog.Int("candidates", len(experts)),
		slog.Int("created", len(created)),
	)

	return created, nil
}

// CreatePairing creates an admin-specified pairing, bypassing the score
// threshold. It fails if either side is missing or the pair already
// exists.
func (s *MatchingServiceImpl) CreatePairing(ctx context.Context, expertID, requestID string, source domain.MatchSource) (*domain.MatchResult, error) {
	const op = "internal.service.matching.CreatePairing"
	log := s.log.With(slog.String("op", op), slog.String("expert_id", expertID), slog.String("request_id", requestID))

	expert, err := s.experts.GetExpert(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get expert: %w", op, err)
	}

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get request: %w", op, err)
	}

	result := scoring.Compose(expert, req, s.now())

	match, err := s.createMatch(ctx, expertID, requestID, result, source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create match: %w", op, err)
	}

	log.Info("pairing created", slog.Float64("total_score", match.TotalScore))

	return match, nil
}

// PushToExperts pushes the request to specific experts. Existing pairings
// are re-pushed (source replaced, expert notification state reset)
// instead of erroring; missing experts count as failures without aborting
// the batch. Scores are computed for the record but no threshold applies.
func (s *MatchingServiceImpl) PushToExperts(ctx context.Context, requestID string, expertIDs []string, source domain.MatchSource) (*PushReport, error) {
	const op = "internal.service.matching.PushToExperts"
	log := s.log.With(slog.String("op", op), slog.String("request_id", requestID))

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get request: %w", op, err)
	}

	if req.Status != domain.RequestStatusOpen {
		return nil, fmt.Errorf("%s: %w: request '%s' has status %s", op, apperrors.ErrRequestNotOpen, requestID, req.Status)
	}

	report := &PushReport{}

	for _, expertID := range expertIDs {
		if err := s.pushToExpert(ctx, req, expertID, source); err != nil {
			log.Warn("push to expert failed", slog.String("expert_id", expertID), sl.Err(err))
			report.Failed++

			continue
		}

		report.Pushed++
	}

	log.Info("push finished", slog.Int("pushed", report.Pushed), slog.Int("failed", report.Failed))

	return report, nil
}

func (s *MatchingServiceImpl) pushToExpert(ctx context.Context, req *domain.ServiceRequest, expertID string, source domain.MatchSource) error {
	existing, err := s.matchQry.GetByPair(ctx, expertID, req.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to get existing pairing: %w", err)
	}

	if existing != nil {
		return s.repush(ctx, existing.ID, source)
	}

	expert, err := s.experts.GetExpert(ctx, expertID)
	if err != nil {
		return fmt.Errorf("failed to get expert: %w", err)
	}

	result := scoring.Compose(expert, req, s.now())

	if _, err := s.createMatch(ctx, expertID, req.ID, result, source); err != nil {
		var dup *apperrors.MatchAlreadyExistsError
		if errors.As(err, &dup) {
			// pairing appeared between the lookup and the insert
			raced, err := s.matchQry.GetByPair(ctx, expertID, req.ID)
			if err != nil {
				return fmt.Errorf("failed to reload pairing: %w", err)
			}

			return s.repush(ctx, raced.ID, source)
		}

		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// repush updates an existing pairing's source and resets its expert
// notification state, then re-enqueues it for delivery.
func (s *MatchingServiceImpl) repush(ctx context.Context, matchID string, source domain.MatchSource) error {
	notified := false
	upd := repository.MatchUpdate{
		Source:                &source,
		ExpertNotified:        &notified,
		ClearExpertNotifiedAt: true,
	}

	if err := s.matchCmd.Update(ctx, matchID, upd); err != nil {
		return fmt.Errorf("failed to update pairing: %w", err)
	}

	s.enqueueNotification(ctx, matchID)

	return nil
}

// AutoMatchRushing sweeps RUSHING experts (longest-rushing first, then
// membership tier) against open public requests, creating pairings above
// the lowered sweep threshold. requestID scopes the sweep to one request
// when non-empty. The sweep is idempotent: existing pairings are skipped
// and races collapse into the unique constraint.
func (s *MatchingServiceImpl) AutoMatchRushing(ctx context.Context, requestID string) ([]domain.MatchResult, error) {
	const op = "internal.service.matching.AutoMatchRushing"
	log := s.log.With(slog.String("op", op))

	sweepRunsTotal.Inc()

	experts, err := s.experts.ListRushing(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list rushing experts: %w", op, err)
	}

	if len(experts) == 0 {
		return []domain.MatchResult{}, nil
	}

	requests, err := s.sweepRequests(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created := make([]domain.MatchResult, 0)

	for i := range experts {
		expert := &experts[i]

		for j := range requests {
			req := &requests[j]

			exists, err := s.matchCmd.Exists(ctx, expert.ID, req.ID)
			if err != nil {
				return nil, fmt.Errorf("%s: failed to check existing pairing: %w", op, err)
			}

			if exists {
				continue
			}

			result := scoring.Compose(expert, req, s.now())
			if result.Total < s.cfg.RushingMinScore {
				continue
			}

			match, err := s.createMatch(ctx, expert.ID, req.ID, result, domain.SourceAIMatched)
			if err != nil {
				var dup *apperrors.MatchAlreadyExistsError
				if errors.As(err, &dup) {
					continue
				}

				return nil, fmt.Errorf("%s: failed to create match: %w", op, err)
			}

			created = append(created, *match)
		}
	}

	log.Info("rushing sweep finished",
		slog.Int("experts", len(experts)),
		slog.Int("requests", len(requests)),
		slog.Int("created", len(created)),
	)

	return created, nil
}

func (s *MatchingServiceImpl) sweepRequests(ctx context.Context, requestID string) ([]domain.ServiceRequest, error) {
	if requestID == "" {
		requests, err := s.requests.ListOpenPublicRequests(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list open requests: %w", err)
		}

		return requests, nil
	}

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	if req.Status != domain.RequestStatusOpen {
		return nil, nil
	}

	return []domain.ServiceRequest{*req}, nil
}

// MarkViewed records that one side has seen the match. The first view
// advances NEW to VIEWED; VIEWED is sticky and a later view by the other
// side neither regresses nor re-triggers it.
func (s *MatchingServiceImpl) MarkViewed(ctx context.Context, matchID string, side domain.Side) (*domain.MatchResult, error) {
	const op = "internal.service.matching.MarkViewed"

	match, err := s.matchQry.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get match: %w", op, err)
	}

	viewedAt := s.now()
	upd := repository.MatchUpdate{}

	switch side {
	case domain.SideRequester:
		if match.RequesterViewedAt == nil {
			upd.RequesterViewedAt = &viewedAt
			match.RequesterViewedAt = &viewedAt
		}
	default:
		if match.ExpertViewedAt == nil {
			upd.ExpertViewedAt = &viewedAt
			match.ExpertViewedAt = &viewedAt
		}
	}

	if match.Status == domain.MatchStatusNew {
		viewed := domain.MatchStatusViewed
		upd.Status = &viewed
		match.Status = viewed
	}

	if err := s.matchCmd.Update(ctx, matchID, upd); err != nil {
		return nil, fmt.Errorf("%s: failed to update match: %w", op, err)
	}

	return match, nil
}

// Dismiss sets the match to DISMISSED unconditionally. Dismissal is a
// status, not a deletion; the row and its history stay.
func (s *MatchingServiceImpl) Dismiss(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	const op = "internal.service.matching.Dismiss"

	match, err := s.matchQry.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get match: %w", op, err)
	}

	dismissed := domain.MatchStatusDismissed
	if err := s.matchCmd.Update(ctx, matchID, repository.MatchUpdate{Status: &dismissed}); err != nil {
		return nil, fmt.Errorf("%s: failed to update match: %w", op, err)
	}

	match.Status = dismissed

	return match, nil
}

// SearchExperts scores the eligible pool against the request and returns
// candidates above opts.MinScore, annotated with existing-pairing flags.
// Ordering: score descending, with RUSHING-then-IDLE status rank and
// rating (nulls last) breaking ties.
func (s *MatchingServiceImpl) SearchExperts(ctx context.Context, requestID string, opts SearchOptions) ([]ExpertCandidate, error) {
	const op = "internal.service.matching.SearchExperts"

	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get request: %w", op, err)
	}

	experts, err := s.experts.SearchEligible(ctx, repository.ExpertSearchFilter{
		Keyword:    opts.Keyword,
		WorkStatus: opts.WorkStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to search experts: %w", op, err)
	}

	paired, err := s.pairedExpertSet(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	candidates := make([]ExpertCandidate, 0, len(experts))

	for i := range experts {
		expert := experts[i]

		result := scoring.Compose(&expert, req, now)
		if result.Total < opts.MinScore {
			continue
		}

		_, matched := paired[expert.ID]
		candidates = append(candidates, ExpertCandidate{
			Expert:         expert,
			Score:          result.Total,
			DistanceKm:     result.DistanceKm,
			AlreadyMatched: matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := workStatusRank(candidates[i].Expert.WorkStatus), workStatusRank(candidates[j].Expert.WorkStatus)
		if ri != rj {
			return ri < rj
		}

		return ratingOf(&candidates[i].Expert) > ratingOf(&candidates[j].Expert)
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	return candidates, nil
}

// ListForExpert returns the expert's matches ranked by score.
func (s *MatchingServiceImpl) ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error) {
	const op = "internal.service.matching.ListForExpert"

	matches, err := s.matchQry.ListForExpert(ctx, expertID, statuses, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list matches: %w", op, err)
	}

	return matches, nil
}

// ListForRequest returns the request's matches ranked by score.
func (s *MatchingServiceImpl) ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error) {
	const op = "internal.service.matching.ListForRequest"

	matches, err := s.matchQry.ListForRequest(ctx, requestID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list matches: %w", op, err)
	}

	return matches, nil
}

func (s *MatchingServiceImpl) pairedExpertSet(ctx context.Context, requestID string) (map[string]struct{}, error) {
	ids, err := s.matchQry.ListExpertIDsForRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing pairings: %w", err)
	}

	paired := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		paired[id] = struct{}{}
	}

	return paired, nil
}

func (s *MatchingServiceImpl) createMatch(ctx context.Context, expertID, requestID string, result scoring.Result, source domain.MatchSource) (*domain.MatchResult, error) {
	now := s.now()

	match := &domain.MatchResult{
		ID:                uuid.NewString(),
		ExpertID:          expertID,
		RequestID:         requestID,
		TotalScore:        result.Total,
		ScoreLocation:     result.Breakdown.Location,
		ScoreSkill:        result.Breakdown.Skill,
		ScoreExperience:   result.Breakdown.Experience,
		ScoreAvailability: result.Breakdown.Availability,
		ScoreRating:       result.Breakdown.Rating,
		ScoreKeyword:      result.Breakdown.Keyword,
		ScoreStatusBonus:  result.Breakdown.StatusBonus,
		Source:            source,
		Status:            domain.MatchStatusNew,
		DistanceKm:        result.DistanceKm,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.matchCmd.Create(ctx, match); err != nil {
		return nil, err
	}

	matchesCreatedTotal.WithLabelValues(string(source)).Inc()
	s.enqueueNotification(ctx, match.ID)

	return match, nil
}

func (s *MatchingServiceImpl) enqueueNotification(ctx context.Context, matchID string) {
	if s.notify == nil {
		return
	}

	if err := s.notify.Enqueue(ctx, matchID); err != nil {
		s.log.Warn("failed to enqueue match notification",
			slog.String("match_id", matchID), sl.Err(err))
	}
}

// workStatusRank orders search results: RUSHING first, then IDLE, then
// everything else.
func workStatusRank(ws domain.WorkStatus) int {
	switch ws {
	case domain.WorkStatusRushing:
		return 0
	case domain.WorkStatusIdle:
		return 1
	default:
		return 2
	}
}

// ratingOf treats missing ratings as the lowest possible so they sort
// last.
func ratingOf(e *domain.Expert) float64 {
	if e.RatingAvg == nil || e.RatingCount == 0 {
		return -1
	}

	return *e.RatingAvg
}
