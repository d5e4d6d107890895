// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// matching engine.
package repository

import (
	"context"
	"time"

	"github.com/expertlink/matching-service/internal/domain"
)

// ExpertSearchFilter narrows the eligible-expert pool for search. The
// zero value means "approved + available, any work status except
// OFF_DUTY, no keyword".
type ExpertSearchFilter struct {
	// Keyword is matched case-insensitively against name, professional
	// field, services offered and skill tags.
	Keyword string

	// WorkStatus restricts the pool to a single status. When nil,
	// OFF_DUTY experts are excluded and everything else is included.
	WorkStatus *domain.WorkStatus
}

// MatchUpdate describes a partial update of a match row. Nil fields are
// left untouched; updated_at is always refreshed.
type MatchUpdate struct {
	Source            *domain.MatchSource
	Status            *domain.MatchStatus
	ExpertNotified    *bool
	RequesterNotified *bool
	ExpertViewedAt    *time.Time
	RequesterViewedAt *time.Time

	// ClearExpertNotifiedAt nulls expert_notified_at, used when a re-push
	// resets the notification state of an existing pairing.
	ClearExpertNotifiedAt bool
}

// RequestRepository reads service requests.
type RequestRepository interface {
	// GetRequest retrieves a request by id.
	// It returns apperrors.ErrNotFound if the request does not exist.
	GetRequest(ctx context.Context, id string) (*domain.ServiceRequest, error)

	// ListOpenPublicRequests returns all OPEN, publicly visible requests,
	// oldest first. This is the candidate pool of the rushing sweep.
	ListOpenPublicRequests(ctx context.Context) ([]domain.ServiceRequest, error)
}

// ExpertRepository reads experts.
type ExpertRepository interface {
	// GetExpert retrieves an expert by id.
	// It returns apperrors.ErrNotFound if the expert does not exist.
	GetExpert(ctx context.Context, id string) (*domain.Expert, error)

	// ListEligible returns all approved, available experts.
	ListEligible(ctx context.Context) ([]domain.Expert, error)

	// ListRushing returns approved, available experts in RUSHING status,
	// ordered by rushing_since ascending (longest-waiting first, NULLs
	// last) and then membership tier descending.
	ListRushing(ctx context.Context) ([]domain.Expert, error)

	// SearchEligible returns approved, available experts narrowed by the
	// filter. See ExpertSearchFilter for the default pool semantics.
	SearchEligible(ctx context.Context, filter ExpertSearchFilter) ([]domain.Expert, error)
}

// MatchCommandRepository holds the write side of match persistence.
type MatchCommandRepository interface {
	// Exists reports whether a match row exists for the pair. It is an
	// advisory pre-check: the unique constraint on (expert_id,
	// request_id) is the real duplicate guard.
	Exists(ctx context.Context, expertID, requestID string) (bool, error)

	// Create inserts a new match row. A unique-constraint violation is
	// mapped to *apperrors.MatchAlreadyExistsError so concurrent sweeps
	// can absorb the race without corrupting their batch.
	Create(ctx context.Context, m *domain.MatchResult) error

	// Update applies a partial update to a match row.
	// It returns apperrors.ErrNotFound if the match does not exist.
	Update(ctx context.Context, id string, upd MatchUpdate) error

	// BulkMarkNotified sets the notified flag and timestamp for the given
	// side on a batch of match ids.
	BulkMarkNotified(ctx context.Context, ids []string, side domain.Side, at time.Time) error
}

// MatchQueryRepository holds the read side of match persistence.
type MatchQueryRepository interface {
	// GetByID retrieves a match by id.
	// It returns apperrors.ErrNotFound if the match does not exist.
	GetByID(ctx context.Context, id string) (*domain.MatchResult, error)

	// GetByPair retrieves the match for an (expert, request) pair.
	// It returns apperrors.ErrNotFound if no pairing exists.
	GetByPair(ctx context.Context, expertID, requestID string) (*domain.MatchResult, error)

	// ListExpertIDsForRequest returns the ids of all experts already
	// paired with the request, regardless of match status.
	ListExpertIDsForRequest(ctx context.Context, requestID string) ([]string, error)

	// ListForExpert returns the expert's matches, optionally filtered by
	// status, ordered by total_score desc then created_at desc.
	ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error)

	// ListForRequest returns the request's matches ordered by total_score
	// desc then created_at desc.
	ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error)

	// ListPendingExpertNotification returns matches whose expert has not
	// been notified yet, oldest first.
	ListPendingExpertNotification(ctx context.Context, limit int) ([]domain.MatchResult, error)
}
