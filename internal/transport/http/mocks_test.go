package http

import (
	"context"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type MatchingServiceMock struct {
	mock.Mock
}

var _ service.MatchingService = (*MatchingServiceMock)(nil)

func (m *MatchingServiceMock) RunMatching(ctx context.Context, requestID string) ([]domain.MatchResult, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) CreatePairing(ctx context.Context, expertID, requestID string, source domain.MatchSource) (*domain.MatchResult, error) {
	args := m.Called(ctx, expertID, requestID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) PushToExperts(ctx context.Context, requestID string, expertIDs []string, source domain.MatchSource) (*service.PushReport, error) {
	args := m.Called(ctx, requestID, expertIDs, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.PushReport), args.Error(1)
}

func (m *MatchingServiceMock) AutoMatchRushing(ctx context.Context, requestID string) ([]domain.MatchResult, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) MarkViewed(ctx context.Context, matchID string, side domain.Side) (*domain.MatchResult, error) {
	args := m.Called(ctx, matchID, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) Dismiss(ctx context.Context, matchID string) (*domain.MatchResult, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) SearchExperts(ctx context.Context, requestID string, opts service.SearchOptions) ([]service.ExpertCandidate, error) {
	args := m.Called(ctx, requestID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]service.ExpertCandidate), args.Error(1)
}

func (m *MatchingServiceMock) ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, expertID, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MatchingServiceMock) ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, requestID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

var _ service.NotificationService = (*NotificationServiceMock)(nil)

func (m *NotificationServiceMock) PendingForExperts(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *NotificationServiceMock) MarkNotified(ctx context.Context, ids []string, side domain.Side) error {
	args := m.Called(ctx, ids, side)
	return args.Error(0)
}
