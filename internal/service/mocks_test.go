package service

import (
	"context"
	"time"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type RequestRepositoryMock struct {
	mock.Mock
}

var _ repository.RequestRepository = (*RequestRepositoryMock)(nil)

func (m *RequestRepositoryMock) GetRequest(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *RequestRepositoryMock) ListOpenPublicRequests(ctx context.Context) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

type ExpertRepositoryMock struct {
	mock.Mock
}

var _ repository.ExpertRepository = (*ExpertRepositoryMock)(nil)

func (m *ExpertRepositoryMock) GetExpert(ctx context.Context, id string) (*domain.Expert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Expert), args.Error(1)
}

func (m *ExpertRepositoryMock) ListEligible(ctx context.Context) ([]domain.Expert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Expert), args.Error(1)
}

func (m *ExpertRepositoryMock) ListRushing(ctx context.Context) ([]domain.Expert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Expert), args.Error(1)
}

func (m *ExpertRepositoryMock) SearchEligible(ctx context.Context, filter repository.ExpertSearchFilter) ([]domain.Expert, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Expert), args.Error(1)
}

type MatchCommandRepositoryMock struct {
	mock.Mock
}

var _ repository.MatchCommandRepository = (*MatchCommandRepositoryMock)(nil)

func (m *MatchCommandRepositoryMock) Exists(ctx context.Context, expertID, requestID string) (bool, error) {
	args := m.Called(ctx, expertID, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *MatchCommandRepositoryMock) Create(ctx context.Context, match *domain.MatchResult) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MatchCommandRepositoryMock) Update(ctx context.Context, id string, upd repository.MatchUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MatchCommandRepositoryMock) BulkMarkNotified(ctx context.Context, ids []string, side domain.Side, at time.Time) error {
	args := m.Called(ctx, ids, side, at)
	return args.Error(0)
}

type MatchQueryRepositoryMock struct {
	mock.Mock
}

var _ repository.MatchQueryRepository = (*MatchQueryRepositoryMock)(nil)

func (m *MatchQueryRepositoryMock) GetByID(ctx context.Context, id string) (*domain.MatchResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MatchQueryRepositoryMock) GetByPair(ctx context.Context, expertID, requestID string) (*domain.MatchResult, error) {
	args := m.Called(ctx, expertID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.MatchResult), args.Error(1)
}

func (m *MatchQueryRepositoryMock) ListExpertIDsForRequest(ctx context.Context, requestID string) ([]string, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *MatchQueryRepositoryMock) ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, expertID, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MatchQueryRepositoryMock) ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, requestID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

func (m *MatchQueryRepositoryMock) ListPendingExpertNotification(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.MatchResult), args.Error(1)
}

type NotifyQueueMock struct {
	mock.Mock
}

var _ NotifyQueue = (*NotifyQueueMock)(nil)

func (m *NotifyQueueMock) Enqueue(ctx context.Context, matchID string) error {
	args := m.Called(ctx, matchID)
	return args.Error(0)
}
