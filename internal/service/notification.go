package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
)

// NotificationService exposes the engine's notification bookkeeping to
// the dispatcher that actually delivers pushes: which matches still await
// delivery, and marking batches as delivered.
type NotificationService interface {
	PendingForExperts(ctx context.Context, limit int) ([]domain.MatchResult, error)
	MarkNotified(ctx context.Context, ids []string, side domain.Side) error
}

type NotificationServiceImpl struct {
	log      *slog.Logger
	matchCmd repository.MatchCommandRepository
	matchQry repository.MatchQueryRepository
	now      func() time.Time
}

func NewNotificationService(
	log *slog.Logger,
	matchCmd repository.MatchCommandRepository,
	matchQry repository.MatchQueryRepository,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		log:      log,
		matchCmd: matchCmd,
		matchQry: matchQry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PendingForExperts returns matches whose expert side has not been
// notified yet, oldest first.
func (s *NotificationServiceImpl) PendingForExperts(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	const op = "internal.service.notification.PendingForExperts"

	matches, err := s.matchQry.ListPendingExpertNotification(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list pending matches: %w", op, err)
	}

	return matches, nil
}

// MarkNotified records delivery for a batch of match ids on one side.
func (s *NotificationServiceImpl) MarkNotified(ctx context.Context, ids []string, side domain.Side) error {
	const op = "internal.service.notification.MarkNotified"

	if len(ids) == 0 {
		return nil
	}

	if err := s.matchCmd.BulkMarkNotified(ctx, ids, side, s.now()); err != nil {
		return fmt.Errorf("%s: failed to mark matches notified: %w", op, err)
	}

	s.log.Info("matches marked notified",
		slog.Int("count", len(ids)),
		slog.String("side", string(side)),
	)

	return nil
}
