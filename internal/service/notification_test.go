package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/expertlink/matching-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService() (*NotificationServiceImpl, *MatchCommandRepositoryMock, *MatchQueryRepositoryMock) {
	matchCmd := new(MatchCommandRepositoryMock)
	matchQry := new(MatchQueryRepositoryMock)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	service := NewNotificationService(logger, matchCmd, matchQry)
	service.now = func() time.Time { return testNow }

	return service, matchCmd, matchQry
}

func TestNotificationServiceImpl_PendingForExperts(t *testing.T) {
	ctx := context.Background()
	service, _, matchQry := newTestNotificationService()

	pending := []domain.MatchResult{
		{ID: "m-1", ExpertID: "exp-1"},
		{ID: "m-2", ExpertID: "exp-2"},
	}
	matchQry.On("ListPendingExpertNotification", mock.Anything, 50).Return(pending, nil)

	matches, err := service.PendingForExperts(ctx, 50)

	require.NoError(t, err)
	assert.Equal(t, pending, matches)

	matchQry.AssertExpectations(t)
}

func TestNotificationServiceImpl_MarkNotified(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: batch is marked with the service clock", func(t *testing.T) {
		service, matchCmd, _ := newTestNotificationService()

		ids := []string{"m-1", "m-2"}
		matchCmd.On("BulkMarkNotified", mock.Anything, ids, domain.SideExpert, testNow).Return(nil)

		err := service.MarkNotified(ctx, ids, domain.SideExpert)

		assert.NoError(t, err)
		matchCmd.AssertExpectations(t)
	})

	t.Run("Success: empty batch is a no-op", func(t *testing.T) {
		service, matchCmd, _ := newTestNotificationService()

		err := service.MarkNotified(ctx, nil, domain.SideExpert)

		assert.NoError(t, err)
		matchCmd.AssertNotCalled(t, "BulkMarkNotified",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure: repository error is surfaced", func(t *testing.T) {
		service, matchCmd, _ := newTestNotificationService()

		matchCmd.On("BulkMarkNotified", mock.Anything, []string{"m-1"}, domain.SideRequester, testNow).
			Return(errors.New("database connection lost"))

		err := service.MarkNotified(ctx, []string{"m-1"}, domain.SideRequester)

		assert.Error(t, err)
		matchCmd.AssertExpectations(t)
	})
}
