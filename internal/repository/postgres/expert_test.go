package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"log/slog"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/expertlink/matching-service/internal/apperrors"
	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockExpertRepository(t *testing.T) (*ExpertRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	return NewExpertRepository(sqlxDB, logger), smock
}

func expertRow(id string) []driver.Value {
	now := time.Now().UTC()

	return []driver.Value{
		id, "Test Expert", true, true, now,
		"IDLE", nil, "GOLD", 8,
		31.2304, 121.4737, 100.0,
		"{PLC,Siemens}", "Industrial automation", "PLC programming", "",
		4.8, 25,
	}
}

func TestExpertRepository_GetExpert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: full profile is scanned", func(t *testing.T) {
		repo, smock := newMockExpertRepository(t)

		smock.ExpectQuery("SELECT (.+) FROM experts WHERE id =").
			WithArgs("exp-1").
			WillReturnRows(sqlmock.NewRows(expertColumns).AddRow(expertRow("exp-1")...))

		expert, err := repo.GetExpert(ctx, "exp-1")

		require.NoError(t, err)
		assert.Equal(t, "exp-1", expert.ID)
		assert.Equal(t, domain.WorkStatusIdle, expert.WorkStatus)
		assert.Equal(t, domain.MembershipGold, expert.Membership)
		assert.Equal(t, pq.StringArray{"PLC", "Siemens"}, expert.SkillTags)
		require.NotNil(t, expert.RatingAvg)
		assert.Equal(t, 4.8, *expert.RatingAvg)
		assert.NoError(t, smock.ExpectationsWereMet())
	})

	t.Run("Failure: missing expert maps to not found", func(t *testing.T) {
		repo, smock := newMockExpertRepository(t)

		smock.ExpectQuery("SELECT (.+) FROM experts WHERE id =").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetExpert(ctx, "ghost")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, smock.ExpectationsWereMet())
	})
}

func TestExpertRepository_ListRushing(t *testing.T) {
	ctx := context.Background()
	repo, smock := newMockExpertRepository(t)

	smock.ExpectQuery(regexp.QuoteMeta("ORDER BY rushing_since ASC NULLS LAST, CASE membership")).
		WithArgs(true, true, string(domain.WorkStatusRushing)).
		WillReturnRows(sqlmock.NewRows(expertColumns).
			AddRow(expertRow("exp-1")...).
			AddRow(expertRow("exp-2")...))

	experts, err := repo.ListRushing(ctx)

	require.NoError(t, err)
	assert.Len(t, experts, 2)
	assert.NoError(t, smock.ExpectationsWereMet())
}

func TestExpertRepository_SearchEligible(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: default pool excludes off-duty experts", func(t *testing.T) {
		repo, smock := newMockExpertRepository(t)

		smock.ExpectQuery(regexp.QuoteMeta("work_status <> $3")).
			WithArgs(true, true, string(domain.WorkStatusOffDuty)).
			WillReturnRows(sqlmock.NewRows(expertColumns))

		_, err := repo.SearchEligible(ctx, repository.ExpertSearchFilter{})

		require.NoError(t, err)
		assert.NoError(t, smock.ExpectationsWereMet())
	})

	t.Run("Success: explicit status narrows the pool", func(t *testing.T) {
		repo, smock := newMockExpertRepository(t)

		rushing := domain.WorkStatusRushing
		smock.ExpectQuery(regexp.QuoteMeta("work_status = $3")).
			WithArgs(true, true, string(rushing)).
			WillReturnRows(sqlmock.NewRows(expertColumns))

		_, err := repo.SearchEligible(ctx, repository.ExpertSearchFilter{WorkStatus: &rushing})

		require.NoError(t, err)
		assert.NoError(t, smock.ExpectationsWereMet())
	})

	t.Run("Success: keyword searches profile fields and skill tags", func(t *testing.T) {
		repo, smock := newMockExpertRepository(t)

		smock.ExpectQuery(regexp.QuoteMeta(
			"EXISTS (SELECT 1 FROM unnest(skill_tags) AS tag WHERE tag ILIKE $7)")).
			WithArgs(true, true, string(domain.WorkStatusOffDuty),
				"%plc%", "%plc%", "%plc%", "%plc%").
			WillReturnRows(sqlmock.NewRows(expertColumns).AddRow(expertRow("exp-1")...))

		experts, err := repo.SearchEligible(ctx, repository.ExpertSearchFilter{Keyword: "plc"})

		require.NoError(t, err)
		assert.Len(t, experts, 1)
		assert.NoError(t, smock.ExpectationsWereMet())
	})
}
