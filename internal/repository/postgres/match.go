package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/expertlink/matching-service/internal/apperrors"
	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var matchColumns = []string{
	"id", "expert_id", "request_id", "total_score",
	"score_location", "score_skill", "score_experience",
	"score_availability", "score_rating", "score_keyword", "score_status_bonus",
	"source", "status", "distance_km",
	"expert_notified", "requester_notified",
	"expert_notified_at", "requester_notified_at",
	"expert_viewed_at", "requester_viewed_at",
	"created_at", "updated_at",
}

type MatchRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewMatchRepository(db *sqlx.DB, log *slog.Logger) *MatchRepository {
	return &MatchRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MatchRepository) Exists(ctx context.Context, expertID, requestID string) (bool, error) {
	const op = "internal.repository.postgres.MatchExists"

	query, args, err := r.sq.Select("1").
		From("match_results").
		Where(sq.Eq{"expert_id": expertID, "request_id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return true, nil
}

func (r *MatchRepository) Create(ctx context.Context, m *domain.MatchResult) error {
	const op = "internal.repository.postgres.CreateMatch"

	query, args, err := r.sq.Insert("match_results").
		Columns(
			"id", "expert_id", "request_id", "total_score",
			"score_location", "score_skill", "score_experience",
			"score_availability", "score_rating", "score_keyword", "score_status_bonus",
			"source", "status", "distance_km",
			"expert_notified", "requester_notified",
			"created_at", "updated_at",
		).
		Values(
			m.ID, m.ExpertID, m.RequestID, m.TotalScore,
			m.ScoreLocation, m.ScoreSkill, m.ScoreExperience,
			m.ScoreAvailability, m.ScoreRating, m.ScoreKeyword, m.ScoreStatusBonus,
			m.Source, m.Status, m.DistanceKm,
			m.ExpertNotified, m.RequesterNotified,
			m.CreatedAt, m.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return &apperrors.MatchAlreadyExistsError{ExpertID: m.ExpertID, RequestID: m.RequestID}
			}

			if pqErr.Code == "23503" {
				return fmt.Errorf("%s: %w: expert '%s' or request '%s'", op, apperrors.ErrNotFound, m.ExpertID, m.RequestID)
			}
		}

		return fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, id string, upd repository.MatchUpdate) error {
	const op = "internal.repository.postgres.UpdateMatch"

	updateBuilder := r.sq.Update("match_results").
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	if upd.Source != nil {
		updateBuilder = updateBuilder.Set("source", *upd.Source)
	}

	if upd.Status != nil {
		updateBuilder = updateBuilder.Set("status", *upd.Status)
	}

	if upd.ExpertNotified != nil {
		updateBuilder = updateBuilder.Set("expert_notified", *upd.ExpertNotified)
	}

	if upd.RequesterNotified != nil {
		updateBuilder = updateBuilder.Set("requester_notified", *upd.RequesterNotified)
	}

	if upd.ExpertViewedAt != nil {
		updateBuilder = updateBuilder.Set("expert_viewed_at", *upd.ExpertViewedAt)
	}

	if upd.RequesterViewedAt != nil {
		updateBuilder = updateBuilder.Set("requester_viewed_at", *upd.RequesterViewedAt)
	}

	if upd.ClearExpertNotifiedAt {
		updateBuilder = updateBuilder.Set("expert_notified_at", nil)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w: match with id '%s'", op, apperrors.ErrNotFound, id)
	}

	return nil
}

func (r *MatchRepository) BulkMarkNotified(ctx context.Context, ids []string, side domain.Side, at time.Time) error {
	const op = "internal.repository.postgres.BulkMarkNotified"

	if len(ids) == 0 {
		return nil
	}

	flagColumn, atColumn := "expert_notified", "expert_notified_at"
	if side == domain.SideRequester {
		flagColumn, atColumn = "requester_notified", "requester_notified_at"
	}

	query, args, err := r.sq.Update("match_results").
		Set(flagColumn, true).
		Set(atColumn, at).
		Set("updated_at", at).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (*domain.MatchResult, error) {
	const op = "internal.repository.postgres.GetMatchByID"

	query, args, err := r.sq.Select(matchColumns...).
		From("match_results").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var m domain.MatchResult
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: match with id '%s'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &m, nil
}

func (r *MatchRepository) GetByPair(ctx context.Context, expertID, requestID string) (*domain.MatchResult, error) {
	const op = "internal.repository.postgres.GetMatchByPair"

	query, args, err := r.sq.Select(matchColumns...).
		From("match_results").
		Where(sq.Eq{"expert_id": expertID, "request_id": requestID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var m domain.MatchResult
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: match for expert '%s' and request '%s'", op, apperrors.ErrNotFound, expertID, requestID)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &m, nil
}

func (r *MatchRepository) ListExpertIDsForRequest(ctx context.Context, requestID string) ([]string, error) {
	const op = "internal.repository.postgres.ListExpertIDsForRequest"

	query, args, err := r.sq.Select("expert_id").
		From("match_results").
		Where(sq.Eq{"request_id": requestID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var expertIDs []string
	if err := r.db.SelectContext(ctx, &expertIDs, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return expertIDs, nil
}

func (r *MatchRepository) ListForExpert(ctx context.Context, expertID string, statuses []domain.MatchStatus, limit int) ([]domain.MatchResult, error) {
	const op = "internal.repository.postgres.ListMatchesForExpert"

	queryBuilder := r.sq.Select(matchColumns...).
		From("match_results").
		Where(sq.Eq{"expert_id": expertID}).
		OrderBy("total_score DESC", "created_at DESC")

	if len(statuses) > 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"status": statuses})
	}

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var matches []domain.MatchResult
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return matches, nil
}

func (r *MatchRepository) ListForRequest(ctx context.Context, requestID string, limit int) ([]domain.MatchResult, error) {
	const op = "internal.repository.postgres.ListMatchesForRequest"

	queryBuilder := r.sq.Select(matchColumns...).
		From("match_results").
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("total_score DESC", "created_at DESC")

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var matches []domain.MatchResult
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return matches, nil
}

func (r *MatchRepository) ListPendingExpertNotification(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	const op = "internal.repository.postgres.ListPendingExpertNotification"

	queryBuilder := r.sq.Select(matchColumns...).
		From("match_results").
		Where(sq.Eq{"expert_notified": false}).
		OrderBy("created_at ASC")

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var matches []domain.MatchResult
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return matches, nil
}
