package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/expertlink/matching-service/internal/apperrors"
	"github.com/expertlink/matching-service/internal/domain"
	"github.com/expertlink/matching-service/internal/repository"
	"github.com/jmoiron/sqlx"
)

var expertColumns = []string{
	"id", "name", "approved", "available", "last_active_at",
	"work_status", "rushing_since", "membership", "years_experience",
	"latitude", "longitude", "service_radius_km",
	"skill_tags", "professional_field", "services_offered", "certifications",
	"rating_avg", "rating_count",
}

// membershipRankSQL orders membership tiers without a lookup table.
const membershipRankSQL = `CASE membership
	WHEN 'DIAMOND' THEN 3
	WHEN 'GOLD' THEN 2
	WHEN 'SILVER' THEN 1
	ELSE 0
END`

type ExpertRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewExpertRepository(db *sqlx.DB, log *slog.Logger) *ExpertRepository {
	return &ExpertRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ExpertRepository) GetExpert(ctx context.Context, id string) (*domain.Expert, error) {
	const op = "internal.repository.postgres.GetExpert"

	query, args, err := r.sq.Select(expertColumns...).
		From("experts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var expert domain.Expert
	if err := r.db.GetContext(ctx, &expert, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: expert with id '%s'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &expert, nil
}

func (r *ExpertRepository) ListEligible(ctx context.Context) ([]domain.Expert, error) {
	const op = "internal.repository.postgres.ListEligible"

	query, args, err := r.sq.Select(expertColumns...).
		From("experts").
		Where(sq.Eq{"approved": true, "available": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var experts []domain.Expert
	if err := r.db.SelectContext(ctx, &experts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return experts, nil
}

func (r *ExpertRepository) ListRushing(ctx context.Context) ([]domain.Expert, error) {
	const op = "internal.repository.postgres.ListRushing"

	query, args, err := r.sq.Select(expertColumns...).
		From("experts").
		Where(sq.Eq{
			"approved":    true,
			"available":   true,
			"work_status": domain.WorkStatusRushing,
		}).
		OrderBy("rushing_since ASC NULLS LAST", membershipRankSQL+" DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var experts []domain.Expert
	if err := r.db.SelectContext(ctx, &experts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return experts, nil
}

func (r *ExpertRepository) SearchEligible(ctx context.Context, filter repository.ExpertSearchFilter) ([]domain.Expert, error) {
	const op = "internal.repository.postgres.SearchEligible"

	queryBuilder := r.sq.Select(expertColumns...).
		From("experts").
		Where(sq.Eq{"approved": true, "available": true})

	if filter.WorkStatus != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"work_status": *filter.WorkStatus})
	} else {
		queryBuilder = queryBuilder.Where(sq.NotEq{"work_status": domain.WorkStatusOffDuty})
	}

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		queryBuilder = queryBuilder.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"professional_field": pattern},
			sq.ILike{"services_offered": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM unnest(skill_tags) AS tag WHERE tag ILIKE ?)", pattern),
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var experts []domain.Expert
	if err := r.db.SelectContext(ctx, &experts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return experts, nil
}
