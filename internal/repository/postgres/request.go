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
	"github.com/jmoiron/sqlx"
)

var requestColumns = []string{
	"id", "title", "description", "status",
	"latitude", "longitude", "required_skills", "public", "created_at",
}

type RequestRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewRequestRepository(db *sqlx.DB, log *slog.Logger) *RequestRepository {
	return &RequestRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *RequestRepository) GetRequest(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	const op = "internal.repository.postgres.GetRequest"

	query, args, err := r.sq.Select(requestColumns...).
		From("service_requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var req domain.ServiceRequest
	if err := r.db.GetContext(ctx, &req, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: request with id '%s'", op, apperrors.ErrNotFound, id)
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return &req, nil
}

func (r *RequestRepository) ListOpenPublicRequests(ctx context.Context) ([]domain.ServiceRequest, error) {
	const op = "internal.repository.postgres.ListOpenPublicRequests"

	query, args, err := r.sq.Select(requestColumns...).
		From("service_requests").
		Where(sq.Eq{"status": domain.RequestStatusOpen, "public": true}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var requests []domain.ServiceRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, err)
	}

	return requests, nil
}
