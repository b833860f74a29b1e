package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

var requestForeignKeys = map[string]*apperror.AppError{
	"requests_requester_id_fkey": user.ErrNotFound,
}

type Repository interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id int64) (*ItemRequest, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	ListOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*ItemRequest, error)
	ListItems(ctx context.Context, requestIDs []int64) (map[int64][]ItemBrief, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectRequests() squirrel.SelectBuilder {
	return psql.Select("r.id", "r.description", "r.requester_id", "r.created").
		From("public.requests r")
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	query, args, err := psql.Insert("public.requests").
		Columns("description", "requester_id").
		Values(req.Description, req.RequesterID).
		Suffix("RETURNING id, created").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.Created); err != nil {
		if fkErr := db.ForeignKeyError(err, requestForeignKeys); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*ItemRequest, error) {
	query, args, err := selectRequests().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM public.requests WHERE id = $1)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*ItemRequest, error) {
	query := selectRequests().
		Where(squirrel.Eq{"r.requester_id": requesterID}).
		OrderBy("r.created DESC", "r.id DESC")
	return r.list(ctx, query)
}

func (r *pgxRepository) ListOthers(ctx context.Context, requesterID int64, offset, limit int) ([]*ItemRequest, error) {
	query := selectRequests().
		Where(squirrel.NotEq{"r.requester_id": requesterID}).
		OrderBy("r.created DESC", "r.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.list(ctx, query)
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*ItemRequest, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	requests := make([]*ItemRequest, 0)
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requests failed: %w", err)
	}
	return requests, nil
}

// ListItems returns the items created in answer to each request, keyed by request ID.
func (r *pgxRepository) ListItems(ctx context.Context, requestIDs []int64) (map[int64][]ItemBrief, error) {
	result := make(map[int64][]ItemBrief, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("i.id", "i.name", "i.owner_id", "i.request_id").
		From("public.items i").
		Where(squirrel.Eq{"i.request_id": requestIDs}).
		OrderBy("i.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list request items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list request items failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it ItemBrief
		if err := rows.Scan(&it.ID, &it.Name, &it.OwnerID, &it.RequestID); err != nil {
			return nil, fmt.Errorf("scan request item failed: %w", err)
		}
		result[it.RequestID] = append(result[it.RequestID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request items failed: %w", err)
	}
	return result, nil
}
