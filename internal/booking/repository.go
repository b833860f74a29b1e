package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Filter selects bookings for the list endpoints. Exactly one of BookerID and OwnerID is set.
type Filter struct {
	BookerID  int64
	OwnerID   int64
	Predicate squirrel.Sqlizer
	Offset    int
	Limit     int
}

var bookingForeignKeys = map[string]*apperror.AppError{
	"bookings_item_id_fkey":   item.ErrNotFound,
	"bookings_booker_id_fkey": user.ErrNotFound,
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Read side used by item views.
	ListApprovedForItems(ctx context.Context, itemIDs []int64) ([]*Booking, error)
	ListFinishedByBooker(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.description", "i.is_available", "i.owner_id",
		"b.booker_id", "u.name", "u.email",
		"b.start_date", "b.end_date", "b.status",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemDescription, &b.ItemAvailable, &b.OwnerID,
		&b.BookerID, &b.BookerName, &b.BookerEmail,
		&b.Start, &b.End, &b.Status,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_date", "end_date", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		if fkErr := db.ForeignKeyError(err, bookingForeignKeys); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

// UpdateStatus is a single statement; concurrent decisions on one booking are last-write-wins.
func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// listQuery builds the booker or owner listing, newest start first.
func listQuery(filter Filter) squirrel.SelectBuilder {
	query := selectBookings()

	if filter.BookerID != 0 {
		query = query.Where(squirrel.Eq{"b.booker_id": filter.BookerID})
	}
	if filter.OwnerID != 0 {
		query = query.Where(squirrel.Eq{"i.owner_id": filter.OwnerID})
	}
	if filter.Predicate != nil {
		query = query.Where(filter.Predicate)
	}

	query = query.OrderBy("b.start_date DESC", "b.id DESC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}
	return query
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	return r.list(ctx, listQuery(filter))
}

func (r *pgxRepository) ListApprovedForItems(ctx context.Context, itemIDs []int64) ([]*Booking, error) {
	if len(itemIDs) == 0 {
		return []*Booking{}, nil
	}
	query := selectBookings().
		Where(squirrel.Eq{"b.item_id": itemIDs, "b.status": StatusApproved}).
		OrderBy("b.start_date ASC")
	return r.list(ctx, query)
}

func (r *pgxRepository) ListFinishedByBooker(ctx context.Context, bookerID, itemID int64, now time.Time) ([]*Booking, error) {
	query := selectBookings().
		Where(squirrel.Eq{"b.booker_id": bookerID, "b.item_id": itemID}).
		Where(squirrel.Lt{"b.end_date": now})
	return r.list(ctx, query)
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return bookings, nil
}
