package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Repository defines data access methods for items and their comments.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error)
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	// Comment methods
	CreateComment(ctx context.Context, cm *Comment) error
	ListComments(ctx context.Context, itemIDs []int64) (map[int64][]Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Referenced rows may vanish between the service checks and the insert.
var (
	itemForeignKeys = map[string]*apperror.AppError{
		"items_owner_id_fkey":   user.ErrNotFound,
		"items_request_id_fkey": ErrRequestNotFound,
	}
	commentForeignKeys = map[string]*apperror.AppError{
		"comments_item_id_fkey":   ErrNotFound,
		"comments_author_id_fkey": user.ErrNotFound,
	}
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var itemColumns = []string{"i.id", "i.name", "i.description", "i.is_available", "i.owner_id", "i.request_id"}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "is_available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&it.ID); err != nil {
		if fkErr := db.ForeignKeyError(err, itemForeignKeys); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("is_available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]*Item, error) {
	query := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		OrderBy("i.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	return r.list(ctx, query)
}

// Search matches available items whose name or description contains text, ignoring case.
func (r *pgxRepository) Search(ctx context.Context, text string, offset, limit int) ([]*Item, error) {
	return r.list(ctx, searchQuery(text, offset, limit))
}

// searchQuery treats text literally: LIKE wildcards in it are escaped.
func searchQuery(text string, offset, limit int) squirrel.SelectBuilder {
	pattern := "%" + likeEscaper.Replace(text) + "%"
	return psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.is_available": true}).
		Where(squirrel.Or{
			squirrel.Expr(`i.name ILIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`i.description ILIKE ? ESCAPE '\'`, pattern),
		}).
		OrderBy("i.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items failed: %w", err)
	}
	return items, nil
}

func (r *pgxRepository) CreateComment(ctx context.Context, cm *Comment) error {
	// The author name comes back with the insert so the response needs no second lookup.
	const query = `
		WITH inserted AS (
			INSERT INTO public.comments (text, item_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, author_id, created
		)
		SELECT inserted.id, inserted.created, u.name
		FROM inserted
		JOIN public.users u ON u.id = inserted.author_id
	`

	if err := r.pool.QueryRow(ctx, query, cm.Text, cm.ItemID, cm.AuthorID).
		Scan(&cm.ID, &cm.Created, &cm.AuthorName); err != nil {
		if fkErr := db.ForeignKeyError(err, commentForeignKeys); fkErr != nil {
			return fkErr
		}
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

// ListComments returns the comments of the given items keyed by item ID, oldest first.
func (r *pgxRepository) ListComments(ctx context.Context, itemIDs []int64) (map[int64][]Comment, error) {
	result := make(map[int64][]Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	query, args, err := psql.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created").
		From("public.comments c").
		Join("public.users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		result[cm.ItemID] = append(result[cm.ItemID], cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments failed: %w", err)
	}
	return result, nil
}
