package booking

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

func TestCreate_ForeignKeyViolations(t *testing.T) {
	itemGone := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_item_id_fkey"}
	bookerGone := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "bookings_booker_id_fkey"}

	assert.ErrorIs(t, db.ForeignKeyError(itemGone, bookingForeignKeys), item.ErrNotFound)
	assert.ErrorIs(t, db.ForeignKeyError(bookerGone, bookingForeignKeys), user.ErrNotFound)
}
