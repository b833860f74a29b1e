package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// ValidateNew checks a booking request before it is stored. Rules run in order and
// the first failure is returned. Overlapping bookings are allowed.
func ValidateNew(bookerID int64, it *item.Item, start, end time.Time) error {
	if bookerID == it.OwnerID {
		return ErrOwnItem
	}
	if !it.Available {
		return ErrItemUnavailable
	}
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	return nil
}
