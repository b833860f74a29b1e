package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
)

// ItemBookings serves item views with booking data.
type ItemBookings struct {
	repo Repository
}

var _ item.BookingReader = (*ItemBookings)(nil)

func NewItemBookings(repo Repository) *ItemBookings {
	return &ItemBookings{repo: repo}
}

func (a *ItemBookings) ApprovedForItems(ctx context.Context, itemIDs []int64) (map[int64][]item.BookingBrief, error) {
	bookings, err := a.repo.ListApprovedForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[int64][]item.BookingBrief, len(itemIDs))
	for _, b := range bookings {
		result[b.ItemID] = append(result[b.ItemID], toBrief(b))
	}
	return result, nil
}

func (a *ItemBookings) FinishedByBooker(ctx context.Context, bookerID, itemID int64, now time.Time) ([]item.BookingBrief, error) {
	bookings, err := a.repo.ListFinishedByBooker(ctx, bookerID, itemID, now)
	if err != nil {
		return nil, err
	}

	result := make([]item.BookingBrief, len(bookings))
	for i, b := range bookings {
		result[i] = toBrief(b)
	}
	return result, nil
}

func toBrief(b *Booking) item.BookingBrief {
	return item.BookingBrief{
		ID:       b.ID,
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
		Rejected: b.Status == StatusRejected,
	}
}
