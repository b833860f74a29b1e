package item

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("item not found")
	ErrRequestNotFound     = apperror.NotFound("request not found")
	ErrNameRequired        = apperror.Validation("name is required")
	ErrDescriptionRequired = apperror.Validation("description is required")
	ErrAvailableRequired   = apperror.Validation("available is required")
	ErrTextRequired        = apperror.Validation("comment text is required")
	ErrCommentNotAllowed   = apperror.Validation("user has no finished booking of this item")
)

// Item is a thing a user offers for sharing.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64

	// Filled only when the owner views the item.
	LastBooking *BookingBrief
	NextBooking *BookingBrief

	Comments []Comment
}

// Comment is feedback left by a past booker.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

// BookingBrief is the part of a booking the item views need.
type BookingBrief struct {
	ID       int64
	ItemID   int64
	BookerID int64
	Start    time.Time
	End      time.Time
	Rejected bool
}

// ProjectBookings splits approved bookings around now. last is the latest one that
// started before now, next the earliest one that starts after now.
func ProjectBookings(bookings []BookingBrief, now time.Time) (last, next *BookingBrief) {
	for i := range bookings {
		b := bookings[i]
		switch {
		case b.Start.Before(now):
			if last == nil || b.Start.After(last.Start) {
				last = &b
			}
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) {
				next = &b
			}
		}
	}
	return last, next
}

// CanComment reports whether any of the user's bookings of the item ended before now
// without being rejected.
func CanComment(bookings []BookingBrief, now time.Time) bool {
	for _, b := range bookings {
		if b.End.Before(now) && !b.Rejected {
			return true
		}
	}
	return false
}
