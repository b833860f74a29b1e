package booking

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrPermissionDenied = apperror.AccessDenied("only the item owner can approve or reject a booking")
	ErrOwnItem          = apperror.Validation("cannot book own item")
	ErrItemUnavailable  = apperror.Validation("item is not available for booking")
	ErrInvalidTimeRange = apperror.Validation("start must be before end")
	ErrCanceled         = apperror.Validation("booking is canceled")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

type Booking struct {
	ID              int64
	ItemID          int64
	ItemName        string
	ItemDescription string
	ItemAvailable   bool
	OwnerID         int64
	BookerID        int64
	BookerName      string
	BookerEmail     string
	Start           time.Time
	End             time.Time
	Status          Status
}

// Decide records the owner's answer. Only canceled bookings are locked; an approved or
// rejected booking may be decided again.
func (b *Booking) Decide(approved bool) error {
	if b.Status == StatusCanceled {
		return ErrCanceled
	}
	if approved {
		b.Status = StatusApproved
	} else {
		b.Status = StatusRejected
	}
	return nil
}
