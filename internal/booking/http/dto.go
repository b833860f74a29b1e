package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// CreateBookingBody is the JSON payload for POST /bookings.
type CreateBookingBody struct {
	ItemID int64     `json:"itemId" binding:"required,min=1"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// DecideRequest carries the owner's answer from PATCH /bookings/:id?approved=.
type DecideRequest struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	State string `form:"state"`
}

// ItemTag is a brief representation of the booked item.
type ItemTag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

type BookingResponse struct {
	ID     int64                 `json:"id"`
	Start  time.Time             `json:"start"`
	End    time.Time             `json:"end"`
	Status string                `json:"status"`
	Item   ItemTag               `json:"item"`
	Booker userHttp.UserResponse `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start.UTC(),
		End:    b.End.UTC(),
		Status: string(b.Status),
		Item: ItemTag{
			ID:          b.ItemID,
			Name:        b.ItemName,
			Description: b.ItemDescription,
			Available:   b.ItemAvailable,
		},
		Booker: userHttp.UserResponse{ID: b.BookerID, Name: b.BookerName, Email: b.BookerEmail},
	}
}

func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = NewBookingResponse(b)
	}
	return resp
}
