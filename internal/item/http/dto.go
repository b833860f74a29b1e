package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
)

// CreateItemBody is the JSON payload for POST /items.
type CreateItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId" binding:"omitempty,min=1"`
}

// UpdateItemBody is the JSON payload for PATCH /items/:id. Every field is optional.
type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type SearchItemsRequest struct {
	request.ListParams
	Text string `form:"text"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}

// BookingShortResponse is the compact booking shown on an owner's item view.
type BookingShortResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type ItemResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	RequestID   *int64                `json:"requestId"`
	LastBooking *BookingShortResponse `json:"lastBooking"`
	NextBooking *BookingShortResponse `json:"nextBooking"`
	Comments    []CommentResponse     `json:"comments"`
}

func NewCommentResponse(cm *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.Created.UTC(),
	}
}

func newBookingShort(b *item.BookingBrief) *BookingShortResponse {
	if b == nil {
		return nil
	}
	return &BookingShortResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start.UTC(),
		End:      b.End.UTC(),
	}
}

func NewItemResponse(it *item.Item) ItemResponse {
	comments := make([]CommentResponse, len(it.Comments))
	for i := range it.Comments {
		comments[i] = NewCommentResponse(&it.Comments[i])
	}

	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		LastBooking: newBookingShort(it.LastBooking),
		NextBooking: newBookingShort(it.NextBooking),
		Comments:    comments,
	}
}

func NewItemListResponse(items []*item.Item) []ItemResponse {
	resp := make([]ItemResponse, len(items))
	for i, it := range items {
		resp[i] = NewItemResponse(it)
	}
	return resp
}
