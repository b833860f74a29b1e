package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}

type ItemTag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"ownerId"`
	RequestID int64  `json:"requestId"`
}

type RequestResponse struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []ItemTag `json:"items"`
}

func NewRequestResponse(req *itemrequest.ItemRequest) RequestResponse {
	items := make([]ItemTag, len(req.Items))
	for i, it := range req.Items {
		items[i] = ItemTag{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID, RequestID: it.RequestID}
	}

	return RequestResponse{
		ID:          req.ID,
		Description: req.Description,
		Created:     req.Created.UTC(),
		Items:       items,
	}
}

func NewRequestListResponse(requests []*itemrequest.ItemRequest) []RequestResponse {
	resp := make([]RequestResponse, len(requests))
	for i, req := range requests {
		resp[i] = NewRequestResponse(req)
	}
	return resp
}
