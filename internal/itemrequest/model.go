package itemrequest

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("request not found")
	ErrDescriptionRequired = apperror.Validation("description is required")
)

// ItemRequest asks for an item nobody has listed yet.
type ItemRequest struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
	// Items listed in answer to the request.
	Items []ItemBrief
}

type ItemBrief struct {
	ID        int64
	Name      string
	OwnerID   int64
	RequestID int64
}
