package user

import (
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrNameRequired     = apperror.Validation("name is required")
	ErrEmailRequired    = apperror.Validation("email is required")
)

// User represents a user in the system.
type User struct {
	ID    int64
	Name  string
	Email string
}
