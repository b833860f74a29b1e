package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// HeaderUserID carries the acting user's ID. It is trusted as-is.
const HeaderUserID = "X-Sharer-User-Id"

var (
	ErrMissingUserID = apperror.Validation("missing " + HeaderUserID + " header")
	ErrInvalidUserID = apperror.Validation(HeaderUserID + " must be a positive integer")
)

// RequireUser is a Gin middleware that reads the requester ID from the X-Sharer-User-Id header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw == "" {
			response.Error(c, ErrMissingUserID)
			c.Abort()
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, ErrInvalidUserID)
			c.Abort()
			return
		}

		c.Set(userIDKey, id)

		// Enrich the request-scoped logger so downstream lines carry the requester.
		ctx := c.Request.Context()
		logger := zerolog.Ctx(ctx).With().Int64("user_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}
