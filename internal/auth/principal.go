package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PrincipalFromContext returns the authenticated user id, or uuid.Nil for
// anonymous requests
func PrincipalFromContext(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
