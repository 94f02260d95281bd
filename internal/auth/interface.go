package auth

import (
	"github.com/gin-gonic/gin"
)

// TokenValidator turns a bearer token into claims
type TokenValidator interface {
	ValidateAccessToken(token string) (*TokenClaims, error)
}

// ResponseHandler handles HTTP responses
type ResponseHandler interface {
	UnauthorizedResponse(c *gin.Context, message string)
}
