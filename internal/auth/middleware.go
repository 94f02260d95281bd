package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by the middlewares
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)

// AuthMiddleware rejects requests without a valid bearer token
func AuthMiddleware(validator TokenValidator, responseHandler ResponseHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responseHandler.UnauthorizedResponse(c, "Authorization header is required")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			responseHandler.UnauthorizedResponse(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			responseHandler.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the principal when a valid token is present and
// otherwise lets the request through anonymously
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := validator.ValidateAccessToken(token); err == nil {
				setPrincipal(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setPrincipal(c *gin.Context, claims *TokenClaims) {
	// claims.UserID was checked by the validator
	userID, _ := uuid.Parse(claims.UserID)
	c.Set(UserIDKey, userID)
	c.Set(EmailKey, claims.Email)
}
