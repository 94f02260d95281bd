package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct{}

func (stubResponder) UnauthorizedResponse(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

func newTestJWTService() *JWTService {
	cfg := &Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "pavilion"
	return NewJWTService(cfg)
}

func principalRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, PrincipalFromContext(c).String())
	})
	return router
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "a@b.c", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestJWTServiceRejects(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	expired, err := svc.GenerateAccessToken(userID, "", -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(expired)
	assert.Error(t, err)

	otherCfg := &Config{}
	otherCfg.JWT.Secret = "other-secret"
	otherCfg.JWT.Issuer = "pavilion"
	forged, err := NewJWTService(otherCfg).GenerateAccessToken(userID, "", time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(forged)
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	router := principalRouter(AuthMiddleware(svc, stubResponder{}))
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, "", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(router, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	router := principalRouter(OptionalAuthMiddleware(svc))
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, "", time.Minute)
	require.NoError(t, err)

	w := request(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil.String(), w.Body.String())

	w = request(router, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil.String(), w.Body.String())

	w = request(router, "Bearer "+token)
	assert.Equal(t, userID.String(), w.Body.String())
}
