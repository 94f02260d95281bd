package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/consensuslabs/pavilion-comments/testhelper"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.ContextWithRequestID(req.Context(), "req-42"))
	router.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccessResponseCarriesRequestID(t *testing.T) {
	h := NewResponseHandler(testhelper.NewTestLogger(false))
	w, body := serve(t, func(c *gin.Context) {
		h.SuccessResponse(c, map[string]string{"id": "1"}, "ok")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "req-42", body.RequestID)
}

func TestDomainErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{"validation", apperrors.NewValidationError("content", "content must not be empty"), http.StatusBadRequest, "VALIDATION_ERROR", "content"},
		{"not found", apperrors.NewNotFoundError("comment", "abc"), http.StatusNotFound, "NOT_FOUND", ""},
		{"forbidden", apperrors.NewForbiddenError("only the owner may modify this resource"), http.StatusForbidden, "FORBIDDEN", ""},
		{"dependency", apperrors.NewDependencyError("identity", "lookup failed", errors.New("timeout")), http.StatusBadGateway, "DEPENDENCY_ERROR", ""},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := testhelper.NewTestLogger(false)
			h := NewResponseHandler(log)
			w, body := serve(t, func(c *gin.Context) { h.DomainErrorResponse(c, tt.err) })

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
			assert.Equal(t, "req-42", body.RequestID)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	log := testhelper.NewTestLogger(false)
	h := NewResponseHandler(log)
	_, body := serve(t, func(c *gin.Context) { h.DomainErrorResponse(c, errors.New("pq: password authentication failed")) })

	require.NotNil(t, body.Error)
	assert.NotContains(t, body.Error.Message, "password")
	require.Len(t, log.GetErrorMessages(), 1)
}
