package http

import (
	stderrors "errors"
	"net/http"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/gin-gonic/gin"
)

// responseHandler implements the ResponseHandler interface
type responseHandler struct {
	logger Logger
}

// NewResponseHandler creates a new instance of ResponseHandler
func NewResponseHandler(logger Logger) ResponseHandler {
	return &responseHandler{
		logger: logger,
	}
}

func (h *responseHandler) respond(c *gin.Context, status int, body Response) {
	if c.Request != nil {
		if id, ok := logger.RequestIDFromContext(c.Request.Context()); ok {
			body.RequestID = id
		}
	}
	c.JSON(status, body)
}

// SuccessResponse sends a success response with optional data and message
func (h *responseHandler) SuccessResponse(c *gin.Context, data interface{}, message string) {
	h.respond(c, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 with the created resource
func (h *responseHandler) CreatedResponse(c *gin.Context, data interface{}, message string) {
	h.respond(c, http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response with status code, error code, and message
func (h *responseHandler) ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	if err != nil {
		h.logger.LogError(err, message)
	}

	h.respond(c, status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// ValidationErrorResponse sends a validation error response
func (h *responseHandler) ValidationErrorResponse(c *gin.Context, field, message string) {
	h.respond(c, http.StatusBadRequest, Response{
		Success: false,
		Error: &Error{
			Code:    string(apperrors.KindValidation),
			Message: message,
			Field:   field,
		},
	})
}

// NotFoundResponse sends a not found error response
func (h *responseHandler) NotFoundResponse(c *gin.Context, message string) {
	h.ErrorResponse(c, http.StatusNotFound, string(apperrors.KindNotFound), message, nil)
}

// UnauthorizedResponse sends an unauthorized error response
func (h *responseHandler) UnauthorizedResponse(c *gin.Context, message string) {
	h.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// ForbiddenResponse sends a forbidden error response
func (h *responseHandler) ForbiddenResponse(c *gin.Context, message string) {
	h.ErrorResponse(c, http.StatusForbidden, string(apperrors.KindForbidden), message, nil)
}

// InternalErrorResponse sends an internal server error response
func (h *responseHandler) InternalErrorResponse(c *gin.Context, message string, err error) {
	h.ErrorResponse(c, http.StatusInternalServerError, string(apperrors.KindInternal), message, err)
}

// DomainErrorResponse sends the response matching the kind of err.
// Internal errors are logged and their detail is not exposed.
func (h *responseHandler) DomainErrorResponse(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		var validation *apperrors.ValidationError
		stderrors.As(err, &validation)
		h.ValidationErrorResponse(c, validation.Field, validation.Message)
	case apperrors.KindNotFound:
		h.NotFoundResponse(c, err.Error())
	case apperrors.KindInvariant:
		h.ErrorResponse(c, http.StatusConflict, string(apperrors.KindInvariant), err.Error(), nil)
	case apperrors.KindForbidden:
		h.ForbiddenResponse(c, err.Error())
	case apperrors.KindDependency:
		h.ErrorResponse(c, http.StatusBadGateway, string(apperrors.KindDependency), "A required service is unavailable", err)
	default:
		h.InternalErrorResponse(c, "An unexpected error occurred", err)
	}
}
