package comment

import (
	"github.com/consensuslabs/pavilion-comments/internal/auth"
	httpHandler "github.com/consensuslabs/pavilion-comments/internal/http"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler defines the HTTP handler for comment operations
type Handler struct {
	service  Service
	response httpHandler.ResponseHandler
	config   Config
}

// NewHandler creates a new comment handler
func NewHandler(service Service, response httpHandler.ResponseHandler, cfg Config) *Handler {
	return &Handler{
		service:  service,
		response: response,
		config:   cfg.withDefaults(),
	}
}

type contentRequest struct {
	Content string `json:"content"`
}

// RegisterRoutes registers the comment API routes
func (h *Handler) RegisterRoutes(router gin.IRouter, validator auth.TokenValidator) {
	// Reads work anonymously but pick up the principal when a token is sent
	public := router.Group("")
	public.Use(auth.OptionalAuthMiddleware(validator))
	{
		public.GET("/videos/:videoId/comments", h.ListVideoComments)
		public.GET("/comments/:commentId", h.GetComment)
		public.GET("/comments/:commentId/replies", h.ListReplies)
	}

	protected := router.Group("")
	protected.Use(auth.AuthMiddleware(validator, h.response))
	{
		protected.POST("/videos/:videoId/comments", h.CreateComment)
		protected.GET("/comments", h.ListAll)
		protected.PATCH("/comments/:commentId", h.EditComment)
		protected.DELETE("/comments/:commentId", h.DeleteComment)
		protected.POST("/comments/:commentId/replies", h.CreateReply)
		protected.PATCH("/comments/:commentId/replies/:replyId", h.EditReply)
		protected.DELETE("/comments/:commentId/replies/:replyId", h.DeleteReply)
	}
}

// @Summary Create a new comment
// @Description Creates a top-level comment on a video
// @Tags comment
// @Accept json
// @Produce json
// @Param videoId path string true "Video ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Param comment body contentRequest true "Comment content"
// @Success 201 {object} http.Response{data=EnrichedComment} "Comment created successfully"
// @Failure 400 {object} http.Response{error=http.Error} "Invalid video ID or content"
// @Failure 401 {object} http.Response{error=http.Error} "Unauthorized"
// @Failure 404 {object} http.Response{error=http.Error} "Video not found"
// @Router /videos/{videoId}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	videoID, ok := h.pathID(c, "videoId")
	if !ok {
		return
	}
	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	created, err := h.service.CreateComment(c.Request.Context(), videoID, auth.PrincipalFromContext(c), req.Content)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.CreatedResponse(c, created, "Comment created successfully")
}

// @Summary Get comments for a video
// @Description Retrieves a paginated list of top-level comments for a video
// @Tags comment
// @Produce json
// @Param videoId path string true "Video ID (UUID)"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Comments per page (default: 10, max: 100)"
// @Param sortField query string false "createdAt or updatedAt (default: createdAt)"
// @Param sortOrder query string false "asc or desc (default: desc)"
// @Success 200 {object} http.Response{data=EnrichedPage} "Comments retrieved successfully"
// @Failure 400 {object} http.Response{error=http.Error} "Invalid video ID format"
// @Failure 404 {object} http.Response{error=http.Error} "Video not found"
// @Router /videos/{videoId}/comments [get]
func (h *Handler) ListVideoComments(c *gin.Context) {
	videoID, ok := h.pathID(c, "videoId")
	if !ok {
		return
	}

	page, err := h.service.ListVideoComments(c.Request.Context(), videoID, h.listOptions(c))
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, page, "Comments retrieved successfully")
}

// @Summary Get a comment
// @Tags comment
// @Produce json
// @Param commentId path string true "Comment ID (UUID)"
// @Success 200 {object} http.Response{data=EnrichedComment} "Comment retrieved successfully"
// @Failure 404 {object} http.Response{error=http.Error} "Comment not found"
// @Router /comments/{commentId} [get]
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}

	found, err := h.service.GetComment(c.Request.Context(), id)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, found, "Comment retrieved successfully")
}

// @Summary Edit a comment
// @Description Replaces the content of a comment or reply owned by the caller
// @Tags comment
// @Accept json
// @Produce json
// @Param commentId path string true "Comment ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Param comment body contentRequest true "New content"
// @Success 200 {object} http.Response{data=EnrichedComment} "Comment updated successfully"
// @Failure 403 {object} http.Response{error=http.Error} "Not the owner"
// @Failure 404 {object} http.Response{error=http.Error} "Comment not found"
// @Router /comments/{commentId} [patch]
func (h *Handler) EditComment(c *gin.Context) {
	id, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}
	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	updated, err := h.service.EditComment(c.Request.Context(), id, auth.PrincipalFromContext(c), req.Content)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, updated, "Comment updated successfully")
}

// @Summary Delete a comment
// @Description Deletes a top-level comment together with all of its replies
// @Tags comment
// @Produce json
// @Param commentId path string true "Comment ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Success 200 {object} http.Response "Comment deleted successfully"
// @Failure 403 {object} http.Response{error=http.Error} "Not the owner"
// @Failure 404 {object} http.Response{error=http.Error} "Comment not found"
// @Failure 409 {object} http.Response{error=http.Error} "Target is a reply"
// @Router /comments/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), id, auth.PrincipalFromContext(c)); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, nil, "Comment deleted successfully")
}

// @Summary Reply to a comment
// @Tags comment
// @Accept json
// @Produce json
// @Param commentId path string true "Parent comment ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Param reply body contentRequest true "Reply content"
// @Success 201 {object} http.Response{data=EnrichedComment} "Reply created successfully"
// @Failure 404 {object} http.Response{error=http.Error} "Parent comment not found"
// @Failure 409 {object} http.Response{error=http.Error} "Parent is itself a reply"
// @Router /comments/{commentId}/replies [post]
func (h *Handler) CreateReply(c *gin.Context) {
	parentID, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}
	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	reply, err := h.service.CreateReply(c.Request.Context(), parentID, auth.PrincipalFromContext(c), req.Content)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.CreatedResponse(c, reply, "Reply created successfully")
}

// @Summary Get replies to a comment
// @Description Retrieves a paginated list of replies, oldest first
// @Tags comment
// @Produce json
// @Param commentId path string true "Comment ID (UUID)"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Replies per page (default: 10, max: 100)"
// @Success 200 {object} http.Response{data=EnrichedPage} "Replies retrieved successfully"
// @Failure 404 {object} http.Response{error=http.Error} "Parent comment not found"
// @Router /comments/{commentId}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	parentID, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}

	page, err := h.service.ListReplies(c.Request.Context(), parentID, h.listOptions(c))
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, page, "Replies retrieved successfully")
}

// @Summary Edit a reply
// @Tags comment
// @Accept json
// @Produce json
// @Param commentId path string true "Parent comment ID (UUID)"
// @Param replyId path string true "Reply ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Param reply body contentRequest true "New content"
// @Success 200 {object} http.Response{data=EnrichedComment} "Reply updated successfully"
// @Failure 409 {object} http.Response{error=http.Error} "Reply does not belong to the comment"
// @Router /comments/{commentId}/replies/{replyId} [patch]
func (h *Handler) EditReply(c *gin.Context) {
	parentID, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}
	replyID, ok := h.pathID(c, "replyId")
	if !ok {
		return
	}
	req, ok := h.bindContent(c)
	if !ok {
		return
	}

	updated, err := h.service.EditReply(c.Request.Context(), parentID, replyID, auth.PrincipalFromContext(c), req.Content)
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, updated, "Reply updated successfully")
}

// @Summary Delete a reply
// @Tags comment
// @Produce json
// @Param commentId path string true "Parent comment ID (UUID)"
// @Param replyId path string true "Reply ID (UUID)"
// @Param Authorization header string true "JWT Bearer token"
// @Success 200 {object} http.Response "Reply deleted successfully"
// @Failure 409 {object} http.Response{error=http.Error} "Reply does not belong to the comment"
// @Router /comments/{commentId}/replies/{replyId} [delete]
func (h *Handler) DeleteReply(c *gin.Context) {
	parentID, ok := h.pathID(c, "commentId")
	if !ok {
		return
	}
	replyID, ok := h.pathID(c, "replyId")
	if !ok {
		return
	}

	if _, err := h.service.DeleteReply(c.Request.Context(), parentID, replyID, auth.PrincipalFromContext(c)); err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, nil, "Reply deleted successfully")
}

// @Summary List all comments
// @Description Pages every comment and reply across all videos
// @Tags comment
// @Produce json
// @Param Authorization header string true "JWT Bearer token"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Comments per page (default: 10, max: 100)"
// @Success 200 {object} http.Response{data=EnrichedPage} "Comments retrieved successfully"
// @Router /comments [get]
func (h *Handler) ListAll(c *gin.Context) {
	page, err := h.service.ListAll(c.Request.Context(), h.listOptions(c))
	if err != nil {
		h.response.DomainErrorResponse(c, err)
		return
	}

	h.response.SuccessResponse(c, page, "Comments retrieved successfully")
}

func (h *Handler) pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.response.ValidationErrorResponse(c, param, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) bindContent(c *gin.Context) (contentRequest, bool) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "content", "Invalid request body")
		return req, false
	}
	return req, true
}

// listOptions reads paging from the query. limit and sortBy are accepted as
// aliases of pageSize and sortField.
func (h *Handler) listOptions(c *gin.Context) ListOptions {
	pageSize := c.Query("pageSize")
	if pageSize == "" {
		pageSize = c.Query("limit")
	}
	sortField := c.Query("sortField")
	if sortField == "" {
		sortField = c.Query("sortBy")
	}
	return ParseListOptions(c.Query("page"), pageSize, sortField, c.Query("sortOrder"), h.config)
}
