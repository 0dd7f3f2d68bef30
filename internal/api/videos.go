package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/models"
	"github.com/stwalsh4118/dayreel/internal/schedule"
	"github.com/stwalsh4118/dayreel/internal/video"
)

// NextChangeoverHeader carries the instant the current video can next change (RFC3339)
const NextChangeoverHeader = "X-Next-Changeover"

// Request/Response DTOs

// CreateVideoRequest represents a request to schedule a new video
type CreateVideoRequest struct {
	URL   string `json:"url"`
	Date  string `json:"date"`
	Title string `json:"title,omitempty"`
}

// UpdateVideoRequest represents a request to update a video (partial update)
type UpdateVideoRequest struct {
	URL   *string `json:"url,omitempty"`
	Date  *string `json:"date,omitempty"`
	Title *string `json:"title,omitempty"`
}

// VideoResponse represents a video in API responses
type VideoResponse = models.EntryWire

// PaginationResponse describes the page returned by the paginated listing
type PaginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// PaginatedVideosResponse represents one page of videos
type PaginatedVideosResponse struct {
	Videos     []VideoResponse    `json:"videos"`
	Pagination PaginationResponse `json:"pagination"`
}

// VideoHandler handles video-related API requests
type VideoHandler struct {
	videoService *video.VideoService
}

// NewVideoHandler creates a new video handler instance
func NewVideoHandler(videoService *video.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

func toVideoResponse(entry *models.Entry) VideoResponse {
	return models.ToWire(entry)
}

func toVideoResponses(entries []*models.Entry) []VideoResponse {
	responses := make([]VideoResponse, len(entries))
	for i, entry := range entries {
		responses[i] = toVideoResponse(entry)
	}
	return responses
}

// validationError maps a service validation error to a response
func validationError(err error) ErrorResponse {
	switch {
	case errors.Is(err, video.ErrMissingURL), errors.Is(err, video.ErrMissingDate):
		return ErrorResponse{Error: "missing_field", Message: "URL and date are required"}
	case errors.Is(err, video.ErrInvalidURL):
		return ErrorResponse{Error: "invalid_url", Message: "Invalid YouTube URL"}
	default:
		return ErrorResponse{Error: "invalid_date", Message: "Date must be in YYYY-MM-DD format"}
	}
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.videoService.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to fetch videos",
		})
		return
	}

	c.JSON(http.StatusOK, toVideoResponses(entries))
}

// GetCurrentVideo handles GET /api/videos/current.
// The body is null when nothing is scheduled from today onwards.
func (h *VideoHandler) GetCurrentVideo(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := h.videoService.Now()
	entry, err := h.videoService.CurrentAt(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to select current video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to fetch current video",
		})
		return
	}

	c.Header(NextChangeoverHeader, h.videoService.Policy().NextCutover(now).UTC().Format(time.RFC3339))

	if entry == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toVideoResponse(entry))
}

// GetUpcomingVideos handles GET /api/videos/upcoming
func (h *VideoHandler) GetUpcomingVideos(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.videoService.Upcoming(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list upcoming videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to fetch upcoming videos",
		})
		return
	}

	c.JSON(http.StatusOK, toVideoResponses(entries))
}

// GetPaginatedVideos handles GET /api/videos/paginated?page=&limit=
func (h *VideoHandler) GetPaginatedVideos(c *gin.Context) {
	page := queryPositiveInt(c, "page", schedule.DefaultPage)
	limit := queryPositiveInt(c, "limit", schedule.DefaultPageSize)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.videoService.Paginated(ctx, page, limit)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Int("page", page).
			Int("limit", limit).
			Msg("Failed to paginate videos")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to fetch videos",
		})
		return
	}

	c.JSON(http.StatusOK, PaginatedVideosResponse{
		Videos: toVideoResponses(result.Items),
		Pagination: PaginationResponse{
			Page:       result.Page,
			Limit:      result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	})
}

// GetVideo handles GET /api/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.videoService.GetByID(ctx, id)
	if err != nil {
		if video.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to get video by ID")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to fetch video",
		})
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(entry))
}

// CreateVideo handles POST /api/videos
func (h *VideoHandler) CreateVideo(c *gin.Context) {
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.videoService.Create(ctx, video.CreateInput{
		URL:   req.URL,
		Date:  req.Date,
		Title: req.Title,
	})
	if err != nil {
		if video.IsValidation(err) {
			c.JSON(http.StatusBadRequest, validationError(err))
			return
		}

		logger.Log.Error().
			Err(err).
			Str("url", req.URL).
			Msg("Failed to create video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create video",
		})
		return
	}

	c.JSON(http.StatusCreated, toVideoResponse(entry))
}

// UpdateVideo handles PUT /api/videos/:id
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id := c.Param("id")

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.videoService.Update(ctx, id, video.UpdateInput{
		URL:   req.URL,
		Date:  req.Date,
		Title: req.Title,
	})
	if err != nil {
		if video.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}
		if video.IsValidation(err) {
			c.JSON(http.StatusBadRequest, validationError(err))
			return
		}

		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to update video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update video",
		})
		return
	}

	c.JSON(http.StatusOK, toVideoResponse(entry))
}

// DeleteVideo handles DELETE /api/videos/:id
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.videoService.Delete(ctx, id); err != nil {
		if video.IsVideoNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Video not found",
			})
			return
		}

		logger.Log.Error().
			Err(err).
			Str("id", id).
			Msg("Failed to delete video")

		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete video",
		})
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "Video deleted successfully",
	})
}

// queryPositiveInt reads a positive integer query parameter, falling back to def
func queryPositiveInt(c *gin.Context, key string, def int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return def
}

// SetupVideoRoutes registers video-related routes.
// Handlers in mutate run in front of every route that changes the schedule.
func SetupVideoRoutes(apiGroup *gin.RouterGroup, videoService *video.VideoService, mutate ...gin.HandlerFunc) {
	handler := NewVideoHandler(videoService)

	// Read endpoints; the static views are registered before the :id route
	apiGroup.GET("/videos", handler.ListVideos)
	apiGroup.GET("/videos/current", handler.GetCurrentVideo)
	apiGroup.GET("/videos/upcoming", handler.GetUpcomingVideos)
	apiGroup.GET("/videos/paginated", handler.GetPaginatedVideos)
	apiGroup.GET("/videos/:id", handler.GetVideo)

	// Mutations
	apiGroup.POST("/videos", withMiddleware(mutate, handler.CreateVideo)...)
	apiGroup.PUT("/videos/:id", withMiddleware(mutate, handler.UpdateVideo)...)
	apiGroup.DELETE("/videos/:id", withMiddleware(mutate, handler.DeleteVideo)...)
}

func withMiddleware(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(middleware)+1)
	chain = append(chain, middleware...)
	return append(chain, handler)
}
