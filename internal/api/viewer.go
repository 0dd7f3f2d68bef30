package api

import (
	"context"
	"html/template"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/video"
	"github.com/stwalsh4118/dayreel/internal/youtube"
)

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <meta http-equiv="refresh" content="{{.RefreshSeconds}}">
    <title>{{if .Video}}{{.Video.Title}}{{else}}Nothing scheduled{{end}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0f0f0f;
            color: #f1f1f1;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
            align-items: center;
            justify-content: center;
            padding: 24px;
        }
        .player { width: 100%; max-width: 1080px; aspect-ratio: 16 / 9; }
        .player iframe { width: 100%; height: 100%; border: 0; border-radius: 8px; }
        h1 { font-size: 1.5rem; margin-top: 16px; }
        .date { color: #aaa; margin-top: 4px; }
        .empty { color: #aaa; font-size: 1.25rem; }
    </style>
</head>
<body>
{{if .Video}}
    <div class="player">
        <iframe src="{{.EmbedURL}}" title="{{.Video.Title}}" allow="autoplay; encrypted-media; picture-in-picture" allowfullscreen></iframe>
    </div>
    <h1>{{.Video.Title}}</h1>
    <p class="date">{{.Video.Date}}</p>
{{else}}
    <p class="empty">Nothing scheduled. Check back after {{.NextChangeover}}.</p>
{{end}}
</body>
</html>
`))

// viewerData is the data rendered by the viewer page
type viewerData struct {
	Video          *VideoResponse
	EmbedURL       string
	RefreshSeconds int
	NextChangeover string
}

// ViewerHandler renders the public page playing the current video
type ViewerHandler struct {
	videoService *video.VideoService
}

// NewViewerHandler creates a new viewer handler instance
func NewViewerHandler(videoService *video.VideoService) *ViewerHandler {
	return &ViewerHandler{videoService: videoService}
}

// Show handles GET /. The page reloads itself at the next cutover.
func (h *ViewerHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := h.videoService.Now()
	entry, err := h.videoService.CurrentAt(ctx, now)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to select video for viewer")

		c.String(http.StatusInternalServerError, "Failed to load the current video")
		return
	}

	next := h.videoService.Policy().NextCutover(now)
	data := viewerData{
		RefreshSeconds: refreshSeconds(next.Sub(now)),
		NextChangeover: next.UTC().Format(time.RFC3339),
	}
	if entry != nil {
		resp := toVideoResponse(entry)
		data.Video = &resp
		data.EmbedURL = youtube.EmbedURL(entry.MediaID)
	}

	c.Header(NextChangeoverHeader, data.NextChangeover)
	c.Render(http.StatusOK, render.HTML{Template: viewerTemplate, Data: data})
}

// refreshSeconds rounds d up to whole seconds, never below one
func refreshSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// SetupViewerRoutes registers the viewer page at the site root
func SetupViewerRoutes(router gin.IRoutes, videoService *video.VideoService) {
	handler := NewViewerHandler(videoService)
	router.GET("/", handler.Show)
}
