package main

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/export"
)

// exportTakes handles POST /api/v1/export (multipart: email, videos)
func (api *API) exportTakes(c *gin.Context) {
	if api.exporter == nil {
		unavailable(c, "Export")
		return
	}

	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File["videos"]
	}
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No videos provided"})
		return
	}

	takes := make([]export.Take, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			api.respondError(c, err)
			return
		}
		defer f.Close()

		takes = append(takes, export.Take{
			Name:        h.Filename,
			Size:        h.Size,
			ContentType: h.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	resp, err := api.exporter.Export(c.Request.Context(), email, takes)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStats handles GET /api/v1/stats
func (api *API) getStats(c *gin.Context) {
	if api.stats == nil {
		unavailable(c, "Stats")
		return
	}

	stats, err := api.stats.Summary(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
