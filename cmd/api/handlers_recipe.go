package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/chat"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/recipe"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// analyze handles POST /api/v1/analyze. A body that does not decode is
// treated like a missing URL.
func (api *API) analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = models.AnalyzeRequest{}
	}

	r, err := api.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe.Response(r))
}

// chat handles POST /api/v1/chat
func (api *API) chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadJSON.Error()})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Messages are required"})
		return
	}
	if api.assistant == nil {
		unavailable(c, "Script assistant")
		return
	}

	resp, err := api.assistant.Reply(c.Request.Context(), req)
	if errors.Is(err, chat.ErrNotConfigured) {
		unavailable(c, "Script assistant")
		return
	}
	if err != nil {
		api.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
