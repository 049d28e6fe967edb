package handlers

import (
	"net/http"

	"agora/internal/services"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the read-only HTML pages.
type PageHandler struct {
	query *services.Query
}

func NewPageHandler(query *services.Query) *PageHandler {
	return &PageHandler{query: query}
}

func (h *PageHandler) Index(c *gin.Context) {
	topics, err := h.query.ListTopics(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	Render(c, http.StatusOK, "topic/list.html", gin.H{"Topics": topics})
}

func (h *PageHandler) Topic(c *gin.Context) {
	page, err := h.query.TopicPage(c.Request.Context(), c.Param("id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	Render(c, http.StatusOK, "topic/detail.html", gin.H{
		"Topic":    page.Topic,
		"Comments": page.Comments,
		"Title":    page.Topic.Title,
	})
}
