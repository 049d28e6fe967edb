package handlers

import (
	"net/http"

	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	threads *services.ThreadEngine
	query   *services.Query
}

func NewCommentHandler(threads *services.ThreadEngine, query *services.Query) *CommentHandler {
	return &CommentHandler{threads: threads, query: query}
}

type commentRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

// ListTopLevel 话题下的顶层评论，最新的在前
func (h *CommentHandler) ListTopLevel(c *gin.Context) {
	comments, err := h.query.TopLevelComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respondList(c, comments)
}

func (h *CommentHandler) CreateTopLevel(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	comment, err := h.threads.CreateTopLevelComment(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Content)
	h.created(c, comment, err)
}

func (h *CommentHandler) ListReplies(c *gin.Context) {
	replies, err := h.query.Replies(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respondList(c, replies)
}

func (h *CommentHandler) CreateReply(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	reply, err := h.threads.CreateReply(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Content)
	h.created(c, reply, err)
}

// Thread returns a comment with its direct replies.
func (h *CommentHandler) Thread(c *gin.Context) {
	thread, err := h.query.CommentThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, thread)
}

func (h *CommentHandler) created(c *gin.Context, comment *models.Comment, err error) {
	if err != nil {
		c.Error(err)
		return
	}
	view, err := h.query.ViewComment(c.Request.Context(), comment)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, view)
}
