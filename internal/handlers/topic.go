package handlers

import (
	"net/http"

	"agora/internal/middleware"
	"agora/internal/services"

	"github.com/gin-gonic/gin"
)

type TopicHandler struct {
	topics *services.TopicService
	ledger *services.VoteLedger
	query  *services.Query
}

func NewTopicHandler(topics *services.TopicService, ledger *services.VoteLedger, query *services.Query) *TopicHandler {
	return &TopicHandler{topics: topics, ledger: ledger, query: query}
}

type createTopicRequest struct {
	// 长度在服务层去掉首尾空白后再校验
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
}

type voteRequest struct {
	Value string `json:"value" binding:"required,oneof=up down"`
}

func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.query.ListTopics(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	respondList(c, topics)
}

func (h *TopicHandler) Get(c *gin.Context) {
	topic, err := h.query.GetTopic(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, topic)
}

func (h *TopicHandler) Create(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	ctx := c.Request.Context()
	topic, err := h.topics.CreateTopic(ctx, middleware.CurrentUserID(c), req.Title, req.Description)
	if err != nil {
		c.Error(err)
		return
	}
	view, err := h.query.ViewTopic(ctx, topic)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusCreated, view)
}

// Vote 投票，同一用户再次投票会替换之前的选择
func (h *TopicHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	ctx := c.Request.Context()
	topic, err := h.ledger.CastVote(ctx, c.Param("id"), middleware.CurrentUserID(c), req.Value)
	if err != nil {
		c.Error(err)
		return
	}
	view, err := h.query.ViewTopic(ctx, topic)
	if err != nil {
		c.Error(err)
		return
	}
	respond(c, http.StatusOK, view)
}
