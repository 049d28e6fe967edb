package router

import (
	"agora/internal/config"
	"agora/internal/handlers"
	"agora/internal/middleware"
	"agora/internal/services"
	"agora/internal/store"
	"agora/internal/utils"
	"agora/internal/views"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// New builds the engine with middleware and every route wired to st.
func New(cfg config.Config, st store.Store) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(sessions.Sessions("agora_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.Use(middleware.ErrorHandler())

	renderer, err := views.Renderer()
	if err != nil {
		return nil, err
	}
	r.HTMLRender = renderer

	// Services
	tokens := utils.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(st, tokens)
	query := services.NewQuery(st, st, st, utils.NewCache[string](cfg.CacheSize, cfg.CacheTTL))

	r.Use(middleware.LoadUser(authService))

	RegisterRoutes(r, Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Topic:   handlers.NewTopicHandler(services.NewTopicService(st), services.NewVoteLedger(st), query),
		Comment: handlers.NewCommentHandler(services.NewThreadEngine(st, st), query),
		Page:    handlers.NewPageHandler(query),
	})
	return r, nil
}

type Handlers struct {
	Auth    *handlers.AuthHandler
	Topic   *handlers.TopicHandler
	Comment *handlers.CommentHandler
	Page    *handlers.PageHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	// 页面 (Pages)
	r.GET("/", h.Page.Index)      // 话题列表
	r.GET("/t/:id", h.Page.Topic) // 话题详情和评论

	api := r.Group("/api")

	// 认证 (Auth)
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register) // 注册
		auth.POST("/login", h.Auth.Login)       // 登录
		auth.POST("/logout", h.Auth.Logout)     // 退出登录
		auth.GET("/me", middleware.AuthRequired(), h.Auth.Me)
	}

	// 公共路由 (Public Routes)
	api.GET("/topics", h.Topic.List)                        // 所有话题
	api.GET("/topics/:id", h.Topic.Get)                     // 单个话题
	api.GET("/topics/:id/comments", h.Comment.ListTopLevel) // 顶层评论
	api.GET("/comments/:id", h.Comment.Thread)              // 评论及其回复
	api.GET("/comments/:id/replies", h.Comment.ListReplies) // 回复列表

	// 受保护路由 (Protected Routes)
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/topics", h.Topic.Create)                        // 创建话题
		authorized.POST("/topics/:id/vote", h.Topic.Vote)                 // 投票
		authorized.POST("/topics/:id/comments", h.Comment.CreateTopLevel) // 发表评论
		authorized.POST("/comments/:id/replies", h.Comment.CreateReply)   // 回复评论
	}
}
