package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"blog-api/internal/auth"
	"blog-api/internal/domain"
	"blog-api/internal/metrics"
	"blog-api/internal/service"
)

// Options carries the optional collaborators of a Handler.
type Options struct {
	// PublicURL roots verification links; empty derives it from the request.
	PublicURL string
	Metrics   metrics.Recorder
	// Gatherer backs /metrics; nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
	Limiter  *RateLimiter
	// TrustedProxies lists the peers whose X-Forwarded-For is honored when
	// resolving the client address. Empty trusts none.
	TrustedProxies []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth      service.AuthService
	posts     service.PostService
	gate      *auth.Gate
	logger    *logrus.Logger
	metrics   metrics.Recorder
	gatherer  prometheus.Gatherer
	limiter   *RateLimiter
	publicURL string
	proxies   []string
}

func NewHandler(authSvc service.AuthService, posts service.PostService, gate *auth.Gate, logger *logrus.Logger, opts Options) *Handler {
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	if opts.PublicURL == "" {
		logger.Warn("server.publicurl not set; verification links are built from the request Host header")
	}
	return &Handler{
		auth:      authSvc,
		posts:     posts,
		gate:      gate,
		logger:    logger,
		metrics:   rec,
		gatherer:  opts.Gatherer,
		limiter:   opts.Limiter,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		proxies:   opts.TrustedProxies,
	}
}

// Router returns a recovering engine with every route registered.
func (h *Handler) Router() (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(h.proxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), metricsMiddleware(h.metrics))
	if h.limiter != nil {
		router.Use(h.limiter.Middleware(h.metrics, h.logger))
	}
	router.Use(requestLogger(h.logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		userAuth := api.Group("/user/auth")
		userAuth.POST("/signup", h.signup)
		userAuth.GET("/verify/:token", h.verify)
		userAuth.POST("/signin", h.signinUser)

		adminAuth := api.Group("/admin/auth")
		adminAuth.POST("/signin", h.signinAdmin)
		adminAuth.POST("/create-admin", h.authenticate(), h.requireRole(domain.RoleAdmin), h.createAdmin)

		posts := api.Group("/user/posts", h.authenticate(), h.requireRole(domain.RoleUser))
		posts.POST("", h.createPost)
		posts.GET("/:id", h.getPost)
		posts.PUT("/:id", h.updatePost)
		posts.DELETE("/:id", h.deletePost)
		posts.POST("/:id/comment", h.addComment)

		h.registerDocs(api.Group("/docs"))
	}

	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(h.gatherer)))
	}
}

// baseURL is the origin verification links point back to.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
