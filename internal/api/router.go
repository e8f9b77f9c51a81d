package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubhub/clubhub-api/internal/api/handler"
	"github.com/clubhub/clubhub-api/internal/api/metrics"
	"github.com/clubhub/clubhub-api/internal/api/middleware"
	"github.com/clubhub/clubhub-api/internal/core/domain"
	"github.com/clubhub/clubhub-api/internal/core/ports"
)

// Dependencies is everything NewRouter wires into the HTTP layer.
type Dependencies struct {
	Logger    zerolog.Logger
	APIPrefix string

	Clubs    ports.ClubService
	Posts    ports.PostService
	Comments ports.CommentService
	Users    ports.UserService

	Verifier    ports.TokenVerifier
	EmailPolicy domain.EmailPolicy
	APIKeyHash  string
	// RateLimiter may be nil, which disables rate limiting.
	RateLimiter ports.RateLimiter

	// Mongo and Redis are only pinged by the readiness probe; either may be nil.
	Mongo *mongo.Database
	Redis *redis.Client

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metrics.Namespace,
		Registerer: registerer,
	}))

	// --- Probes and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/api/v0"
	}
	v0 := e.Group(prefix,
		middleware.RateLimit(deps.RateLimiter, deps.Logger),
		middleware.Authenticate(deps.Verifier, deps.EmailPolicy, deps.APIKeyHash),
	)

	registerClubRoutes(v0.Group("/club"), handler.NewClubHandler(deps.Clubs))
	registerPostRoutes(v0.Group("/post"), handler.NewPostHandler(deps.Posts))
	registerCommentRoutes(v0.Group("/comment"), handler.NewCommentHandler(deps.Comments))
	registerUserRoutes(v0.Group("/user"), handler.NewUserHandler(deps.Users))

	return e
}

func registerClubRoutes(g *echo.Group, h *handler.ClubHandler) {
	g.GET("", h.List)
	g.POST("/create", h.Create, middleware.RequireRole(domain.RoleTeacher, domain.RoleService))
	g.GET("/slug/:slug", h.GetBySlug)
	g.DELETE("/slug/:slug", h.DeleteBySlug)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/update", h.Update)
	g.PUT("/:id/executives/new", h.AddExecutive)
	g.PUT("/:id/executives/delete", h.RemoveExecutive)
	g.PUT("/:id/flairs/new", h.AddFlair)
	g.PUT("/:id/flairs/delete", h.RemoveFlair)
	g.PUT("/:id/members/add", h.AddMember)
	g.PUT("/:id/members/delete", h.RemoveMember)
	g.PUT("/:id/follow", h.Follow)
	g.PUT("/:id/unfollow", h.Unfollow)
	g.PUT("/:id/favourite", h.Favourite)
	g.PUT("/:id/unfavourite", h.Unfavourite)
	g.GET("/:id/posts", h.Posts)
	g.GET("/:id/members", h.Members)
}

func registerPostRoutes(g *echo.Group, h *handler.PostHandler) {
	g.GET("", h.List)
	g.POST("/create", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/update", h.Update)
	g.PUT("/:id/like", h.Like)
	g.PUT("/:id/unlike", h.Unlike)
	g.PUT("/:id/favourite", h.Favourite)
	g.PUT("/:id/unfavourite", h.Unfavourite)
	g.GET("/:id/comments", h.Comments)
}

func registerCommentRoutes(g *echo.Group, h *handler.CommentHandler) {
	g.GET("", h.List)
	g.POST("/create", h.Create)
	g.DELETE("/delete", h.Delete)
	g.GET("/:id", h.Get)
	g.PUT("/:id/update", h.Update)
	g.PUT("/:id/like", h.Like)
	g.PUT("/:id/unlike", h.Unlike)
}

func registerUserRoutes(g *echo.Group, h *handler.UserHandler) {
	g.GET("", h.List)
	g.GET("/me", h.Me)
	g.POST("/create", h.Create)
	g.DELETE("/delete", h.Delete)
	g.GET("/:id", h.Get)
	g.PUT("/:id/update", h.Update)
	g.GET("/:id/posts", h.Posts)
	g.GET("/:id/comments", h.Comments)
	g.GET("/:id/clubs", h.Clubs)
	g.GET("/:id/favourites", h.Favourites)
	g.GET("/:id/liked", h.Liked)
}
