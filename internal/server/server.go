// Package server wires the HTTP routes, middleware and page handlers.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yatube/internal/bootstrap"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/media"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	views          *web.Renderer
	sessions       *middleware.SessionManager
	indexCache     *cache.FragmentCache
	mediaDir       string

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository

	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	userService    *service.UserService
}

// NewServer connects to the database and Redis, applies the schema and
// builds a Server.
func NewServer(ctx context.Context, cfg *config.Config, opts bootstrap.Options) (*Server, error) {
	opts.ApplySchema = true
	// A nil client means Redis is unreachable; the server runs without cache.
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	views, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	store, err := media.NewStorage(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}
	uploader := media.NewUploader(media.NewProcessor(cfg.ImageMaxUploadSizeMB), store)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("yatube"),
		views:          views,
		sessions: middleware.NewSessionManager(
			cfg.JWTSecret,
			cfg.SessionCookie,
			time.Duration(cfg.SessionTTLHours)*time.Hour,
			cfg.IsProduction(),
			redisClient,
		),
		indexCache:  cache.NewIndexCache(redisClient, time.Duration(cfg.IndexCacheTTLSeconds)*time.Second),
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		groupRepo:   repository.NewGroupRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		followRepo:  repository.NewFollowRepository(db),
	}
	if local, ok := store.(*media.LocalStorage); ok {
		s.mediaDir = local.Dir()
	}

	s.postService = service.NewPostService(s.postRepo, s.groupRepo, uploader, cfg.PageSize)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, cfg.PageSize)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo, s.postRepo, cfg.PageSize)
	s.userService = service.NewUserService(s.userRepo, s.postRepo, s.followRepo, cfg.PageSize)

	return s, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Yatube",
		ErrorHandler: s.ErrorHandler,
		BodyLimit:    (s.config.ImageMaxUploadSizeMB + 1) * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// The session must resolve before ContextMiddleware copies the user ID.
	app.Use(middleware.LoadSession(s.sessions))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(middleware.StructuredLogger())

	// Global rate limiting per IP
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))

	if s.config.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:" + csrfFormField,
			CookieName:     "csrftoken",
			CookieSameSite: "Lax",
			CookieSecure:   s.config.IsProduction(),
			CookieHTTPOnly: true,
			Expiration:     time.Duration(s.config.SessionTTLHours) * time.Hour,
			ContextKey:     csrfLocalsKey,
			ErrorHandler:   s.CSRFFailure,
		}))
	}
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if prefix := s.mediaPrefix(); prefix != "" && s.mediaDir != "" {
		app.Static(prefix, s.mediaDir)
	}

	loginRequired := middleware.LoginRequired()

	// Listings
	app.Get("/", s.Index)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/follow/", loginRequired, s.FollowIndex)
	app.Get("/profile/:username/follow/", loginRequired, s.ProfileFollow)
	app.Get("/profile/:username/unfollow/", loginRequired, s.ProfileUnfollow)

	// Posts
	app.Get("/create/", loginRequired, s.CreatePostForm)
	app.Post("/create/", loginRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	app.Get("/posts/:id/", s.PostDetail)
	app.Get("/posts/:id/edit/", loginRequired, s.EditPostForm)
	app.Post("/posts/:id/edit/", loginRequired, s.EditPost)
	app.Post("/posts/:id/comment/", loginRequired, middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.AddComment)

	// Accounts
	auth := app.Group("/auth")
	auth.Get("/signup/", s.SignupForm)
	auth.Post("/signup/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Get("/login/", s.LoginForm)
	auth.Post("/login/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/logout/", s.Logout)

	// Static pages
	about := app.Group("/about")
	about.Get("/author/", s.AboutAuthor)
	about.Get("/tech/", s.AboutTech)
}

// mediaPrefix is the local route for uploaded files, or "" when MEDIA_URL
// points at another host.
func (s *Server) mediaPrefix() string {
	u := s.config.MediaURL
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") {
		return ""
	}
	return strings.TrimRight(u, "/")
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis only backs the
// page cache, rate limits and session revocation, so losing it degrades the
// service without taking it out of rotation.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
