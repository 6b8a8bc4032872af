// Package server contains the HTTP handlers for the blog's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogicum/internal/bootstrap"
	"blogicum/internal/config"
	"blogicum/internal/middleware"
	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/repository"
	"blogicum/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	commentRepo     repository.CommentRepository
	categoryRepo    repository.CategoryRepository
	locationRepo    repository.LocationRepository
	postService     *service.PostService
	commentService  *service.CommentService
	userService     *service.UserService
	taxonomyService *service.TaxonomyService
}

// NewServer creates a new server instance with all dependencies. Redis is
// optional; caching and rate limits degrade when it is absent.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemo})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient, nil)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil clock uses the wall clock.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, clock service.Clock) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, fmt.Errorf("config and database are required")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(observability.ServiceName),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		categoryRepo:   repository.NewCategoryRepository(db),
		locationRepo:   repository.NewLocationRepository(db),
	}

	server.postService = service.NewPostService(
		server.postRepo,
		server.commentRepo,
		server.categoryRepo,
		server.locationRepo,
		server.userRepo,
		cfg.PostsLimit,
		clock,
	)
	server.commentService = service.NewCommentService(server.commentRepo, server.postService)
	server.userService = service.NewUserService(server.userRepo)
	server.taxonomyService = service.NewTaxonomyService(server.categoryRepo, server.locationRepo)

	return server, nil
}

// NewApp builds the Fiber application with middleware and routes wired.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Blogicum API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Location",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	blog := app.Group(s.config.RoutePrefix)

	// Auth routes
	auth := blog.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, middleware.SignupRule), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, middleware.LoginRule), s.Login)

	// Public reads; a bearer token, when valid, identifies the viewer.
	blog.Get("/", s.Index)
	blog.Get("/category/:slug/", s.CategoryPosts)

	// Fixed paths are registered before their parameterised siblings.
	profile := blog.Group("/profile")
	profile.Get("/edit_profile", s.AuthRequired(), s.EditProfileForm)
	profile.Post("/edit_profile", s.AuthRequired(), s.EditProfile)
	profile.Get("/:username/", s.Profile)

	posts := blog.Group("/posts")
	posts.Get("/create/", s.AuthRequired(), s.CreatePostForm)
	posts.Post("/create/", s.AuthRequired(),
		middleware.RateLimit(s.redis, middleware.PostRule), s.CreatePost)
	posts.Get("/:post_id/", s.PostDetail)
	posts.Get("/:post_id/edit/", s.AuthRequired(), s.EditPostForm)
	posts.Post("/:post_id/edit/", s.AuthRequired(), s.EditPost)
	posts.Get("/:post_id/delete/", s.AuthRequired(), s.DeletePostForm)
	posts.Post("/:post_id/delete/", s.AuthRequired(), s.DeletePost)
	posts.Post("/:post_id/comment/", s.AuthRequired(),
		middleware.RateLimit(s.redis, middleware.CommentRule), s.AddComment)
	posts.Get("/:post_id/edit_comment/:comment_id/", s.AuthRequired(), s.EditCommentForm)
	posts.Post("/:post_id/edit_comment/:comment_id/", s.AuthRequired(), s.EditComment)
	posts.Get("/:post_id/delete_comment/:comment_id/", s.AuthRequired(), s.DeleteCommentForm)
	posts.Post("/:post_id/delete_comment/:comment_id/", s.AuthRequired(), s.DeleteComment)

	// Admin routes
	admin := blog.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Post("/categories", s.CreateCategory)
	admin.Put("/categories/:id", s.UpdateCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)
	admin.Post("/locations", s.CreateLocation)
	admin.Put("/locations/:id", s.UpdateLocation)
	admin.Delete("/locations/:id", s.DeleteLocation)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so only
// a configured but unreachable Redis fails the probe.
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

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
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

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(uint)

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return s.respondError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := middleware.BearerToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := middleware.ParseUserID(s.config.JWTSecret, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		s.setUser(c, userID)
		return c.Next()
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString, err := middleware.BearerToken(c)
	if err != nil {
		return 0, false
	}
	userID, err := middleware.ParseUserID(s.config.JWTSecret, tokenString)
	if err != nil {
		return 0, false
	}
	s.setUser(c, userID)
	return userID, true
}

// setUser stores the user ID in locals and syncs it to the user context for
// logging and downstream services.
func (s *Server) setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
