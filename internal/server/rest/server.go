// Package rest is the HTTP boundary of gophnotes. It decodes and validates
// requests, runs the bearer-token and role gates, calls the services and
// renders results and errors as JSON. Domain logic lives in the services.
package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 10 * time.Second
	hstsMaxAge      = 31536000
	contentPolicy   = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the domain services the handlers call.
type Services struct {
	Sessions *services.SessionService
	Notes    *services.NoteService
	Users    *services.UserService
}

type Server struct {
	app      *fiber.App
	cfg      *config.Config
	log      logging.Logger
	sessions *services.SessionService
	notes    *services.NoteService
	users    *services.UserService
	health   Pinger

	// limiterStorage backs the rate limiters; nil keeps counters in memory.
	limiterStorage fiber.Storage
}

func New(cfg *config.Config, l logging.Logger, svc Services, health Pinger, limiterStorage fiber.Storage) *Server {
	s := &Server{
		cfg:            cfg,
		log:            l.With("module", "http_server"),
		sessions:       svc.Sessions,
		notes:          svc.Notes,
		users:          svc.Users,
		health:         health,
		limiterStorage: limiterStorage,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "gophnotes",
		BodyLimit:             cfg.MaxContentLength,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.middleware()
	s.routes()
	return s
}

// App exposes the underlying fiber application, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) middleware() {
	s.app.Use(requestid.New(requestid.Config{
		Header:     common.RequestIDHeaderName,
		ContextKey: requestIDKey,
	}))
	s.app.Use(s.requestLogger)
	s.app.Use(recover.New())

	hsts := 0
	if s.cfg.EnforceHTTPS {
		hsts = hstsMaxAge
	}
	s.app.Use(helmet.New(helmet.Config{
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: contentPolicy,
		HSTSMaxAge:            hsts,
		HSTSPreloadEnabled:    true,
	}))

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.CORSOrigins,
		AllowHeaders:  s.cfg.CORSAllowHeaders,
		ExposeHeaders: s.cfg.CORSExposeHeaders,
		AllowMethods:  "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	s.app.Use(s.storeTimeout)
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.healthz)

	api := s.app.Group(apiPrefix)

	auth := api.Group("/auth")
	auth.Post("/register", s.limit("register", s.cfg.RateLimitRegisterPerHour, time.Hour), s.register)
	auth.Post("/login", s.limit("login", s.cfg.RateLimitLoginPerMinute, time.Minute), s.login)
	auth.Post("/refresh", s.refresh)
	auth.Get("/me", s.requireToken(models.TokenTypeAccess), s.me)
	auth.Post("/logout", s.logout)

	notes := api.Group("/notes",
		s.limit("notes", s.cfg.RateLimitNotesPerMinute, time.Minute),
		s.requireToken(models.TokenTypeAccess),
	)
	notes.Post("/", s.createNote)
	notes.Get("/", s.listNotes)
	notes.Get("/:id", s.getNote)
	notes.Patch("/:id", s.updateNote)
	notes.Delete("/:id", s.deleteNote)

	users := api.Group("/users",
		s.requireToken(models.TokenTypeAccess),
		requireRoles(models.RoleAdmin),
	)
	users.Get("/", s.listUsers)
	users.Patch("/:id", requireFresh, s.updateUser)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.cfg.HTTPAddress)
		errCh <- s.app.Listen(s.cfg.HTTPAddress)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}
