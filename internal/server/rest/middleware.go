package rest

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	requestIDKey = "requestid"
	tokenKey     = "verified_token"
)

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// requestLogger writes one line per request. Errors are rendered here rather
// than after the chain unwinds so the logged status is the one sent.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := s.errorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.log.Info(c.UserContext(), "request",
		"request_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// storeTimeout bounds every storage and ledger call made while serving the
// request.
func (s *Server) storeTimeout(c *fiber.Ctx) error {
	if s.cfg.StoreTimeout <= 0 {
		return c.Next()
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), s.cfg.StoreTimeout)
	defer cancel()
	c.SetUserContext(ctx)
	return c.Next()
}

// limit allows maxRequests per window per client IP. name keeps the
// counters of different routes apart in shared storage.
func (s *Server) limit(name string, maxRequests int, window time.Duration) fiber.Handler {
	if !s.cfg.RateLimitEnabled || maxRequests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		},
		Storage: s.limiterStorage,
	})
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(common.AuthorizationHeaderName))
	scheme, raw, ok := strings.Cut(header, " ")
	raw = strings.TrimSpace(raw)
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) || raw == "" {
		return "", common.ErrAuthorizationRequired
	}
	return raw, nil
}

// requireToken verifies the bearer token and stores it for the handlers.
// An empty required type accepts both access and refresh tokens.
func (s *Server) requireToken(required models.TokenType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c)
		if err != nil {
			return err
		}
		tok, err := s.sessions.Authenticate(c.UserContext(), raw, required)
		if err != nil {
			return err
		}
		c.Locals(tokenKey, tok)
		return c.Next()
	}
}

func verifiedToken(c *fiber.Ctx) (*auth.VerifiedToken, error) {
	tok, ok := c.Locals(tokenKey).(*auth.VerifiedToken)
	if !ok || tok == nil {
		return nil, common.ErrAuthorizationRequired
	}
	return tok, nil
}

func requireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok, err := verifiedToken(c)
		if err != nil {
			return err
		}
		if err := auth.Authorize(tok, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

func requireFresh(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}
	if err := auth.RequireFresh(tok); err != nil {
		return err
	}
	return c.Next()
}
