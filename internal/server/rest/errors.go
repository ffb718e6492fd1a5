package rest

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/gofiber/fiber/v2"
)

// apiError is the wire form of every failed request:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
type apiError struct {
	Status  int       `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details fiber.Map `json:"details"`
}

func (e *apiError) Error() string {
	return e.Code + ": " + e.Message
}

func newAPIError(status int, code, message string, details fiber.Map) *apiError {
	if details == nil {
		details = fiber.Map{}
	}
	return &apiError{Status: status, Code: code, Message: message, Details: details}
}

type errorEnvelope struct {
	Error *apiError `json:"error"`
}

func writeError(c *fiber.Ctx, e *apiError) error {
	return c.Status(e.Status).JSON(errorEnvelope{Error: e})
}

// statusTable maps sentinel errors onto their HTTP shape. Order matters only
// where one error wraps another.
var statusTable = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{common.ErrTokenExpired, fiber.StatusUnauthorized, "token_expired", "Token has expired"},
	{common.ErrTokenRevoked, fiber.StatusUnauthorized, "token_revoked", "Token has been revoked"},
	{common.ErrTokenSubject, fiber.StatusUnprocessableEntity, "token_invalid_sub", "Invalid token subject"},
	{common.ErrTokenInvalid, fiber.StatusUnprocessableEntity, "token_invalid", "Invalid token"},
	{common.ErrAuthorizationRequired, fiber.StatusUnauthorized, "authorization_required", "Missing or malformed Authorization header"},
	{common.ErrFreshTokenRequired, fiber.StatusUnauthorized, "fresh_token_required", "Fresh token required"},
	{common.ErrInvalidCredentials, fiber.StatusUnauthorized, "invalid_credentials", "Invalid credentials."},
	{common.ErrUserInactive, fiber.StatusForbidden, "user_inactive", "User is deactivated."},
	{common.ErrConflict, fiber.StatusConflict, "conflict", "Resource already exists."},
	{common.ErrorNotFound, fiber.StatusNotFound, "not_found", "Resource not found."},
	{common.ErrForbidden, fiber.StatusForbidden, "forbidden", "You do not have access to this resource."},
	{common.ErrValidation, fiber.StatusBadRequest, "validation_error", "Invalid request body."},
}

var errInternal = newAPIError(fiber.StatusInternalServerError, "internal_error", "Internal server error.", nil)

// toAPIError translates err into its envelope. The boolean reports whether err
// was unexpected and must be logged in full.
func toAPIError(err error) (*apiError, bool) {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae, false
	}

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		details := fiber.Map{}
		for k, v := range ve.Fields {
			details[k] = v
		}
		return newAPIError(fiber.StatusBadRequest, "validation_error", "Invalid request body.", details), false
	}

	var fe *common.ForbiddenError
	if errors.As(err, &fe) {
		return forbidden(fe), false
	}

	for _, row := range statusTable {
		if errors.Is(err, row.err) {
			return newAPIError(row.status, row.code, row.message, nil), false
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr), false
	}

	return errInternal, true
}

func forbidden(fe *common.ForbiddenError) *apiError {
	details := fiber.Map{}
	if len(fe.RequiredRoles) > 0 {
		details["required_roles"] = fe.RequiredRoles
		details["current_role"] = fe.CurrentRole
	}
	if fe.ResourceKind != "" {
		details[fe.ResourceKind+"_id"] = fe.ResourceID
	}
	return newAPIError(fiber.StatusForbidden, "forbidden", "You do not have access to this resource.", details)
}

func fromFiberError(e *fiber.Error) *apiError {
	switch e.Code {
	case fiber.StatusNotFound:
		return newAPIError(e.Code, "not_found", "Resource not found.", nil)
	case fiber.StatusMethodNotAllowed:
		return newAPIError(e.Code, "method_not_allowed", "Method not allowed.", nil)
	case fiber.StatusRequestEntityTooLarge:
		return newAPIError(e.Code, "payload_too_large", "Request body too large.", nil)
	case fiber.StatusTooManyRequests:
		return newAPIError(e.Code, "rate_limited", "Rate limit exceeded.", nil)
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return newAPIError(fiber.StatusBadRequest, "validation_error", "Invalid request body.", nil)
	}
	if e.Code >= fiber.StatusInternalServerError {
		return errInternal
	}
	return newAPIError(e.Code, "http_error", e.Message, nil)
}

// errorHandler is installed as fiber's ErrorHandler; it is the only place
// that renders error bodies.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	ae, unexpected := toAPIError(err)
	if unexpected {
		s.log.Error(c.UserContext(), "request failed",
			"request_id", requestID(c),
			"path", c.Path(),
			"error", err.Error(),
		)
	}
	return writeError(c, ae)
}

// conflictEmail attaches the offending address to a duplicate registration.
func conflictEmail(email string) *apiError {
	return newAPIError(fiber.StatusConflict, "conflict", "Email already exists.", fiber.Map{"email": common.NormalizeEmail(email)})
}

func notFound(message string, details fiber.Map) *apiError {
	return newAPIError(fiber.StatusNotFound, "not_found", message, details)
}
