// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive")
	ErrValidation         = errors.New("validation error")

	// Token lifecycle errors.
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrTokenInvalid          = errors.New("token invalid")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenRevoked          = errors.New("token revoked")
	ErrTokenSubject          = errors.New("invalid token subject")
	ErrFreshTokenRequired    = errors.New("fresh token required")

	// Authorization errors.
	ErrForbidden = errors.New("forbidden")
)

// ForbiddenError describes a failed role or ownership check. Its fields are
// safe to reveal to the caller.
type ForbiddenError struct {
	Reason        string
	RequiredRoles []string
	CurrentRole   string
	ResourceKind  string
	ResourceID    string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// Is makes errors.Is(err, ErrForbidden) hold for every ForbiddenError.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// ValidationError collects per-field problems with a request payload.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
