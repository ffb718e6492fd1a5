package auth

import (
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/google/uuid"
)

// Authorize allows tok when its role is one of roles. An empty roles list
// allows every verified token.
func Authorize(tok *VerifiedToken, roles ...models.Role) error {
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if tok.Role == r {
			return nil
		}
	}

	required := make([]string, 0, len(roles))
	for _, r := range roles {
		required = append(required, string(r))
	}
	return &common.ForbiddenError{
		Reason:        "insufficient role",
		RequiredRoles: required,
		CurrentRole:   string(tok.Role),
	}
}

// AuthorizeOwner allows admins and the resource owner. kind names the
// resource in the resulting error, e.g. "note".
func AuthorizeOwner(tok *VerifiedToken, ownerID uuid.UUID, kind, resourceID string) error {
	if tok.IsAdmin() || tok.Subject == ownerID.String() {
		return nil
	}
	return &common.ForbiddenError{
		Reason:       "not the owner",
		CurrentRole:  string(tok.Role),
		ResourceKind: kind,
		ResourceID:   resourceID,
	}
}

// RequireFresh allows only access tokens minted by a password login or
// registration.
func RequireFresh(tok *VerifiedToken) error {
	if tok.Type != models.TokenTypeAccess || !tok.Fresh {
		return common.ErrFreshTokenRequired
	}
	return nil
}
