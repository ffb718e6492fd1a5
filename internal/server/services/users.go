package services

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserService covers account administration. Role and freshness checks for
// HTTP callers happen at the route; the operator CLI calls it directly.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	log         logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, hasher *auth.PasswordHasher, log logging.Logger) *UserService {
	return &UserService{repomanager: m, hasher: hasher, log: log.With("module", "users")}
}

// List returns every user, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users().List(ctx)
}

// Update changes role and/or active flag. Tokens already issued keep their
// claim snapshot until they expire.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.User, error) {
	if upd.Empty() {
		return nil, common.NewValidationError("body", "no updatable fields provided")
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, common.NewValidationError("role", "must be one of: user, admin")
	}

	u, err := s.repomanager.Users().Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user updated", "user_id", u.ID.String(), "role", string(u.Role), "is_active", u.IsActive)
	return u, nil
}

// CreateAccount creates an active user with the given role.
func (s *UserService) CreateAccount(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, common.NewValidationError("role", "must be one of: user, admin")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users().Create(ctx, &models.User{
		Email:        common.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
}

// UpdateByEmail looks a user up by email and applies upd in one unit of work.
func (s *UserService) UpdateByEmail(ctx context.Context, email string, upd models.UserUpdate) (*models.User, error) {
	if upd.Role != nil && !upd.Role.Valid() {
		return nil, common.NewValidationError("role", "must be one of: user, admin")
	}

	var out *models.User
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		u, err := repos.Users().GetByEmail(ctx, common.NormalizeEmail(email))
		if err != nil {
			return err
		}
		out, err = repos.Users().Update(ctx, u.ID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
