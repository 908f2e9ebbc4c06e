// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/store-ratings/internal/auth"
	"github.com/carterperez-dev/store-ratings/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create stores a new account whose password is already hashed. An email
// that is taken yields core.ErrDuplicateKey.
func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.UserInfo, error) {
	role := account.Role
	if role == "" {
		role = core.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("create user: invalid role %q: %w", role, core.ErrInvalidInput)
	}

	email := normalizeEmail(account.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         account.Name,
		Email:        email,
		PasswordHash: account.PasswordHash,
		Address:      account.Address,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// CreateUser is the admin path: the password arrives in plaintext and the
// role may be chosen explicitly.
func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*auth.UserInfo, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.Create(ctx, auth.NewAccount{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Address:      req.Address,
		Role:         core.Role(req.Role),
	})
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUserRole overwrites the target's role. An admin may demote
// themselves, and a store owner may be demoted while still referenced by a
// store; both changes are logged.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	actorID, targetID string,
	role string,
) (*User, error) {
	parsed, err := core.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, targetID, parsed); err != nil {
		return nil, err
	}

	if actorID == targetID && user.IsAdmin() && parsed != core.RoleAdmin {
		slog.WarnContext(ctx, "admin removed own admin role",
			"user_id", targetID,
			"new_role", parsed,
		)
	}

	if user.Role == core.RoleStoreOwner && parsed != core.RoleStoreOwner {
		slog.WarnContext(ctx, "store owner role removed, owned store keeps its owner",
			"user_id", targetID,
			"actor_id", actorID,
			"new_role", parsed,
		)
	}

	user.Role = parsed
	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, error) {
	if params.Role != "" {
		if _, err := core.ParseRole(params.Role); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// RoleOf reports the role of an existing account.
func (s *Service) RoleOf(ctx context.Context, userID string) (core.Role, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Address:      u.Address,
		Role:         u.Role,
	}
}

var _ auth.UserProvider = (*Service)(nil)
