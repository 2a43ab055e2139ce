// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/coursemarket/internal/auth"
	"github.com/carterperez-dev/coursemarket/internal/core"
)

// ProfileEnsurer creates the seller profile that backs a creator account.
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID, name, email string) (string, error)
}

type Service struct {
	repo     Repository
	profiles ProfileEnsurer
}

func NewService(repo Repository, profiles ProfileEnsurer) *Service {
	return &Service{repo: repo, profiles: profiles}
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

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user := &User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(name),
		Role:         RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetTokenVersion(ctx context.Context, userID string) (int, error) {
	return s.repo.GetTokenVersion(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf("update role %q: %w", role,
			core.InvalidInputError("Invalid role. Allowed values: USER, CREATOR, ADMIN"))
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	if user.CanSell() && s.profiles != nil {
		if _, err := s.profiles.EnsureProfile(ctx, user.ID, user.Name, user.Email); err != nil {
			return nil, fmt.Errorf("ensure creator profile: %w", err)
		}
	}

	return user, nil
}

// PromoteByEmail is the operator path for role changes.
func (s *Service) PromoteByEmail(
	ctx context.Context,
	email, role string,
) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	return s.UpdateUserRole(ctx, user.ID, role)
}

// BecomeCreator upgrades a buyer account to a seller account and creates its
// creator profile. Admins and existing creators only get the profile ensured.
func (s *Service) BecomeCreator(
	ctx context.Context,
	userID string,
) (*User, string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if !user.CanSell() {
		user, err = s.repo.UpdateRole(ctx, userID, RoleCreator)
		if err != nil {
			return nil, "", err
		}
	}

	profileID, err := s.profiles.EnsureProfile(ctx, user.ID, user.Name, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("ensure creator profile: %w", err)
	}

	return user, profileID, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateUser(ctx, userID, req)
}

func (s *Service) DeleteMe(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	return s.repo.SoftDelete(ctx, userID)
}

func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

var (
	_ auth.UserProvider       = (*Service)(nil)
	_ auth.TokenVersionSource = (*Service)(nil)
)
