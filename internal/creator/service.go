// AngelaMos | 2026
// service.go

package creator

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureProfile returns the caller's creator profile id, creating the
// profile on first use.
func (s *Service) EnsureProfile(
	ctx context.Context,
	userID, name, email string,
) (string, error) {
	return s.repo.Ensure(ctx, uuid.NewString(), userID, DefaultDisplayName(name, email))
}

// DefaultDisplayName is the account name, or the local part of the email
// when no name was given.
func DefaultDisplayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) UpdateMine(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		p.AvatarURL = req.AvatarURL
	}
	if req.Website != nil {
		p.Website = req.Website
	}
	if req.SocialLinks != nil {
		p.SocialLinks = *req.SocialLinks
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
