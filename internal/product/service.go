// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/creator"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
)

const shortDescriptionLen = 150

// Profiles resolves the creator profile behind an account.
type Profiles interface {
	EnsureProfile(ctx context.Context, userID, name, email string) (string, error)
	GetByUserID(ctx context.Context, userID string) (*creator.Profile, error)
}

// AssetOwners reports who uploaded a video asset.
type AssetOwners interface {
	UploaderOf(ctx context.Context, assetID string) (string, error)
}

// Viewer is the caller as seen by catalog operations. A zero Viewer is an
// anonymous visitor.
type Viewer struct {
	UserID string
	Email  string
	Role   string
}

func (v Viewer) IsAdmin() bool {
	return v.Role == middleware.RoleAdmin
}

type Service struct {
	repo     Repository
	profiles Profiles
	assets   AssetOwners
	now      func() time.Time
}

func NewService(repo Repository, profiles Profiles, assets AssetOwners) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		assets:   assets,
		now:      time.Now,
	}
}

// GetByID is the unfiltered lookup used by the purchase and media flows.
func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	viewer Viewer,
	params ListParams,
) ([]Product, int, error) {
	if params.IncludeUnpublished && !s.ownsCreator(ctx, viewer, params.CreatorID) {
		params.IncludeUnpublished = false
	}

	return s.repo.List(ctx, params)
}

func (s *Service) ownsCreator(ctx context.Context, viewer Viewer, creatorID string) bool {
	if viewer.UserID == "" || creatorID == "" {
		return false
	}

	profile, err := s.profiles.GetByUserID(ctx, viewer.UserID)
	if err != nil {
		return false
	}

	return profile.ID == creatorID
}

func (s *Service) Get(ctx context.Context, viewer Viewer, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visible(p, viewer)
}

func (s *Service) GetBySlug(ctx context.Context, viewer Viewer, slug string) (*Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.visible(p, viewer)
}

// visible hides unpublished products from everyone but their owner and
// admins.
func (s *Service) visible(p *Product, viewer Viewer) (*Product, error) {
	if p.IsPublished() || p.OwnedBy(viewer.UserID) || viewer.IsAdmin() {
		return p, nil
	}
	return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
}

func (s *Service) Create(
	ctx context.Context,
	viewer Viewer,
	req CreateProductRequest,
) (*Product, error) {
	profileID, err := s.profiles.EnsureProfile(ctx, viewer.UserID, "", viewer.Email)
	if err != nil {
		return nil, fmt.Errorf("ensure creator profile: %w", err)
	}

	slugValue, err := s.uniqueSlug(ctx, req.Title, "")
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(req.Title),
		Slug:             slugValue,
		Description:      req.Description,
		ShortDescription: shortDescription(req.Description),
		Price:            req.Price,
		Type:             req.Type,
		Level:            req.Level,
		Status:           StatusDraft,
		Tags:             normalizeTags(req.Tags),
		CreatorID:        profileID,
		CategoryID:       req.CategoryID,
		ThumbnailURL:     req.ThumbnailURL,
		PreviewURL:       req.PreviewURL,
	}

	err = s.repo.Create(ctx, p)
	if errors.Is(err, core.ErrDuplicateKey) {
		p.Slug = s.suffixed(p.Slug)
		err = s.repo.Create(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) Update(
	ctx context.Context,
	viewer Viewer,
	id string,
	req UpdateProductRequest,
) (*Product, error) {
	p, err := s.editable(ctx, viewer, id, "edit")
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != p.Title {
			p.Slug, err = s.uniqueSlug(ctx, title, p.ID)
			if err != nil {
				return nil, err
			}
		}
		p.Title = title
	}
	if req.Description != nil {
		p.Description = *req.Description
		p.ShortDescription = shortDescription(*req.Description)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Level != nil {
		p.Level = *req.Level
	}
	if req.Tags != nil {
		p.Tags = normalizeTags(*req.Tags)
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.ThumbnailURL != nil {
		p.ThumbnailURL = req.ThumbnailURL
	}
	if req.PreviewURL != nil {
		p.PreviewURL = req.PreviewURL
	}
	if req.VideoAssetID != nil {
		if err := s.checkAsset(ctx, viewer, *req.VideoAssetID); err != nil {
			return nil, err
		}
		p.VideoAssetID = req.VideoAssetID
	}
	if req.TotalDuration != nil {
		p.TotalDuration = req.TotalDuration
	}
	if req.LessonCount != nil {
		p.LessonCount = *req.LessonCount
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, p.ID)
}

func (s *Service) checkAsset(ctx context.Context, viewer Viewer, assetID string) error {
	uploader, err := s.assets.UploaderOf(ctx, assetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.InvalidInputError("Video asset not found")
		}
		return err
	}

	if uploader != viewer.UserID && !viewer.IsAdmin() {
		return core.ForbiddenError("Not authorized to use this video asset")
	}
	return nil
}

// SetStatus moves a product between DRAFT, PUBLISHED and ARCHIVED. Only
// products with a video can be published.
func (s *Service) SetStatus(
	ctx context.Context,
	viewer Viewer,
	id, status string,
) (*Product, error) {
	if !ValidStatus(status) {
		return nil, core.InvalidInputError("Invalid status")
	}

	p, err := s.editable(ctx, viewer, id, "edit")
	if err != nil {
		return nil, err
	}

	if status == StatusPublished && !p.HasVideo() {
		return nil, core.InvalidInputError("Attach a video before publishing")
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a product that nobody has bought. Products with purchase
// history are archived instead and the returned flag is true.
func (s *Service) Delete(ctx context.Context, viewer Viewer, id string) (bool, error) {
	if _, err := s.editable(ctx, viewer, id, "delete"); err != nil {
		return false, err
	}

	count, err := s.repo.CountPurchases(ctx, id)
	if err != nil {
		return false, err
	}

	if count == 0 {
		err = s.repo.Delete(ctx, id)
		if !errors.Is(err, core.ErrConflict) {
			return false, err
		}
	}

	if err := s.repo.SetStatus(ctx, id, StatusArchived); err != nil {
		return false, err
	}
	return true, nil
}

// Mine lists the caller's own products with purchase counts. Callers
// without a creator profile simply have none.
func (s *Service) Mine(ctx context.Context, viewer Viewer) ([]Summary, error) {
	profile, err := s.profiles.GetByUserID(ctx, viewer.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, err
	}

	return s.repo.ListByCreator(ctx, profile.ID)
}

func (s *Service) editable(
	ctx context.Context,
	viewer Viewer,
	id, action string,
) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.OwnedBy(viewer.UserID) && !viewer.IsAdmin() {
		return nil, core.ForbiddenError("Not authorized to " + action + " this product")
	}

	return p, nil
}

func (s *Service) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "product"
	}

	exists, err := s.repo.SlugExists(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return s.suffixed(base), nil
	}

	return base, nil
}

func (s *Service) suffixed(base string) string {
	return base + "-" + strconv.FormatInt(s.now().UnixMilli(), 10)
}

func shortDescription(description string) *string {
	r := []rune(description)
	if len(r) > shortDescriptionLen {
		r = r[:shortDescriptionLen]
	}
	short := string(r)
	return &short
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
