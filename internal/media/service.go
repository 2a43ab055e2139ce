// AngelaMos | 2026
// service.go

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
	"github.com/carterperez-dev/coursemarket/internal/product"
	"github.com/carterperez-dev/coursemarket/internal/storage"
)

type ProductFinder interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

type Entitlements interface {
	HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error)
}

// Caller is the authenticated user behind a media request.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == middleware.RoleAdmin
}

type Service struct {
	repo           Repository
	storage        storage.Gateway
	products       ProductFinder
	entitlements   Entitlements
	downloadExpiry time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

func NewService(
	repo Repository,
	gateway storage.Gateway,
	products ProductFinder,
	entitlements Entitlements,
	downloadExpiry time.Duration,
	logger *slog.Logger,
) *Service {
	if downloadExpiry <= 0 {
		downloadExpiry = 4 * time.Hour
	}

	return &Service{
		repo:           repo,
		storage:        gateway,
		products:       products,
		entitlements:   entitlements,
		downloadExpiry: downloadExpiry,
		logger:         logger,
		now:            time.Now,
	}
}

// IssueUploadURL validates the declared file against its purpose and returns
// a presigned PUT bound to the declared type and size.
func (s *Service) IssueUploadURL(
	ctx context.Context,
	caller Caller,
	req UploadURLRequest,
) (*UploadURLResponse, error) {
	purpose, err := storage.ParsePurpose(req.UploadType)
	if err != nil {
		return nil, err
	}

	obj, err := storage.PlanUpload(storage.UploadRequest{
		FileName:    req.FileName,
		ContentType: req.FileType,
		Size:        req.FileSize,
		Purpose:     purpose,
		UserID:      caller.UserID,
	}, s.now())
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.SignUpload(ctx, obj)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		Key:       obj.Key,
		PublicURL: s.storage.PublicURL(obj.Key),
	}, nil
}

// RegisterAsset records an uploaded video. Non-admins may only register
// objects under their own upload namespace.
func (s *Service) RegisterAsset(
	ctx context.Context,
	caller Caller,
	req RegisterAssetRequest,
) (*VideoAsset, error) {
	if !caller.IsAdmin() {
		if !ownsKey(storage.PurposeVideo, caller.UserID, req.StorageKey) ||
			!ownsOptionalKey(storage.PurposeThumbnail, caller.UserID, req.ThumbnailKey) ||
			!ownsOptionalKey(storage.PurposePreview, caller.UserID, req.PreviewKey) {
			return nil, core.ForbiddenError("Storage key does not belong to you")
		}
	}

	asset := &VideoAsset{
		ID:           uuid.NewString(),
		StorageKey:   req.StorageKey,
		FileName:     req.FileName,
		FileSize:     req.FileSize,
		MimeType:     req.MimeType,
		Duration:     positive(req.Duration),
		Width:        positive(req.Width),
		Height:       positive(req.Height),
		ThumbnailKey: nonEmpty(req.ThumbnailKey),
		PreviewKey:   nonEmpty(req.PreviewKey),
		IsProcessed:  true,
		UploadedBy:   caller.UserID,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.ConflictError("Video asset already registered", http.StatusConflict)
		}
		return nil, err
	}

	return asset, nil
}

func ownsKey(purpose storage.Purpose, userID, key string) bool {
	return userID != "" && strings.HasPrefix(key, purpose.KeyPrefix(userID))
}

func ownsOptionalKey(purpose storage.Purpose, userID string, key *string) bool {
	if key == nil || *key == "" {
		return true
	}
	return ownsKey(purpose, userID, *key)
}

// VideoURL returns a signed playback URL when the caller created the
// product, is an admin, or holds a completed purchase. Entitlement is checked
// on every call because purchases can be refunded.
func (s *Service) VideoURL(ctx context.Context, caller Caller, productID string) (string, error) {
	ctx, span := core.StartSpan(ctx, "media.VideoURL",
		attribute.String("product.id", productID))
	defer span.End()

	if caller.UserID == "" {
		return "", core.UnauthorizedError("Authentication required")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.NotFoundError("Video")
		}
		return "", err
	}
	if !p.HasVideo() {
		return "", core.NotFoundError("Video")
	}

	asset, err := s.repo.GetByID(ctx, *p.VideoAssetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.NotFoundError("Video")
		}
		return "", err
	}

	allowed, err := s.canWatch(ctx, caller, p)
	if err != nil {
		return "", err
	}
	if !allowed {
		core.AddSpanEvent(ctx, "media.access_denied")
		return "", core.ForbiddenError("Purchase required to access this video")
	}

	return s.storage.SignDownload(ctx, asset.StorageKey, s.downloadExpiry)
}

func (s *Service) canWatch(ctx context.Context, caller Caller, p *product.Product) (bool, error) {
	if p.OwnedBy(caller.UserID) || caller.IsAdmin() {
		return true, nil
	}
	return s.entitlements.HasCompletedPurchase(ctx, caller.UserID, p.ID)
}

// Uploaders resolves who registered an asset. The catalogue uses it before
// the full media service exists.
type Uploaders struct {
	repo Repository
}

func NewUploaders(repo Repository) Uploaders {
	return Uploaders{repo: repo}
}

func (u Uploaders) UploaderOf(ctx context.Context, assetID string) (string, error) {
	asset, err := u.repo.GetByID(ctx, assetID)
	if err != nil {
		return "", err
	}
	return asset.UploadedBy, nil
}

func (s *Service) GetAsset(ctx context.Context, caller Caller, id string) (*VideoAsset, error) {
	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.UploadedBy != caller.UserID && !caller.IsAdmin() {
		return nil, fmt.Errorf("get video asset: %w", core.ErrNotFound)
	}
	return asset, nil
}

// DeleteAsset removes an unattached asset and its stored objects. Assets
// still used by a product are refused with a conflict.
func (s *Service) DeleteAsset(ctx context.Context, caller Caller, id string) error {
	asset, err := s.GetAsset(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return core.ConflictError("Video asset is attached to a product", http.StatusConflict)
		}
		return err
	}

	keys := []string{asset.StorageKey}
	if asset.ThumbnailKey != nil {
		keys = append(keys, *asset.ThumbnailKey)
	}
	if asset.PreviewKey != nil {
		keys = append(keys, *asset.PreviewKey)
	}

	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("delete stored object failed", "asset_id", id, "key", key, "error", err)
		}
	}

	return nil
}

func positive(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
