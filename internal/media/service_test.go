// AngelaMos | 2026
// service_test.go

package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
	"github.com/carterperez-dev/coursemarket/internal/product"
	"github.com/carterperez-dev/coursemarket/internal/storage"
)

type memAssets struct {
	assets   map[string]*VideoAsset
	attached map[string]bool
}

func (m *memAssets) Create(_ context.Context, a *VideoAsset) error {
	m.assets[a.ID] = a
	return nil
}

func (m *memAssets) GetByID(_ context.Context, id string) (*VideoAsset, error) {
	a, ok := m.assets[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return a, nil
}

func (m *memAssets) Delete(_ context.Context, id string) error {
	if m.attached[id] {
		return core.ErrConflict
	}
	delete(m.assets, id)
	return nil
}

type fakeStorage struct {
	signedDownloads []time.Duration
	deleted         []string
	err             error
}

func (f *fakeStorage) SignUpload(_ context.Context, obj storage.UploadObject) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.test/" + obj.Key + "?X-Amz-Signature=put", nil
}

func (f *fakeStorage) SignDownload(_ context.Context, key string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.signedDownloads = append(f.signedDownloads, expiry)
	return "https://bucket.test/" + key + "?X-Amz-Signature=get", nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeProducts map[string]*product.Product

func (f fakeProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

type fakeEntitlements map[string]bool

func (f fakeEntitlements) HasCompletedPurchase(_ context.Context, userID, productID string) (bool, error) {
	return f[userID+"/"+productID], nil
}

type fixture struct {
	svc     *Service
	assets  *memAssets
	storage *fakeStorage
	owned   fakeEntitlements
}

func newFixture() *fixture {
	assetID := "asset-1"
	assets := &memAssets{
		assets: map[string]*VideoAsset{
			assetID: {ID: assetID, StorageKey: "videos/creator/1-intro.mp4", UploadedBy: "creator"},
		},
		attached: map[string]bool{assetID: true},
	}
	products := fakeProducts{
		"prod-p":   {ID: "prod-p", CreatorUserID: "creator", VideoAssetID: &assetID, Status: product.StatusPublished},
		"no-video": {ID: "no-video", CreatorUserID: "creator", Status: product.StatusPublished},
	}
	store := &fakeStorage{}
	owned := fakeEntitlements{}

	svc := NewService(assets, store, products, owned, 4*time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return &fixture{svc: svc, assets: assets, storage: store, owned: owned}
}

var (
	buyerA  = Caller{UserID: "buyer-a", Role: middleware.RoleUser}
	creator = Caller{UserID: "creator", Role: middleware.RoleCreator}
	admin   = Caller{UserID: "admin", Role: middleware.RoleAdmin}
)

func TestVideoURLGatedOnCompletedPurchase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.VideoURL(ctx, buyerA, "prod-p")
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Contains(t, err.Error(), "Purchase required")

	f.owned["buyer-a/prod-p"] = true
	url, err := f.svc.VideoURL(ctx, buyerA, "prod-p")
	require.NoError(t, err)
	assert.Contains(t, url, "videos/creator/1-intro.mp4")
	assert.Equal(t, []time.Duration{4 * time.Hour}, f.storage.signedDownloads)

	delete(f.owned, "buyer-a/prod-p")
	_, err = f.svc.VideoURL(ctx, buyerA, "prod-p")
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestVideoURLCreatorAndAdminBypassPurchase(t *testing.T) {
	f := newFixture()

	_, err := f.svc.VideoURL(context.Background(), creator, "prod-p")
	assert.NoError(t, err)

	_, err = f.svc.VideoURL(context.Background(), admin, "prod-p")
	assert.NoError(t, err)
}

func TestVideoURLNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.VideoURL(context.Background(), admin, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.svc.VideoURL(context.Background(), admin, "no-video")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.svc.VideoURL(context.Background(), Caller{}, "prod-p")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestVideoURLStorageFailureIsUpstream(t *testing.T) {
	f := newFixture()
	f.storage.err = core.UpstreamError(errors.New("s3 unreachable"))

	_, err := f.svc.VideoURL(context.Background(), creator, "prod-p")
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestIssueUploadURL(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.IssueUploadURL(context.Background(), creator, UploadURLRequest{
		FileName:   "my lesson.mp4",
		FileType:   "video/mp4",
		FileSize:   1024,
		UploadType: "video",
	})
	require.NoError(t, err)
	assert.Equal(t, "videos/creator/1700000000000-my_lesson.mp4", resp.Key)
	assert.Equal(t, "https://cdn.test/"+resp.Key, resp.PublicURL)
	assert.Contains(t, resp.UploadURL, resp.Key)

	_, err = f.svc.IssueUploadURL(context.Background(), creator, UploadURLRequest{
		FileName:   "cover.gif",
		FileType:   "image/gif",
		FileSize:   1024,
		UploadType: "thumbnail",
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRegisterAssetRequiresOwnNamespace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RegisterAsset(ctx, creator, RegisterAssetRequest{
		StorageKey: "videos/someone-else/1-x.mp4",
		FileName:   "x.mp4",
		FileSize:   10,
		MimeType:   "video/mp4",
	})
	assert.ErrorIs(t, err, core.ErrForbidden)

	thumb := "thumbnails/someone-else/1-x.png"
	_, err = f.svc.RegisterAsset(ctx, creator, RegisterAssetRequest{
		StorageKey:   "videos/creator/1-x.mp4",
		FileName:     "x.mp4",
		FileSize:     10,
		MimeType:     "video/mp4",
		ThumbnailKey: &thumb,
	})
	assert.ErrorIs(t, err, core.ErrForbidden)

	asset, err := f.svc.RegisterAsset(ctx, creator, RegisterAssetRequest{
		StorageKey: "videos/creator/1-x.mp4",
		FileName:   "x.mp4",
		FileSize:   10,
		MimeType:   "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "creator", asset.UploadedBy)
	assert.True(t, asset.IsProcessed)

	_, err = f.svc.RegisterAsset(ctx, admin, RegisterAssetRequest{
		StorageKey: "videos/creator/2-y.mp4",
		FileName:   "y.mp4",
		FileSize:   10,
		MimeType:   "video/mp4",
	})
	assert.NoError(t, err)
}

func TestDeleteAsset(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.svc.DeleteAsset(ctx, creator, "asset-1")
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Empty(t, f.storage.deleted)

	f.assets.attached["asset-1"] = false
	err = f.svc.DeleteAsset(ctx, buyerA, "asset-1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, f.svc.DeleteAsset(ctx, creator, "asset-1"))
	assert.Equal(t, []string{"videos/creator/1-intro.mp4"}, f.storage.deleted)
}

func TestVideoHandlerDisablesCaching(t *testing.T) {
	f := newFixture()
	f.owned["buyer-a/prod-p"] = true

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{
				UserID: buyerA.UserID,
				Role:   buyerA.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	router := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(router, auth)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/video/prod-p", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	assert.Contains(t, rec.Body.String(), `"url"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/uploads",
		strings.NewReader(`{"fileName":"a.mp4","fileType":"video/mp4","fileSize":1,"uploadType":"video"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Creator account required")
}

func TestUploaderOf(t *testing.T) {
	f := newFixture()

	uploader, err := NewUploaders(f.assets).UploaderOf(context.Background(), "asset-1")
	require.NoError(t, err)
	assert.Equal(t, "creator", uploader)

	_, err = NewUploaders(f.assets).UploaderOf(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
