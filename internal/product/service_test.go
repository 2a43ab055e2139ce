// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/creator"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
)

type fakeRepo struct {
	products  map[string]*Product
	purchases map[string]int
	deleted   []string
	lastList  ListParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:  map[string]*Product{},
		purchases: map[string]int{},
	}
}

func (f *fakeRepo) List(_ context.Context, params ListParams) ([]Product, int, error) {
	f.lastList = params
	return nil, 0, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	cp.CreatorUserID = "user-creator"
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p *Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeRepo) SetStatus(_ context.Context, id, status string) error {
	p, ok := f.products[id]
	if !ok {
		return core.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeRepo) CountPurchases(_ context.Context, id string) (int, error) {
	return f.purchases[id], nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.products, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) ListByCreator(context.Context, string) ([]Summary, error) {
	return nil, nil
}

type fakeProfiles struct {
	byUser map[string]string
}

func (f fakeProfiles) EnsureProfile(_ context.Context, userID, _, _ string) (string, error) {
	if id, ok := f.byUser[userID]; ok {
		return id, nil
	}
	return "profile-new", nil
}

func (f fakeProfiles) GetByUserID(_ context.Context, userID string) (*creator.Profile, error) {
	id, ok := f.byUser[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &creator.Profile{ID: id, UserID: userID}, nil
}

type fakeAssets map[string]string

func (f fakeAssets) UploaderOf(_ context.Context, assetID string) (string, error) {
	uploader, ok := f[assetID]
	if !ok {
		return "", core.ErrNotFound
	}
	return uploader, nil
}

var (
	owner    = Viewer{UserID: "user-creator", Email: "mix@example.com", Role: middleware.RoleCreator}
	stranger = Viewer{UserID: "user-other", Role: middleware.RoleCreator}
	admin    = Viewer{UserID: "user-admin", Role: middleware.RoleAdmin}
)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(
		repo,
		fakeProfiles{byUser: map[string]string{"user-creator": "profile-1"}},
		fakeAssets{"asset-1": "user-creator", "asset-2": "user-other"},
	)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func seed(repo *fakeRepo, p Product) {
	if p.CreatorUserID == "" {
		p.CreatorUserID = "user-creator"
	}
	repo.products[p.ID] = &p
}

func TestDeleteArchivesPurchasedProduct(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Status: StatusPublished})
	repo.purchases["p-1"] = 1

	archived, err := newTestService(repo).Delete(context.Background(), owner, "p-1")
	require.NoError(t, err)
	assert.True(t, archived)
	assert.Empty(t, repo.deleted)
	assert.Equal(t, StatusArchived, repo.products["p-1"].Status)
}

func TestDeleteRemovesUnpurchasedProduct(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Status: StatusDraft})

	archived, err := newTestService(repo).Delete(context.Background(), owner, "p-1")
	require.NoError(t, err)
	assert.False(t, archived)
	assert.Equal(t, []string{"p-1"}, repo.deleted)
	assert.NotContains(t, repo.products, "p-1")
}

func TestDeleteRequiresOwnerOrAdmin(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1"})

	_, err := newTestService(repo).Delete(context.Background(), stranger, "p-1")
	assert.ErrorIs(t, err, core.ErrForbidden)

	archived, err := newTestService(repo).Delete(context.Background(), admin, "p-1")
	require.NoError(t, err)
	assert.False(t, archived)
}

func TestPublishRequiresVideo(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Status: StatusDraft})
	svc := newTestService(repo)

	_, err := svc.SetStatus(context.Background(), owner, "p-1", StatusPublished)
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	asset := "asset-1"
	repo.products["p-1"].VideoAssetID = &asset

	p, err := svc.SetStatus(context.Background(), owner, "p-1", StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, p.Status)
}

func TestUnpublishedHiddenFromStrangers(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Slug: "draft", Status: StatusDraft})
	svc := newTestService(repo)

	_, err := svc.Get(context.Background(), Viewer{}, "p-1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.GetBySlug(context.Background(), stranger, "draft")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Get(context.Background(), owner, "p-1")
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), admin, "p-1")
	assert.NoError(t, err)
}

func TestCreateSuffixesTakenSlug(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Slug: "scratch-fundamentals"})

	p, err := newTestService(repo).Create(context.Background(), owner, CreateProductRequest{
		Title:       "Scratch Fundamentals",
		Description: strings.Repeat("Learn the baby scratch, chirps and transforms. ", 5),
		Price:       4999,
		Type:        TypeCourse,
		Level:       LevelBeginner,
		Tags:        []string{"Scratching", "scratching", " turntablism "},
	})
	require.NoError(t, err)

	assert.Equal(t, "scratch-fundamentals-1700000000000", p.Slug)
	assert.Equal(t, StatusDraft, p.Status)
	assert.Equal(t, "profile-1", p.CreatorID)
	assert.Equal(t, []string{"scratching", "turntablism"}, []string(p.Tags))
	require.NotNil(t, p.ShortDescription)
	assert.Len(t, []rune(*p.ShortDescription), shortDescriptionLen)
}

func TestUpdateRejectsForeignAsset(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Title: "Old"})
	svc := newTestService(repo)

	foreign := "asset-2"
	_, err := svc.Update(context.Background(), owner, "p-1", UpdateProductRequest{VideoAssetID: &foreign})
	assert.ErrorIs(t, err, core.ErrForbidden)

	missing := "asset-9"
	_, err = svc.Update(context.Background(), owner, "p-1", UpdateProductRequest{VideoAssetID: &missing})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	repo := newFakeRepo()
	seed(repo, Product{ID: "p-1", Title: "Old", Slug: "old"})

	title := "Beat Juggling 101"
	p, err := newTestService(repo).Update(context.Background(), owner, "p-1", UpdateProductRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "beat-juggling-101", p.Slug)
}

func TestListIgnoresIncludeUnpublishedForNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, _, err := svc.List(context.Background(), stranger, ListParams{
		CreatorID:          "profile-1",
		IncludeUnpublished: true,
	})
	require.NoError(t, err)
	assert.False(t, repo.lastList.IncludeUnpublished)

	_, _, err = svc.List(context.Background(), owner, ListParams{
		CreatorID:          "profile-1",
		IncludeUnpublished: true,
	})
	require.NoError(t, err)
	assert.True(t, repo.lastList.IncludeUnpublished)
}
