// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockRepo) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) List(ctx context.Context, params ListUsersParams) ([]User, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]User), args.Int(1), args.Error(2)
}

func (m *mockRepo) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	args := m.Called(ctx, id, role)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) GetTokenVersion(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) EnsureProfile(ctx context.Context, userID, name, email string) (string, error) {
	args := m.Called(ctx, userID, name, email)
	return args.String(0), args.Error(1)
}

func TestBecomeCreatorUpgradesBuyer(t *testing.T) {
	repo := &mockRepo{}
	profiles := &mockProfiles{}

	buyer := &User{ID: "u-1", Email: "dj@example.com", Name: "Qbert", Role: RoleUser}
	promoted := &User{ID: "u-1", Email: "dj@example.com", Name: "Qbert", Role: RoleCreator}

	repo.On("GetByID", mock.Anything, "u-1").Return(buyer, nil)
	repo.On("UpdateRole", mock.Anything, "u-1", RoleCreator).Return(promoted, nil)
	profiles.On("EnsureProfile", mock.Anything, "u-1", "Qbert", "dj@example.com").
		Return("profile-1", nil)

	u, profileID, err := NewService(repo, profiles).BecomeCreator(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, RoleCreator, u.Role)
	assert.Equal(t, "profile-1", profileID)
	repo.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestBecomeCreatorKeepsAdminRole(t *testing.T) {
	repo := &mockRepo{}
	profiles := &mockProfiles{}

	admin := &User{ID: "u-9", Email: "ops@example.com", Role: RoleAdmin}
	repo.On("GetByID", mock.Anything, "u-9").Return(admin, nil)
	profiles.On("EnsureProfile", mock.Anything, "u-9", "", "ops@example.com").
		Return("profile-9", nil)

	u, _, err := NewService(repo, profiles).BecomeCreator(context.Background(), "u-9")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	_, err := NewService(&mockRepo{}, &mockProfiles{}).
		UpdateUserRole(context.Background(), "u-1", "SUPERUSER")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestPromoteByEmailNormalizesAndEnsuresProfile(t *testing.T) {
	repo := &mockRepo{}
	profiles := &mockProfiles{}

	found := &User{ID: "u-1", Email: "dj@example.com", Role: RoleUser}
	promoted := &User{ID: "u-1", Email: "dj@example.com", Role: RoleCreator}

	repo.On("GetByEmail", mock.Anything, "dj@example.com").Return(found, nil)
	repo.On("UpdateRole", mock.Anything, "u-1", RoleCreator).Return(promoted, nil)
	profiles.On("EnsureProfile", mock.Anything, "u-1", "", "dj@example.com").
		Return("profile-1", nil)

	u, err := NewService(repo, profiles).
		PromoteByEmail(context.Background(), "  DJ@Example.com ", RoleCreator)
	require.NoError(t, err)
	assert.Equal(t, RoleCreator, u.Role)
	profiles.AssertExpectations(t)
}

func TestPromoteToUserSkipsProfile(t *testing.T) {
	repo := &mockRepo{}
	profiles := &mockProfiles{}

	found := &User{ID: "u-2", Email: "x@example.com", Role: RoleCreator}
	demoted := &User{ID: "u-2", Email: "x@example.com", Role: RoleUser}

	repo.On("GetByEmail", mock.Anything, "x@example.com").Return(found, nil)
	repo.On("UpdateRole", mock.Anything, "u-2", RoleUser).Return(demoted, nil)

	_, err := NewService(repo, profiles).PromoteByEmail(context.Background(), "x@example.com", RoleUser)
	require.NoError(t, err)
	profiles.AssertNotCalled(t, "EnsureProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCanDeleteUser(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, "buyer").Return(&User{ID: "buyer", Role: RoleUser}, nil)
	repo.On("GetByID", mock.Anything, "admin").Return(&User{ID: "admin", Role: RoleAdmin}, nil)
	repo.On("GetByID", mock.Anything, "admin2").Return(&User{ID: "admin2", Role: RoleAdmin}, nil)

	svc := NewService(repo, &mockProfiles{})
	ctx := context.Background()

	assert.NoError(t, svc.CanDeleteUser(ctx, "buyer", "buyer"))
	assert.ErrorIs(t, svc.CanDeleteUser(ctx, "buyer", "admin"), core.ErrForbidden)
	assert.ErrorIs(t, svc.CanDeleteUser(ctx, "admin", "admin2"), core.ErrForbidden)
	assert.NoError(t, svc.CanDeleteUser(ctx, "admin", "buyer"))
}
