// AngelaMos | 2026
// repository_test.go

package creator

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestEnsureReturnsExistingProfile(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id) DO NOTHING")).
		WithArgs("new-id", "user-1", "DJ Qbert").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("existing-id"))

	id, err := repo.Ensure(context.Background(), "new-id", "user-1", "DJ Qbert")
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUserIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM creator_profiles").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUserID(context.Background(), "user-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetByIDScansSocialLinks(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "display_name", "bio", "avatar_url", "website",
		"social_links", "stripe_account_id", "created_at", "updated_at",
	}).AddRow(
		"p-1", "user-1", "Mixmaster", nil, nil, nil,
		[]byte(`{"soundcloud":"https://soundcloud.com/mix","myspace":"x"}`),
		nil, now, now,
	)
	mock.ExpectQuery("FROM creator_profiles").WithArgs("p-1").WillReturnRows(rows)

	p, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	require.NotNil(t, p.SocialLinks.Soundcloud)
	assert.Equal(t, "https://soundcloud.com/mix", *p.SocialLinks.Soundcloud)
	assert.Nil(t, p.SocialLinks.Twitter)
}

func TestDefaultDisplayName(t *testing.T) {
	assert.Equal(t, "Jazzy Jeff", DefaultDisplayName("  Jazzy Jeff ", "jeff@example.com"))
	assert.Equal(t, "jeff", DefaultDisplayName("", "jeff@example.com"))
}
