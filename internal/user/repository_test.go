// AngelaMos | 2026
// repository_test.go

package user

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

func TestListFilter(t *testing.T) {
	where, args := listFilter(ListUsersParams{Search: "50%_off", Role: RoleCreator})

	assert.Equal(t,
		"WHERE deleted_at IS NULL AND (email ILIKE $1 OR name ILIKE $1) AND role = $2",
		where)
	assert.Equal(t, []any{`%50\%\_off%`, RoleCreator}, args)

	where, args = listFilter(ListUsersParams{})
	assert.Equal(t, "WHERE deleted_at IS NULL", where)
	assert.Empty(t, args)
}

func TestListPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND role = $1")).
		WithArgs(RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs(RoleUser, 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "name", "role", "token_version",
			"created_at", "updated_at", "deleted_at",
		}).AddRow("u-1", "a@example.com", "A", RoleUser, 0, now, now, nil))

	users, total, err := repo.List(context.Background(), ListUsersParams{
		Page:     2,
		PageSize: 20,
		Role:     RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteMissingAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("SET deleted_at = NOW(), updated_at = NOW()")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateRoleBumpsTokenVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("token_version = token_version + 1")).
		WithArgs("u-1", RoleCreator).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "name", "role", "token_version",
			"created_at", "updated_at", "deleted_at",
		}).AddRow("u-1", "a@example.com", "hash", "A", RoleCreator, 3, now, now, nil))

	u, err := repo.UpdateRole(context.Background(), "u-1", RoleCreator)
	require.NoError(t, err)
	assert.Equal(t, 3, u.TokenVersion)
	assert.True(t, u.CanSell())
}
