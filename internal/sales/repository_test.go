// AngelaMos | 2026
// repository_test.go

package sales

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestSalesScope(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	where, args := salesScope("profile-1", Window{})
	assert.Equal(t, "WHERE p.creator_id = $1 AND pu.status = $2", where)
	assert.Equal(t, []any{"profile-1", "COMPLETED"}, args)

	where, args = salesScope("profile-1", Window{From: &from, To: &to})
	assert.Equal(t,
		"WHERE p.creator_id = $1 AND pu.status = $2 AND pu.created_at >= $3 AND pu.created_at < $4",
		where)
	assert.Equal(t, []any{"profile-1", "COMPLETED", from, to}, args)
}

func TestTotalsUsesWindow(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("COUNT\\(DISTINCT pu.user_id\\)").
		WithArgs("profile-1", "COMPLETED", from).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "sales", "customers"}).
			AddRow(int64(4500), int64(5), int64(4)))

	totals, err := repo.Totals(context.Background(), "profile-1", Window{From: &from})
	require.NoError(t, err)
	assert.Equal(t, PeriodTotals{Revenue: 4500, Sales: 5, Customers: 4}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopProductsLimit(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("ORDER BY revenue DESC").
		WithArgs("profile-1", "COMPLETED", 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "slug", "thumbnail_url", "purchase_count", "revenue",
		}).AddRow("prod-p", "Scratching 101", "scratching-101", nil, 3, int64(12000)))

	top, err := repo.TopProducts(context.Background(), "profile-1", Window{}, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(12000), top[0].Revenue)
	assert.NoError(t, mock.ExpectationsWereMet())
}
