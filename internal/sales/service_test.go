// AngelaMos | 2026
// service_test.go

package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/creator"
)

type purchaseRow struct {
	userID  string
	payout  int64
	created time.Time
}

// fakeRepo sums the rows that fall inside each requested window.
type fakeRepo struct {
	rows    []purchaseRow
	windows []Window
}

func (f *fakeRepo) ProductCounts(context.Context, string) (ProductCounts, error) {
	return ProductCounts{Total: 3, Published: 2, Draft: 1}, nil
}

func (f *fakeRepo) Totals(_ context.Context, _ string, w Window) (PeriodTotals, error) {
	f.windows = append(f.windows, w)

	var t PeriodTotals
	customers := map[string]bool{}
	for _, row := range f.rows {
		if w.From != nil && row.created.Before(*w.From) {
			continue
		}
		if w.To != nil && !row.created.Before(*w.To) {
			continue
		}
		t.Revenue += row.payout
		t.Sales++
		customers[row.userID] = true
	}
	t.Customers = int64(len(customers))
	return t, nil
}

func (f *fakeRepo) RecentSales(_ context.Context, _ string, _ Window, limit int) ([]Sale, error) {
	return make([]Sale, min(limit, len(f.rows))), nil
}

func (f *fakeRepo) TopProducts(context.Context, string, Window, int) ([]TopProduct, error) {
	return []TopProduct{{ID: "prod-p", Revenue: 100}}, nil
}

type fakeProfiles map[string]string

func (f fakeProfiles) GetByUserID(_ context.Context, userID string) (*creator.Profile, error) {
	id, ok := f[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &creator.Profile{ID: id, UserID: userID}, nil
}

var now = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func newService(rows ...purchaseRow) (*Service, *fakeRepo) {
	repo := &fakeRepo{rows: rows}
	svc := NewService(repo, fakeProfiles{"creator": "profile-1"})
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestReportComparesWithPreviousPeriod(t *testing.T) {
	svc, repo := newService(
		purchaseRow{"a", 900, daysAgo(1)},
		purchaseRow{"a", 900, daysAgo(2)},
		purchaseRow{"b", 901, daysAgo(3)},
		purchaseRow{"c", 1000, daysAgo(10)},
		purchaseRow{"d", 5000, daysAgo(30)},
	)

	r, err := svc.Report(context.Background(), "creator", Range7d)
	require.NoError(t, err)

	assert.Equal(t, int64(2701), r.Revenue)
	assert.Equal(t, int64(3), r.Sales)
	assert.Equal(t, int64(2), r.UniqueCustomers)
	assert.Equal(t, int64(900), r.AverageOrderValue)
	assert.InDelta(t, 170.1, r.RevenueChange, 0.001)
	assert.InDelta(t, 200.0, r.SalesChange, 0.001)
	assert.Len(t, r.RecentSales, 5)
	assert.Len(t, r.TopProducts, 1)

	require.Len(t, repo.windows, 2)
	assert.Equal(t, daysAgo(7), *repo.windows[0].From)
	assert.Nil(t, repo.windows[0].To)
	assert.Equal(t, daysAgo(14), *repo.windows[1].From)
	assert.Equal(t, daysAgo(7), *repo.windows[1].To)
}

func TestReportChangeFromEmptyPeriod(t *testing.T) {
	svc, _ := newService(purchaseRow{"a", 500, daysAgo(1)})

	r, err := svc.Report(context.Background(), "creator", Range30d)
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.RevenueChange)
	assert.Equal(t, 100.0, r.SalesChange)

	svc, _ = newService()
	r, err = svc.Report(context.Background(), "creator", Range30d)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.RevenueChange)
	assert.Equal(t, int64(0), r.AverageOrderValue)
}

func TestReportAllTimeHasNoPreviousPeriod(t *testing.T) {
	svc, repo := newService(
		purchaseRow{"a", 500, daysAgo(1)},
		purchaseRow{"b", 500, daysAgo(400)},
	)

	r, err := svc.Report(context.Background(), "creator", RangeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), r.Revenue)
	assert.Equal(t, 100.0, r.RevenueChange)
	assert.Len(t, repo.windows, 1)
}

func TestRequiresCreatorProfile(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Dashboard(context.Background(), "buyer")
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Report(context.Background(), "buyer", Range7d)
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Dashboard(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestDashboard(t *testing.T) {
	svc, repo := newService(
		purchaseRow{"a", 900, daysAgo(1)},
		purchaseRow{"b", 100, daysAgo(500)},
	)

	d, err := svc.Dashboard(context.Background(), "creator")
	require.NoError(t, err)
	assert.Equal(t, ProductCounts{Total: 3, Published: 2, Draft: 1}, d.Products)
	assert.Equal(t, int64(2), d.TotalSales)
	assert.Equal(t, int64(1000), d.Revenue)
	assert.Equal(t, []Window{{}}, repo.windows)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, Range30d, r)

	r, err = ParseRange("90d")
	require.NoError(t, err)
	assert.Equal(t, Range90d, r)

	_, err = ParseRange("1y")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestAverageOrderRounds(t *testing.T) {
	assert.Equal(t, int64(3), averageOrder(5, 2))
	assert.Equal(t, int64(333), averageOrder(1000, 3))
}
