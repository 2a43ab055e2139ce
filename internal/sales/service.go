// AngelaMos | 2026
// service.go

package sales

import (
	"context"
	"errors"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/creator"
)

const (
	dashboardRecentLimit = 10
	reportRecentLimit    = 20
	topProductsLimit     = 5
)

type Profiles interface {
	GetByUserID(ctx context.Context, userID string) (*creator.Profile, error)
}

type Service struct {
	repo     Repository
	profiles Profiles
	now      func() time.Time
}

func NewService(repo Repository, profiles Profiles) *Service {
	return &Service{repo: repo, profiles: profiles, now: time.Now}
}

func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return DefaultRange, nil
	case Range7d, Range30d, Range90d, RangeAll:
		return r, nil
	default:
		return "", core.InvalidInputError("Invalid range. Allowed values: 7d, 30d, 90d, all")
	}
}

func (s *Service) creatorID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", core.UnauthorizedError("Authentication required")
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", core.ForbiddenError("Creator profile not found")
		}
		return "", err
	}

	return p.ID, nil
}

// Dashboard summarises the caller's catalogue and lifetime completed sales.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	ctx, span := core.StartSpan(ctx, "sales.Dashboard")
	defer span.End()

	creatorID, err := s.creatorID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.ProductCounts(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Totals(ctx, creatorID, Window{})
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentSales(ctx, creatorID, Window{}, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Products:    counts,
		TotalSales:  totals.Sales,
		Revenue:     totals.Revenue,
		RecentSales: recent,
	}, nil
}

// Report computes sales statistics for the range and compares them with the
// preceding period of equal length.
func (s *Service) Report(ctx context.Context, userID string, rng Range) (*Report, error) {
	ctx, span := core.StartSpan(ctx, "sales.Report",
		attribute.String("sales.range", string(rng)))
	defer span.End()

	creatorID, err := s.creatorID(ctx, userID)
	if err != nil {
		return nil, err
	}

	current, previous := rng.Windows(s.now())

	cur, err := s.repo.Totals(ctx, creatorID, current)
	if err != nil {
		return nil, err
	}

	var prev PeriodTotals
	if previous != nil {
		prev, err = s.repo.Totals(ctx, creatorID, *previous)
		if err != nil {
			return nil, err
		}
	}

	recent, err := s.repo.RecentSales(ctx, creatorID, current, reportRecentLimit)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.TopProducts(ctx, creatorID, current, topProductsLimit)
	if err != nil {
		return nil, err
	}

	return &Report{
		Range:             rng,
		Revenue:           cur.Revenue,
		Sales:             cur.Sales,
		UniqueCustomers:   cur.Customers,
		AverageOrderValue: averageOrder(cur.Revenue, cur.Sales),
		RevenueChange:     percentChange(cur.Revenue, prev.Revenue),
		SalesChange:       percentChange(cur.Sales, prev.Sales),
		RecentSales:       recent,
		TopProducts:       top,
	}, nil
}

func averageOrder(revenue, sales int64) int64 {
	if sales == 0 {
		return 0
	}
	return int64(math.Round(float64(revenue) / float64(sales)))
}

// percentChange is 100 when growing from nothing and 0 when both are empty.
func percentChange(current, previous int64) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}
