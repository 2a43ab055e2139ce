// AngelaMos | 2026
// entity.go

package sales

import (
	"time"
)

type ProductCounts struct {
	Total     int `db:"total"`
	Published int `db:"published"`
	Draft     int `db:"draft"`
}

// Sale is a completed purchase of one of the creator's products.
type Sale struct {
	ID            string    `db:"id"`
	Amount        int64     `db:"amount"`
	PlatformFee   int64     `db:"platform_fee"`
	CreatorPayout int64     `db:"creator_payout"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	ProductID     string    `db:"product_id"`
	ProductTitle  string    `db:"product_title"`
	ProductSlug   string    `db:"product_slug"`
	BuyerEmail    string    `db:"buyer_email"`
	BuyerName     *string   `db:"buyer_name"`
}

type PeriodTotals struct {
	Revenue   int64 `db:"revenue"`
	Sales     int64 `db:"sales"`
	Customers int64 `db:"customers"`
}

type TopProduct struct {
	ID            string  `db:"id"`
	Title         string  `db:"title"`
	Slug          string  `db:"slug"`
	ThumbnailURL  *string `db:"thumbnail_url"`
	PurchaseCount int     `db:"purchase_count"`
	Revenue       int64   `db:"revenue"`
}

// Window bounds a reporting period as [From, To). A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

type Range string

const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
	RangeAll Range = "all"

	DefaultRange = Range30d
)

func (r Range) days() int {
	switch r {
	case Range7d:
		return 7
	case Range30d:
		return 30
	case Range90d:
		return 90
	default:
		return 0
	}
}

// Windows returns the current period ending at now and the equal-length
// period before it. The all-time range has no previous period.
func (r Range) Windows(now time.Time) (current Window, previous *Window) {
	days := r.days()
	if days == 0 {
		return Window{}, nil
	}

	span := time.Duration(days) * 24 * time.Hour
	start := now.Add(-span)
	prevStart := now.Add(-2 * span)

	return Window{From: &start}, &Window{From: &prevStart, To: &start}
}

type Dashboard struct {
	Products    ProductCounts
	TotalSales  int64
	Revenue     int64
	RecentSales []Sale
}

type Report struct {
	Range             Range
	Revenue           int64
	Sales             int64
	UniqueCustomers   int64
	AverageOrderValue int64
	RevenueChange     float64
	SalesChange       float64
	RecentSales       []Sale
	TopProducts       []TopProduct
}
