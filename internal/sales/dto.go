// AngelaMos | 2026
// dto.go

package sales

import (
	"time"
)

type SaleProduct struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type SaleBuyer struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type SaleResponse struct {
	ID            string      `json:"id"`
	Amount        int64       `json:"amount"`
	PlatformFee   int64       `json:"platformFee"`
	CreatorPayout int64       `json:"creatorPayout"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	Product       SaleProduct `json:"product"`
	User          SaleBuyer   `json:"user"`
}

type DashboardResponse struct {
	TotalProducts     int            `json:"totalProducts"`
	PublishedProducts int            `json:"publishedProducts"`
	DraftProducts     int            `json:"draftProducts"`
	TotalRevenue      int64          `json:"totalRevenue"`
	TotalSales        int64          `json:"totalSales"`
	RecentSales       []SaleResponse `json:"recentSales"`
}

type StatsResponse struct {
	TotalRevenue      int64   `json:"totalRevenue"`
	TotalSales        int64   `json:"totalSales"`
	AverageOrderValue int64   `json:"averageOrderValue"`
	UniqueCustomers   int64   `json:"uniqueCustomers"`
	RevenueChange     float64 `json:"revenueChange"`
	SalesChange       float64 `json:"salesChange"`
}

type TopProductResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	ThumbnailURL  *string `json:"thumbnailUrl"`
	PurchaseCount int     `json:"purchaseCount"`
	TotalRevenue  int64   `json:"totalRevenue"`
}

type ReportResponse struct {
	Range       string               `json:"range"`
	Stats       StatsResponse        `json:"stats"`
	RecentSales []SaleResponse       `json:"recentSales"`
	TopProducts []TopProductResponse `json:"topProducts"`
}

func ToSaleResponseList(sales []Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i, s := range sales {
		out[i] = SaleResponse{
			ID:            s.ID,
			Amount:        s.Amount,
			PlatformFee:   s.PlatformFee,
			CreatorPayout: s.CreatorPayout,
			Status:        s.Status,
			CreatedAt:     s.CreatedAt,
			Product: SaleProduct{
				ID:    s.ProductID,
				Title: s.ProductTitle,
				Slug:  s.ProductSlug,
			},
			User: SaleBuyer{Email: s.BuyerEmail, Name: s.BuyerName},
		}
	}
	return out
}

func ToDashboardResponse(d *Dashboard) DashboardResponse {
	return DashboardResponse{
		TotalProducts:     d.Products.Total,
		PublishedProducts: d.Products.Published,
		DraftProducts:     d.Products.Draft,
		TotalRevenue:      d.Revenue,
		TotalSales:        d.TotalSales,
		RecentSales:       ToSaleResponseList(d.RecentSales),
	}
}

func ToReportResponse(r *Report) ReportResponse {
	top := make([]TopProductResponse, len(r.TopProducts))
	for i, p := range r.TopProducts {
		top[i] = TopProductResponse{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			ThumbnailURL:  p.ThumbnailURL,
			PurchaseCount: p.PurchaseCount,
			TotalRevenue:  p.Revenue,
		}
	}

	return ReportResponse{
		Range: string(r.Range),
		Stats: StatsResponse{
			TotalRevenue:      r.Revenue,
			TotalSales:        r.Sales,
			AverageOrderValue: r.AverageOrderValue,
			UniqueCustomers:   r.UniqueCustomers,
			RevenueChange:     r.RevenueChange,
			SalesChange:       r.SalesChange,
		},
		RecentSales: ToSaleResponseList(r.RecentSales),
		TopProducts: top,
	}
}
