// AngelaMos | 2026
// repository.go

package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

const completed = "COMPLETED"

type Repository interface {
	ProductCounts(ctx context.Context, creatorID string) (ProductCounts, error)
	Totals(ctx context.Context, creatorID string, w Window) (PeriodTotals, error)
	RecentSales(ctx context.Context, creatorID string, w Window, limit int) ([]Sale, error)
	TopProducts(ctx context.Context, creatorID string, w Window, limit int) ([]TopProduct, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ProductCounts(
	ctx context.Context,
	creatorID string,
) (ProductCounts, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'PUBLISHED') AS published,
		       COUNT(*) FILTER (WHERE status = 'DRAFT') AS draft
		FROM products
		WHERE creator_id = $1`

	var counts ProductCounts
	if err := r.db.GetContext(ctx, &counts, query, creatorID); err != nil {
		return ProductCounts{}, fmt.Errorf("count products: %w", err)
	}

	return counts, nil
}

// salesScope builds the WHERE clause shared by every sales query: completed
// purchases of the creator's products inside the window.
func salesScope(creatorID string, w Window) (string, []any) {
	conditions := []string{"p.creator_id = $1", "pu.status = $2"}
	args := []any{creatorID, completed}

	if w.From != nil {
		args = append(args, *w.From)
		conditions = append(conditions, fmt.Sprintf("pu.created_at >= $%d", len(args)))
	}
	if w.To != nil {
		args = append(args, *w.To)
		conditions = append(conditions, fmt.Sprintf("pu.created_at < $%d", len(args)))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *repository) Totals(
	ctx context.Context,
	creatorID string,
	w Window,
) (PeriodTotals, error) {
	where, args := salesScope(creatorID, w)

	query := `
		SELECT COALESCE(SUM(pu.creator_payout), 0) AS revenue,
		       COUNT(*) AS sales,
		       COUNT(DISTINCT pu.user_id) AS customers
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		` + where

	var totals PeriodTotals
	if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
		return PeriodTotals{}, fmt.Errorf("sum sales: %w", err)
	}

	return totals, nil
}

func (r *repository) RecentSales(
	ctx context.Context,
	creatorID string,
	w Window,
	limit int,
) ([]Sale, error) {
	where, args := salesScope(creatorID, w)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT pu.id, pu.amount, pu.platform_fee, pu.creator_payout, pu.status,
		       pu.created_at, p.id AS product_id, p.title AS product_title,
		       p.slug AS product_slug, u.email AS buyer_email, u.name AS buyer_name
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		JOIN users u ON u.id = pu.user_id
		%s
		ORDER BY pu.created_at DESC
		LIMIT $%d`, where, len(args))

	var sales []Sale
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("list recent sales: %w", err)
	}

	return sales, nil
}

func (r *repository) TopProducts(
	ctx context.Context,
	creatorID string,
	w Window,
	limit int,
) ([]TopProduct, error) {
	where, args := salesScope(creatorID, w)
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.thumbnail_url,
		       COUNT(*) AS purchase_count,
		       SUM(pu.creator_payout) AS revenue
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		%s
		GROUP BY p.id, p.title, p.slug, p.thumbnail_url
		ORDER BY revenue DESC, p.title
		LIMIT $%d`, where, len(args))

	var top []TopProduct
	if err := r.db.SelectContext(ctx, &top, query, args...); err != nil {
		return nil, fmt.Errorf("list top products: %w", err)
	}

	return top, nil
}
