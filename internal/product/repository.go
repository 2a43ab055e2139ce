// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	SetStatus(ctx context.Context, id, status string) error
	CountPurchases(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string) ([]Summary, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT p.id, p.title, p.slug, p.description, p.short_description,
	       p.price, p.type, p.level, p.status, p.tags, p.creator_id,
	       p.category_id, p.video_asset_id, p.thumbnail_url, p.preview_url,
	       p.total_duration, p.lesson_count, p.created_at, p.updated_at,
	       c.user_id AS creator_user_id,
	       c.display_name AS creator_display_name,
	       c.avatar_url AS creator_avatar_url,
	       cat.name AS category_name,
	       cat.slug AS category_slug,
	       va.duration AS video_duration`

const productJoins = `
	FROM products p
	JOIN creator_profiles c ON c.id = p.creator_id
	LEFT JOIN categories cat ON cat.id = p.category_id
	LEFT JOIN video_assets va ON va.id = p.video_asset_id`

const slugConstraint = "products_slug_key"

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if !params.IncludeUnpublished {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, StatusPublished)
		argIdx++
	}

	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("cat.slug = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}

	if params.Level != "" {
		conditions = append(conditions, fmt.Sprintf("p.level = $%d", argIdx))
		args = append(args, params.Level)
		argIdx++
	}

	if params.Type != "" {
		conditions = append(conditions, fmt.Sprintf("p.type = $%d", argIdx))
		args = append(args, params.Type)
		argIdx++
	}

	if params.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price >= $%d", argIdx))
		args = append(args, *params.MinPrice)
		argIdx++
	}

	if params.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price <= $%d", argIdx))
		args = append(args, *params.MaxPrice)
		argIdx++
	}

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.description ILIKE $%d OR $%d = ANY(p.tags))",
			argIdx, argIdx, argIdx+1))
		args = append(args,
			"%"+escapeLike(params.Search)+"%",
			strings.ToLower(params.Search),
		)
		argIdx += 2
	}

	if params.CreatorID != "" {
		conditions = append(conditions, fmt.Sprintf("p.creator_id = $%d", argIdx))
		args = append(args, params.CreatorID)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*)` + productJoins + ` WHERE ` + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`%s %s
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`,
		productSelect, productJoins, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	return r.getOne(ctx, "get product", `p.id = $1`, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.getOne(ctx, "get product by slug", `p.slug = $1`, slug)
}

func (r *repository) getOne(
	ctx context.Context,
	op, condition string,
	arg any,
) (*Product, error) {
	query := productSelect + productJoins + ` WHERE ` + condition

	var p Product
	err := r.db.GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (r *repository) SlugExists(
	ctx context.Context,
	slug, excludeID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1 AND id::text <> $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("check product slug: %w", err)
	}

	return exists, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			id, title, slug, description, short_description, price, type,
			level, status, tags, creator_id, category_id, thumbnail_url,
			preview_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.ShortDescription,
		p.Price,
		p.Type,
		p.Level,
		p.Status,
		p.Tags,
		p.CreatorID,
		p.CategoryID,
		p.ThumbnailURL,
		p.PreviewURL,
	)
	if err != nil {
		if core.IsUniqueViolation(err, slugConstraint) {
			return fmt.Errorf("create product: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create product: %w", core.InvalidInputError("Unknown category"))
		}
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET title = $2, slug = $3, description = $4, short_description = $5,
		    price = $6, type = $7, level = $8, tags = $9, category_id = $10,
		    thumbnail_url = $11, preview_url = $12, video_asset_id = $13,
		    total_duration = $14, lesson_count = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.ShortDescription,
		p.Price,
		p.Type,
		p.Level,
		p.Tags,
		p.CategoryID,
		p.ThumbnailURL,
		p.PreviewURL,
		p.VideoAssetID,
		p.TotalDuration,
		p.LessonCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err, slugConstraint) {
			return fmt.Errorf("update product: %w", core.ErrDuplicateKey)
		}
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("update product: %w", core.InvalidInputError("Unknown category or video asset"))
		}
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) SetStatus(ctx context.Context, id, status string) error {
	query := `UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set product status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountPurchases(ctx context.Context, id string) (int, error) {
	query := `SELECT COUNT(*) FROM purchases WHERE product_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count product purchases: %w", err)
	}

	return count, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete product: %w", core.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByCreator(
	ctx context.Context,
	creatorID string,
) ([]Summary, error) {
	query := productSelect + `,
	       (SELECT COUNT(*) FROM purchases pu
	        WHERE pu.product_id = p.id AND pu.status = 'COMPLETED') AS purchase_count` +
		productJoins + `
		WHERE p.creator_id = $1
		ORDER BY p.created_at DESC`

	var summaries []Summary
	if err := r.db.SelectContext(ctx, &summaries, query, creatorID); err != nil {
		return nil, fmt.Errorf("list creator products: %w", err)
	}

	return summaries, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
