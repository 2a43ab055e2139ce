// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	UpsertBySlug(ctx context.Context, c *Category) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, slug, description, image_url, sort_order
		FROM categories
		ORDER BY sort_order ASC, name ASC`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	query := `
		SELECT id, name, slug, description, image_url, sort_order
		FROM categories
		WHERE slug = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

func (r *repository) UpsertBySlug(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (id, name, slug, description, image_url, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name,
		    description = EXCLUDED.description,
		    image_url = EXCLUDED.image_url,
		    sort_order = EXCLUDED.sort_order
		RETURNING id`

	err := r.db.GetContext(ctx, &c.ID, query,
		c.ID,
		c.Name,
		c.Slug,
		c.Description,
		c.ImageURL,
		c.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("upsert category %s: %w", c.Slug, err)
	}

	return nil
}
