// AngelaMos | 2026
// repository.go

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Repository interface {
	Create(ctx context.Context, a *VideoAsset) error
	GetByID(ctx context.Context, id string) (*VideoAsset, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *VideoAsset) error {
	query := `
		INSERT INTO video_assets (
			id, storage_key, file_name, file_size, mime_type, duration, width,
			height, thumbnail_key, preview_key, is_processed, uploaded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID,
		a.StorageKey,
		a.FileName,
		a.FileSize,
		a.MimeType,
		a.Duration,
		a.Width,
		a.Height,
		a.ThumbnailKey,
		a.PreviewKey,
		a.IsProcessed,
		a.UploadedBy,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create video asset: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create video asset: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*VideoAsset, error) {
	query := `
		SELECT id, storage_key, file_name, file_size, mime_type, duration,
		       width, height, thumbnail_key, preview_key, is_processed,
		       uploaded_by, created_at, updated_at
		FROM video_assets
		WHERE id = $1`

	var a VideoAsset
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get video asset: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get video asset: %w", err)
	}

	return &a, nil
}

// Delete fails with ErrConflict while a product still references the asset.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM video_assets WHERE id = $1`, id)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("delete video asset: %w",
				core.ConflictError("Video asset is attached to a product", http.StatusConflict))
		}
		return fmt.Errorf("delete video asset: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete video asset: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete video asset: %w", core.ErrNotFound)
	}

	return nil
}
