// AngelaMos | 2026
// entity.go

package media

import (
	"time"
)

// VideoAsset points at an uploaded object. StorageKey never leaves the
// server; clients only ever receive signed URLs derived from it.
type VideoAsset struct {
	ID           string    `db:"id"`
	StorageKey   string    `db:"storage_key"`
	FileName     string    `db:"file_name"`
	FileSize     int64     `db:"file_size"`
	MimeType     string    `db:"mime_type"`
	Duration     *int      `db:"duration"`
	Width        *int      `db:"width"`
	Height       *int      `db:"height"`
	ThumbnailKey *string   `db:"thumbnail_key"`
	PreviewKey   *string   `db:"preview_key"`
	IsProcessed  bool      `db:"is_processed"`
	UploadedBy   string    `db:"uploaded_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
