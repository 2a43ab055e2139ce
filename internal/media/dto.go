// AngelaMos | 2026
// dto.go

package media

import (
	"time"
)

type UploadURLRequest struct {
	FileName   string `json:"fileName"   validate:"required,max=255"`
	FileType   string `json:"fileType"   validate:"required"`
	FileSize   int64  `json:"fileSize"   validate:"required,gt=0"`
	UploadType string `json:"uploadType" validate:"required,oneof=video thumbnail preview"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
}

type RegisterAssetRequest struct {
	StorageKey   string  `json:"storageKey"             validate:"required,max=512"`
	FileName     string  `json:"fileName"               validate:"required,max=255"`
	FileSize     int64   `json:"fileSize"               validate:"required,gt=0"`
	MimeType     string  `json:"mimeType"               validate:"required"`
	Duration     *int    `json:"duration,omitempty"     validate:"omitempty,min=0"`
	Width        *int    `json:"width,omitempty"        validate:"omitempty,min=0"`
	Height       *int    `json:"height,omitempty"       validate:"omitempty,min=0"`
	ThumbnailKey *string `json:"thumbnailKey,omitempty" validate:"omitempty,max=512"`
	PreviewKey   *string `json:"previewKey,omitempty"   validate:"omitempty,max=512"`
}

type AssetResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	MimeType    string    `json:"mimeType"`
	Duration    *int      `json:"duration"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	IsProcessed bool      `json:"isProcessed"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VideoURLResponse struct {
	URL string `json:"url"`
}

func ToAssetResponse(a *VideoAsset) AssetResponse {
	return AssetResponse{
		ID:          a.ID,
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		MimeType:    a.MimeType,
		Duration:    a.Duration,
		Width:       a.Width,
		Height:      a.Height,
		IsProcessed: a.IsProcessed,
		CreatedAt:   a.CreatedAt,
	}
}
