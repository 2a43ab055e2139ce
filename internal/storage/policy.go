// AngelaMos | 2026
// policy.go

package storage

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Purpose string

const (
	PurposeVideo     Purpose = "video"
	PurposePreview   Purpose = "preview"
	PurposeThumbnail Purpose = "thumbnail"
)

const (
	MiB = int64(1024 * 1024)
	GiB = 1024 * MiB
)

var (
	videoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
	imageTypes = []string{"image/jpeg", "image/png", "image/webp"}
)

func ParsePurpose(s string) (Purpose, error) {
	switch p := Purpose(s); p {
	case PurposeVideo, PurposePreview, PurposeThumbnail:
		return p, nil
	}
	return "", core.InvalidInputError(
		"Invalid upload type. Allowed types: video, preview, thumbnail",
	)
}

func (p Purpose) AllowedTypes() []string {
	if p == PurposeThumbnail {
		return imageTypes
	}
	return videoTypes
}

func (p Purpose) MaxSize() int64 {
	switch p {
	case PurposeVideo:
		return 5 * GiB
	case PurposePreview:
		return 500 * MiB
	default:
		return 10 * MiB
	}
}

func (p Purpose) prefix() string {
	switch p {
	case PurposeVideo:
		return "videos"
	case PurposePreview:
		return "previews"
	default:
		return "thumbnails"
	}
}

// KeyPrefix is the namespace a user's uploads of this purpose live under.
func (p Purpose) KeyPrefix(userID string) string {
	return p.prefix() + "/" + userID + "/"
}

type UploadRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Purpose     Purpose
	UserID      string
}

// UploadObject is a validated upload: where the object goes and the exact
// headers the signed PUT will require.
type UploadObject struct {
	Key         string
	ContentType string
	Size        int64
}

// PlanUpload validates declared metadata against the purpose's policy and
// assigns the storage key. Declared values are what the presigned request
// binds; the bytes themselves are never inspected.
func PlanUpload(req UploadRequest, now time.Time) (UploadObject, error) {
	allowed := req.Purpose.AllowedTypes()
	if !slices.Contains(allowed, req.ContentType) {
		return UploadObject{}, core.InvalidInputError(
			"Invalid file type. Allowed types: " + strings.Join(allowed, ", "),
		)
	}

	limit := req.Purpose.MaxSize()
	if req.Size <= 0 {
		return UploadObject{}, core.InvalidInputError("File size must be positive")
	}
	if req.Size > limit {
		return UploadObject{}, core.InvalidInputError(
			fmt.Sprintf("File too large. Maximum size: %dMB", limit/MiB),
		)
	}

	if req.UserID == "" {
		return UploadObject{}, fmt.Errorf("plan upload: missing uploader: %w", core.ErrInvalidInput)
	}

	key := fmt.Sprintf(
		"%s%d-%s",
		req.Purpose.KeyPrefix(req.UserID),
		now.UnixMilli(),
		SanitizeFileName(req.FileName),
	)

	return UploadObject{
		Key:         key,
		ContentType: req.ContentType,
		Size:        req.Size,
	}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func SanitizeFileName(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "_")
}
