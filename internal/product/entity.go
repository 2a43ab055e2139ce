// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/lib/pq"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"

	TypeLesson = "LESSON"
	TypeCourse = "COURSE"

	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
	LevelAllLevels    = "ALL_LEVELS"

	MinPrice = 99
	MaxPrice = 99999
)

type Product struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Slug             string         `db:"slug"`
	Description      string         `db:"description"`
	ShortDescription *string        `db:"short_description"`
	Price            int64          `db:"price"`
	Type             string         `db:"type"`
	Level            string         `db:"level"`
	Status           string         `db:"status"`
	Tags             pq.StringArray `db:"tags"`
	CreatorID        string         `db:"creator_id"`
	CategoryID       *string        `db:"category_id"`
	VideoAssetID     *string        `db:"video_asset_id"`
	ThumbnailURL     *string        `db:"thumbnail_url"`
	PreviewURL       *string        `db:"preview_url"`
	TotalDuration    *int           `db:"total_duration"`
	LessonCount      int            `db:"lesson_count"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`

	CreatorUserID      string  `db:"creator_user_id"`
	CreatorDisplayName string  `db:"creator_display_name"`
	CreatorAvatarURL   *string `db:"creator_avatar_url"`
	CategoryName       *string `db:"category_name"`
	CategorySlug       *string `db:"category_slug"`
	VideoDuration      *int    `db:"video_duration"`
}

func (p *Product) IsPublished() bool {
	return p.Status == StatusPublished
}

func (p *Product) HasVideo() bool {
	return p.VideoAssetID != nil && *p.VideoAssetID != ""
}

// OwnedBy reports whether userID is the account behind the product's
// creator profile.
func (p *Product) OwnedBy(userID string) bool {
	return userID != "" && p.CreatorUserID == userID
}

// Summary is a product row annotated with its purchase count, as shown on
// the creator's own product list.
type Summary struct {
	Product
	PurchaseCount int `db:"purchase_count"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
