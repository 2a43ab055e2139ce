// AngelaMos | 2026
// dto.go

package purchase

import (
	"time"
)

type CheckoutRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type LibraryProduct struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	ShortDescription *string `json:"shortDescription"`
	Type             string  `json:"type"`
	Level            string  `json:"level"`
	ThumbnailURL     *string `json:"thumbnailUrl"`
	TotalDuration    *int    `json:"totalDuration"`
	LessonCount      int     `json:"lessonCount"`
	CreatorID        string  `json:"creatorId"`
	CreatorName      string  `json:"creatorName"`
}

type LibraryEntry struct {
	PurchaseID  string         `json:"purchaseId"`
	PurchasedAt time.Time      `json:"purchasedAt"`
	Amount      int64          `json:"amount"`
	Product     LibraryProduct `json:"product"`
}

func ToLibraryEntries(items []LibraryItem) []LibraryEntry {
	out := make([]LibraryEntry, 0, len(items))
	for _, it := range items {
		out = append(out, LibraryEntry{
			PurchaseID:  it.PurchaseID,
			PurchasedAt: it.PurchasedAt,
			Amount:      it.Amount,
			Product: LibraryProduct{
				ID:               it.ProductID,
				Title:            it.Title,
				Slug:             it.Slug,
				ShortDescription: it.ShortDescription,
				Type:             it.Type,
				Level:            it.Level,
				ThumbnailURL:     it.ThumbnailURL,
				TotalDuration:    it.TotalDuration,
				LessonCount:      it.LessonCount,
				CreatorID:        it.CreatorID,
				CreatorName:      it.CreatorDisplayName,
			},
		})
	}
	return out
}
