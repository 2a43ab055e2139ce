// AngelaMos | 2026
// entity.go

package purchase

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

// CanTransition encodes the purchase lifecycle. Re-applying the current
// status is allowed so redelivered events stay no-ops.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}

	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusFailed
	case StatusCompleted:
		return to == StatusRefunded
	}
	return false
}

// CanRefund is the one override of the lifecycle: a refund lands on any
// purchase that is not already refunded.
func CanRefund(from Status) bool {
	return from != StatusRefunded
}

type Purchase struct {
	ID                    string    `db:"id"`
	UserID                string    `db:"user_id"`
	ProductID             string    `db:"product_id"`
	StripeSessionID       string    `db:"stripe_session_id"`
	StripePaymentIntentID *string   `db:"stripe_payment_intent_id"`
	Amount                int64     `db:"amount"`
	PlatformFee           int64     `db:"platform_fee"`
	CreatorPayout         int64     `db:"creator_payout"`
	Status                Status    `db:"status"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

// LibraryItem is a completed purchase joined with the product it unlocks.
type LibraryItem struct {
	PurchaseID         string    `db:"purchase_id"`
	PurchasedAt        time.Time `db:"purchased_at"`
	Amount             int64     `db:"amount"`
	ProductID          string    `db:"product_id"`
	Title              string    `db:"title"`
	Slug               string    `db:"slug"`
	ShortDescription   *string   `db:"short_description"`
	Type               string    `db:"type"`
	Level              string    `db:"level"`
	ThumbnailURL       *string   `db:"thumbnail_url"`
	TotalDuration      *int      `db:"total_duration"`
	LessonCount        int       `db:"lesson_count"`
	CreatorID          string    `db:"creator_id"`
	CreatorDisplayName string    `db:"creator_display_name"`
}

type StatusTotal struct {
	Status        Status `db:"status"         json:"status"`
	Count         int64  `db:"count"          json:"count"`
	Gross         int64  `db:"gross"          json:"gross"`
	PlatformFees  int64  `db:"platform_fees"  json:"platformFees"`
	CreatorPayout int64  `db:"creator_payout" json:"creatorPayout"`
}

type Totals struct {
	ByStatus      []StatusTotal `json:"byStatus"`
	Gross         int64         `json:"gross"`
	PlatformFees  int64         `json:"platformFees"`
	CreatorPayout int64         `json:"creatorPayout"`
}
