// AngelaMos | 2026
// entity.go

package creator

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Profile struct {
	ID              string      `db:"id"`
	UserID          string      `db:"user_id"`
	DisplayName     string      `db:"display_name"`
	Bio             *string     `db:"bio"`
	AvatarURL       *string     `db:"avatar_url"`
	Website         *string     `db:"website"`
	SocialLinks     SocialLinks `db:"social_links"`
	StripeAccountID *string     `db:"stripe_account_id"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

// SocialLinks is stored as a JSONB object. Unknown keys in stored data are
// dropped on read.
type SocialLinks struct {
	Twitter    *string `json:"twitter,omitempty"    validate:"omitempty,url,max=255"`
	Instagram  *string `json:"instagram,omitempty"  validate:"omitempty,url,max=255"`
	Soundcloud *string `json:"soundcloud,omitempty" validate:"omitempty,url,max=255"`
	Youtube    *string `json:"youtube,omitempty"    validate:"omitempty,url,max=255"`
}

func (s SocialLinks) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal social links: %w", err)
	}
	return b, nil
}

func (s *SocialLinks) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SocialLinks{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan social links: unsupported type %T", src)
	}

	var links SocialLinks
	if err := json.Unmarshal(raw, &links); err != nil {
		return fmt.Errorf("scan social links: %w", err)
	}
	*s = links
	return nil
}
