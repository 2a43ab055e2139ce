// AngelaMos | 2026
// repository.go

package creator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Repository interface {
	Ensure(ctx context.Context, id, userID, displayName string) (string, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const profileColumns = `
	id, user_id, display_name, bio, avatar_url, website, social_links,
	stripe_account_id, created_at, updated_at`

// Ensure inserts a profile unless the user already has one and returns the
// surviving row's id. Concurrent callers converge on the same row through
// the unique user_id constraint.
func (r *repository) Ensure(
	ctx context.Context,
	id, userID, displayName string,
) (string, error) {
	query := `
		WITH inserted AS (
			INSERT INTO creator_profiles (id, user_id, display_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING id
		)
		SELECT id FROM inserted
		UNION ALL
		SELECT id FROM creator_profiles WHERE user_id = $2
		LIMIT 1`

	var profileID string
	if err := r.db.GetContext(ctx, &profileID, query, id, userID, displayName); err != nil {
		return "", fmt.Errorf("ensure creator profile: %w", err)
	}

	return profileID, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM creator_profiles
		WHERE id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get creator profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get creator profile: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM creator_profiles
		WHERE user_id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get creator profile by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get creator profile by user: %w", err)
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	query := `
		UPDATE creator_profiles
		SET display_name = $2, bio = $3, avatar_url = $4, website = $5,
		    social_links = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &p.UpdatedAt, query,
		p.ID,
		p.DisplayName,
		p.Bio,
		p.AvatarURL,
		p.Website,
		p.SocialLinks,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update creator profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update creator profile: %w", err)
	}

	return nil
}
