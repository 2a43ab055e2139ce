// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

// Repository persists refresh token sessions. Each login opens a family and
// every rotation appends to it.
type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveSessionsForUser(
		ctx context.Context,
		userID string,
	) ([]RefreshToken, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

const sessionColumns = `
	id, user_id, token_hash, family_id, expires_at, created_at,
	is_used, used_at, revoked_at, replaced_by_id, user_agent, ip_address`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at,
			user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.FamilyID,
		token.ExpiresAt,
		token.UserAgent,
		token.IPAddress,
	); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	return r.findOne(ctx, "token_hash", tokenHash)
}

func (r *repository) FindByID(
	ctx context.Context,
	id string,
) (*RefreshToken, error) {
	return r.findOne(ctx, "id", id)
}

func (r *repository) findOne(
	ctx context.Context,
	column, value string,
) (*RefreshToken, error) {
	query := `SELECT` + sessionColumns + `
		FROM refresh_tokens
		WHERE ` + column + ` = $1`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find session by %s: %w", column, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session by %s: %w", column, err)
	}

	return &token, nil
}

// MarkAsUsed consumes a token during rotation. A second consumption of the
// same token matches no row and reports ErrNotFound.
func (r *repository) MarkAsUsed(
	ctx context.Context,
	id, replacedByID string,
) error {
	const query = `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`

	n, err := r.exec(ctx, query, id, replacedByID)
	if err != nil {
		return fmt.Errorf("consume session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("consume session: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	n, err := r.revokeWhere(ctx, "id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) RevokeByFamilyID(
	ctx context.Context,
	familyID string,
) error {
	_, err := r.revokeWhere(ctx, "family_id", familyID)
	return err
}

func (r *repository) RevokeAllForUser(
	ctx context.Context,
	userID string,
) error {
	_, err := r.revokeWhere(ctx, "user_id", userID)
	return err
}

func (r *repository) revokeWhere(
	ctx context.Context,
	column, value string,
) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE ` + column + ` = $1 AND revoked_at IS NULL`

	n, err := r.exec(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions by %s: %w", column, err)
	}

	return n, nil
}

func (r *repository) GetActiveSessionsForUser(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	query := `SELECT` + sessionColumns + `
		FROM refresh_tokens
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`

	tokens := []RefreshToken{}
	if err := r.db.SelectContext(ctx, &tokens, query, userID); err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}

	return tokens, nil
}

// DeleteExpired removes sessions that expired before cutoff, whatever their
// revocation state.
func (r *repository) DeleteExpired(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < $1`

	n, err := r.exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}

	return n, nil
}

func (r *repository) exec(
	ctx context.Context,
	query string,
	args ...any,
) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
