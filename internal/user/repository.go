// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
	GetTokenVersion(ctx context.Context, id string) (int, error)
}

const accountColumns = `
	id, email, password_hash, name, role, token_version,
	created_at, updated_at, deleted_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, token_version`

	err := r.db.GetContext(ctx, user, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Role,
	)
	if core.IsUniqueViolation(err) {
		return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, "get account", `WHERE id = $1 AND deleted_at IS NULL`, id)
}

// GetByEmail expects an already normalized address.
func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.getOne(ctx, "get account by email", `WHERE email = $1 AND deleted_at IS NULL`, email)
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	args ...any,
) (*User, error) {
	query := `SELECT` + accountColumns + ` FROM users ` + where

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	const query = `
		UPDATE users
		SET name = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query, user.ID, user.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update account: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return r.touch(ctx, "update password", `password_hash = $2`, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(
	ctx context.Context,
	id string,
) error {
	return r.touch(ctx, "increment token version", `token_version = token_version + 1`, id)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.touch(ctx, "delete account", `deleted_at = NOW()`, id)
}

// touch applies set to one live account and stamps updated_at. The account
// id is always $1.
func (r *repository) touch(
	ctx context.Context,
	op, set string,
	args ...any,
) error {
	query := `
		UPDATE users
		SET ` + set + `, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where, args := listFilter(params)

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM users `+where, args...,
	); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, email, name, role, token_version,
		       created_at, updated_at, deleted_at
		FROM users
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query,
		append(args, params.PageSize, params.Offset())...,
	); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return users, total, nil
}

func listFilter(params ListUsersParams) (string, []any) {
	conditions := []string{"deleted_at IS NULL"}
	var args []any

	if params.Search != "" {
		args = append(args, "%"+escapeLike(params.Search)+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}

	if params.Role != "" {
		args = append(args, params.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// UpdateRole changes the role and bumps the token version so access tokens
// carrying the previous role stop verifying.
func (r *repository) UpdateRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	query := `
		UPDATE users
		SET role = $2, token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING` + accountColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	return &user, nil
}

func (r *repository) GetTokenVersion(ctx context.Context, id string) (int, error) {
	const query = `SELECT token_version FROM users WHERE id = $1 AND deleted_at IS NULL`

	var version int
	err := r.db.GetContext(ctx, &version, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get token version: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get token version: %w", err)
	}

	return version, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
