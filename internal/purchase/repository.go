// AngelaMos | 2026
// repository.go

package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

// ErrStaleEvent marks a completed-checkout event that would regress a
// purchase already failed or refunded by the same checkout session.
var ErrStaleEvent = errors.New("stale purchase event")

type Repository interface {
	UpsertCompleted(ctx context.Context, p *Purchase) error
	FailExpiredSession(ctx context.Context, userID, productID, sessionID string) (int64, error)
	TransitionByPaymentIntent(ctx context.Context, paymentIntentID string, to Status) (int64, error)
	HasCompleted(ctx context.Context, userID, productID string) (bool, error)
	Library(ctx context.Context, userID string) ([]LibraryItem, error)
	TotalsByStatus(ctx context.Context) ([]StatusTotal, error)
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	RecordEvent(ctx context.Context, eventID, eventType string) error
	InTx(ctx context.Context, fn func(Repository) error) error
}

type repository struct {
	db   core.DBTX
	pool *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, pool: db}
}

// WithTx binds a repository to an open transaction. InTx on the result joins
// that transaction instead of starting another.
func WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

// InTx runs fn against a repository bound to one transaction, committing
// when fn returns nil and rolling back otherwise.
func (r *repository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return core.InTx(ctx, r.pool, func(tx *sqlx.Tx) error {
		return fn(WithTx(tx))
	})
}

var allStatuses = []Status{StatusPending, StatusCompleted, StatusFailed, StatusRefunded}

// sourcesFor lists the statuses a purchase may move to `to` from in a single
// update, including `to` itself where re-application is a no-op.
func sourcesFor(to Status) pq.StringArray {
	var out pq.StringArray
	for _, from := range allStatuses {
		ok := CanTransition(from, to)
		if to == StatusRefunded {
			ok = CanRefund(from)
		}
		if ok {
			out = append(out, string(from))
		}
	}
	return out
}

// UpsertCompleted records a completed checkout in one statement keyed by
// (user_id, product_id). An existing row is overwritten and forced to
// COMPLETED unless it already left the lifecycle (failed or refunded) under
// the same checkout session, in which case ErrStaleEvent is returned.
func (r *repository) UpsertCompleted(ctx context.Context, p *Purchase) error {
	query := `
		INSERT INTO purchases (
			id, user_id, product_id, stripe_session_id, stripe_payment_intent_id,
			amount, platform_fee, creator_payout, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET stripe_session_id = EXCLUDED.stripe_session_id,
		    stripe_payment_intent_id = EXCLUDED.stripe_payment_intent_id,
		    amount = EXCLUDED.amount,
		    platform_fee = EXCLUDED.platform_fee,
		    creator_payout = EXCLUDED.creator_payout,
		    status = EXCLUDED.status,
		    updated_at = NOW()
		WHERE purchases.status = ANY($10)
		   OR purchases.stripe_session_id IS DISTINCT FROM EXCLUDED.stripe_session_id
		RETURNING id, status, created_at, updated_at`

	err := r.savepoint(ctx, "upsert_purchase", func() error {
		return r.db.GetContext(ctx, p, query,
			p.ID,
			p.UserID,
			p.ProductID,
			p.StripeSessionID,
			p.StripePaymentIntentID,
			p.Amount,
			p.PlatformFee,
			p.CreatorPayout,
			StatusCompleted,
			sourcesFor(StatusCompleted),
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("upsert purchase: %w", ErrStaleEvent)
	}
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("upsert purchase: %w", core.ErrNotFound)
		}
		return fmt.Errorf("upsert purchase: %w", err)
	}

	return nil
}

// savepoint guards fn inside a transaction so a constraint violation the
// caller treats as a skip does not abort the rest of the transaction.
// Outside a transaction fn runs as is.
func (r *repository) savepoint(ctx context.Context, name string, fn func() error) error {
	if r.pool != nil {
		return fn()
	}

	if _, err := r.db.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := r.db.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint %s: %w (original: %w)", name, rbErr, err)
		}
		return err
	}

	if _, err := r.db.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}
	return nil
}

func (r *repository) FailExpiredSession(
	ctx context.Context,
	userID, productID, sessionID string,
) (int64, error) {
	query := `
		UPDATE purchases
		SET status = $4, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2 AND stripe_session_id = $3
		  AND status = $5`

	return r.exec(ctx, "fail expired session", query,
		userID, productID, sessionID, StatusFailed, StatusPending)
}

func (r *repository) TransitionByPaymentIntent(
	ctx context.Context,
	paymentIntentID string,
	to Status,
) (int64, error) {
	query := `
		UPDATE purchases
		SET status = $2, updated_at = NOW()
		WHERE stripe_payment_intent_id = $1
		  AND status <> $2
		  AND status = ANY($3)`

	return r.exec(ctx, "transition purchase", query,
		paymentIntentID, to, sourcesFor(to))
}

func (r *repository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return rows, nil
}

func (r *repository) HasCompleted(
	ctx context.Context,
	userID, productID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM purchases
			WHERE user_id = $1 AND product_id = $2 AND status = $3
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, productID, StatusCompleted); err != nil {
		return false, fmt.Errorf("check purchase: %w", err)
	}

	return exists, nil
}

func (r *repository) Library(ctx context.Context, userID string) ([]LibraryItem, error) {
	query := `
		SELECT pu.id AS purchase_id, pu.created_at AS purchased_at, pu.amount,
		       p.id AS product_id, p.title, p.slug, p.short_description, p.type,
		       p.level, p.thumbnail_url, p.total_duration, p.lesson_count,
		       c.id AS creator_id, c.display_name AS creator_display_name
		FROM purchases pu
		JOIN products p ON p.id = pu.product_id
		JOIN creator_profiles c ON c.id = p.creator_id
		WHERE pu.user_id = $1 AND pu.status = $2
		ORDER BY pu.created_at DESC`

	var items []LibraryItem
	if err := r.db.SelectContext(ctx, &items, query, userID, StatusCompleted); err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}

	return items, nil
}

func (r *repository) TotalsByStatus(ctx context.Context) ([]StatusTotal, error) {
	query := `
		SELECT status, COUNT(*) AS count,
		       COALESCE(SUM(amount), 0) AS gross,
		       COALESCE(SUM(platform_fee), 0) AS platform_fees,
		       COALESCE(SUM(creator_payout), 0) AS creator_payout
		FROM purchases
		GROUP BY status
		ORDER BY status`

	var totals []StatusTotal
	if err := r.db.SelectContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("purchase totals: %w", err)
	}

	return totals, nil
}

func (r *repository) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM webhook_events WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventID); err != nil {
		return false, fmt.Errorf("check webhook event: %w", err)
	}

	return exists, nil
}

func (r *repository) RecordEvent(ctx context.Context, eventID, eventType string) error {
	query := `
		INSERT INTO webhook_events (id, type)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, eventID, eventType); err != nil {
		return fmt.Errorf("record webhook event: %w", err)
	}

	return nil
}
