// AngelaMos | 2026
// service_test.go

package purchase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/payment"
	"github.com/carterperez-dev/coursemarket/internal/product"
)

type pairKey struct{ user, product string }

// memRepo mirrors the constraint and guard semantics of the SQL repository.
type memRepo struct {
	rows   map[pairKey]*Purchase
	events map[string]string
	fail   error
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[pairKey]*Purchase{}, events: map[string]string{}}
}

func (m *memRepo) UpsertCompleted(_ context.Context, p *Purchase) error {
	if m.fail != nil {
		return m.fail
	}
	key := pairKey{p.UserID, p.ProductID}
	existing, ok := m.rows[key]
	if ok {
		sameSession := existing.StripeSessionID == p.StripeSessionID
		if !slices.Contains(sourcesFor(StatusCompleted), string(existing.Status)) && sameSession {
			return ErrStaleEvent
		}
		p.ID = existing.ID
	}
	cp := *p
	cp.Status = StatusCompleted
	m.rows[key] = &cp
	p.Status = StatusCompleted
	return nil
}

func (m *memRepo) FailExpiredSession(_ context.Context, userID, productID, sessionID string) (int64, error) {
	row, ok := m.rows[pairKey{userID, productID}]
	if !ok || row.StripeSessionID != sessionID || row.Status != StatusPending {
		return 0, nil
	}
	row.Status = StatusFailed
	return 1, nil
}

func (m *memRepo) TransitionByPaymentIntent(_ context.Context, pi string, to Status) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.StripePaymentIntentID == nil || *row.StripePaymentIntentID != pi || row.Status == to {
			continue
		}
		if slices.Contains(sourcesFor(to), string(row.Status)) {
			row.Status = to
			n++
		}
	}
	return n, nil
}

func (m *memRepo) HasCompleted(_ context.Context, userID, productID string) (bool, error) {
	row, ok := m.rows[pairKey{userID, productID}]
	return ok && row.Status == StatusCompleted, nil
}

func (m *memRepo) Library(context.Context, string) ([]LibraryItem, error) {
	return nil, nil
}

func (m *memRepo) TotalsByStatus(context.Context) ([]StatusTotal, error) {
	byStatus := map[Status]*StatusTotal{}
	for _, row := range m.rows {
		t, ok := byStatus[row.Status]
		if !ok {
			t = &StatusTotal{Status: row.Status}
			byStatus[row.Status] = t
		}
		t.Count++
		t.Gross += row.Amount
		t.PlatformFees += row.PlatformFee
		t.CreatorPayout += row.CreatorPayout
	}
	var out []StatusTotal
	for _, t := range byStatus {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memRepo) IsEventProcessed(_ context.Context, id string) (bool, error) {
	_, ok := m.events[id]
	return ok, nil
}

func (m *memRepo) RecordEvent(_ context.Context, id, typ string) error {
	m.events[id] = typ
	return nil
}

func (m *memRepo) InTx(_ context.Context, fn func(Repository) error) error {
	return fn(m)
}

type fakeProducts map[string]*product.Product

func (f fakeProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

// fakeGateway treats the payload as an event key and "bad" as a forged
// signature.
type fakeGateway struct {
	events   map[string]*payment.Event
	requests []payment.CheckoutRequest
	err      error
}

func (g *fakeGateway) CreateCheckoutSession(
	_ context.Context,
	req payment.CheckoutRequest,
) (*payment.CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req)
	return &payment.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.test/cs_1"}, nil
}

func (g *fakeGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	if signature == "bad" {
		return nil, core.InvalidSignatureError()
	}
	ev, ok := g.events[string(payload)]
	if !ok {
		return nil, errors.New("unexpected payload")
	}
	return ev, nil
}

const (
	buyerA   = "user-a"
	productP = "prod-p"
)

func completedEvent(id, session string) *payment.Event {
	return &payment.Event{
		ID:   id,
		Type: "checkout.session.completed",
		Data: payment.CheckoutCompleted{
			SessionID:       session,
			PaymentIntentID: "pi_" + session,
			AmountTotal:     4999,
			Metadata:        payment.Metadata{ProductID: productP, UserID: buyerA},
		},
	}
}

type fixture struct {
	svc     *Service
	repo    *memRepo
	gateway *fakeGateway
}

func newFixture() *fixture {
	repo := newMemRepo()
	gateway := &fakeGateway{events: map[string]*payment.Event{
		"completed":     completedEvent("evt_1", "cs_1"),
		"completed-dup": completedEvent("evt_1b", "cs_1"),
		"refunded": {
			ID:   "evt_2",
			Type: "charge.refunded",
			Data: payment.ChargeRefunded{PaymentIntentID: "pi_cs_1"},
		},
		"repurchase": completedEvent("evt_3", "cs_2"),
		"no-metadata": {
			ID:   "evt_4",
			Type: "checkout.session.completed",
			Data: payment.CheckoutCompleted{SessionID: "cs_9", AmountTotal: 4999},
		},
		"unknown-product": {
			ID:   "evt_5",
			Type: "checkout.session.completed",
			Data: payment.CheckoutCompleted{
				SessionID: "cs_8", AmountTotal: 4999,
				Metadata: payment.Metadata{ProductID: "gone", UserID: buyerA},
			},
		},
		"unknown-type": {
			ID:   "evt_6",
			Type: "customer.created",
			Data: payment.Unknown{Type: "customer.created"},
		},
	}}

	products := fakeProducts{
		productP: {ID: productP, Title: "Scratch", Slug: "scratch", Price: 4999, Status: product.StatusPublished},
		"draft":  {ID: "draft", Title: "WIP", Slug: "wip", Price: 999, Status: product.StatusDraft},
	}

	svc := NewService(repo, products, gateway, config.PlatformConfig{
		FeePercent: 15,
		PublicURL:  "http://localhost:3000/",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{svc: svc, repo: repo, gateway: gateway}
}

func (f *fixture) deliver(t *testing.T, payload string) {
	t.Helper()
	require.NoError(t, f.svc.HandleWebhook(context.Background(), []byte(payload), "sig"))
}

func (f *fixture) row() *Purchase {
	return f.repo.rows[pairKey{buyerA, productP}]
}

func TestCompletedCheckoutCreatesPurchase(t *testing.T) {
	f := newFixture()
	f.deliver(t, "completed")

	require.Len(t, f.repo.rows, 1)
	row := f.row()
	assert.Equal(t, StatusCompleted, row.Status)
	assert.Equal(t, int64(4999), row.Amount)
	assert.Equal(t, int64(750), row.PlatformFee)
	assert.Equal(t, int64(4249), row.CreatorPayout)
	assert.Equal(t, "cs_1", row.StripeSessionID)
}

func TestRedeliveredCheckoutKeepsOneRow(t *testing.T) {
	f := newFixture()
	f.deliver(t, "completed")
	first := *f.row()

	f.deliver(t, "completed")
	f.deliver(t, "completed-dup")

	require.Len(t, f.repo.rows, 1)
	assert.Equal(t, first, *f.row())
}

func TestRefundIsNotUndoneByStaleRedelivery(t *testing.T) {
	f := newFixture()
	f.deliver(t, "completed")
	f.deliver(t, "refunded")
	assert.Equal(t, StatusRefunded, f.row().Status)

	f.deliver(t, "completed-dup")
	assert.Equal(t, StatusRefunded, f.row().Status)

	owned, err := f.svc.HasCompletedPurchase(context.Background(), buyerA, productP)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestRepurchaseAfterRefund(t *testing.T) {
	f := newFixture()
	f.deliver(t, "completed")
	f.deliver(t, "refunded")
	f.deliver(t, "repurchase")

	require.Len(t, f.repo.rows, 1)
	assert.Equal(t, StatusCompleted, f.row().Status)
	assert.Equal(t, "cs_2", f.row().StripeSessionID)
}

func TestDomainSkipsAreAcknowledged(t *testing.T) {
	f := newFixture()
	f.deliver(t, "no-metadata")
	f.deliver(t, "unknown-product")
	f.deliver(t, "unknown-type")

	assert.Empty(t, f.repo.rows)
	assert.Contains(t, f.repo.events, "evt_4")
	assert.Contains(t, f.repo.events, "evt_6")
}

func TestProcessedEventIsNotReapplied(t *testing.T) {
	f := newFixture()
	f.repo.events["evt_1"] = "checkout.session.completed"

	f.deliver(t, "completed")
	assert.Empty(t, f.repo.rows)
}

func TestInvalidSignatureRejected(t *testing.T) {
	f := newFixture()
	err := f.svc.HandleWebhook(context.Background(), []byte("completed"), "bad")

	assert.ErrorIs(t, err, core.ErrInvalidSignature)
	assert.Empty(t, f.repo.rows)
}

func TestStorageFailureSurfacesForRedelivery(t *testing.T) {
	f := newFixture()
	f.repo.fail = errors.New("connection reset")

	err := f.svc.HandleWebhook(context.Background(), []byte("completed"), "sig")
	assert.Error(t, err)
	assert.NotContains(t, f.repo.events, "evt_1")
}

func TestStartCheckout(t *testing.T) {
	f := newFixture()

	checkoutURL, err := f.svc.StartCheckout(context.Background(),
		Buyer{UserID: buyerA, Email: "a@example.com"}, productP)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/cs_1", checkoutURL)

	require.Len(t, f.gateway.requests, 1)
	req := f.gateway.requests[0]
	assert.Equal(t, productP, req.ProductID)
	assert.Equal(t, buyerA, req.UserID)
	assert.Equal(t, int64(4999), req.Amount)
	assert.Equal(t, "http://localhost:3000/library?success=true", req.SuccessURL)
	assert.Equal(t, "http://localhost:3000/course/scratch?canceled=true", req.CancelURL)
	assert.Empty(t, f.repo.rows)
}

func TestCheckoutSendsFullDescription(t *testing.T) {
	f := newFixture()
	long := strings.Repeat("Beat juggling from first principles. ", 10)
	short := long[:150]
	f.svc.products = fakeProducts{productP: {
		ID: productP, Title: "Scratch", Slug: "scratch", Price: 4999,
		Status: product.StatusPublished, Description: long, ShortDescription: &short,
	}}

	_, err := f.svc.StartCheckout(context.Background(), Buyer{UserID: buyerA}, productP)
	require.NoError(t, err)
	assert.Equal(t, long, f.gateway.requests[0].Description)
}

func TestCheckoutDescriptionFallsBackToTitle(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartCheckout(context.Background(), Buyer{UserID: buyerA}, productP)
	require.NoError(t, err)
	assert.Equal(t, "Scratch", f.gateway.requests[0].Description)
}

func TestStartCheckoutPreconditions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartCheckout(ctx, Buyer{}, productP)
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = f.svc.StartCheckout(ctx, Buyer{UserID: buyerA}, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = f.svc.StartCheckout(ctx, Buyer{UserID: buyerA}, "draft")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	f.deliver(t, "completed")
	_, err = f.svc.StartCheckout(ctx, Buyer{UserID: buyerA}, productP)
	require.ErrorIs(t, err, core.ErrConflict)
	status, _ := core.StatusFor(err)
	assert.Equal(t, 400, status)

	assert.Empty(t, f.gateway.requests)
}

func TestPlatformTotalsCountCompletedOnly(t *testing.T) {
	f := newFixture()
	f.deliver(t, "completed")

	totals, err := f.svc.PlatformTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4999), totals.Gross)
	assert.Equal(t, int64(750), totals.PlatformFees)
	assert.Equal(t, int64(4249), totals.CreatorPayout)

	f.deliver(t, "refunded")
	totals, err = f.svc.PlatformTotals(context.Background())
	require.NoError(t, err)
	assert.Zero(t, totals.Gross)
	require.Len(t, totals.ByStatus, 1)
	assert.Equal(t, StatusRefunded, totals.ByStatus[0].Status)
}
