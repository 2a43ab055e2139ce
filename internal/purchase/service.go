// AngelaMos | 2026
// service.go

package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/payment"
	"github.com/carterperez-dev/coursemarket/internal/product"
)

type ProductFinder interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Buyer is the authenticated caller starting a checkout.
type Buyer struct {
	UserID string
	Email  string
}

type Service struct {
	repo       Repository
	products   ProductFinder
	gateway    payment.Gateway
	feePercent int
	publicURL  string
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	products ProductFinder,
	gateway payment.Gateway,
	platform config.PlatformConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		gateway:    gateway,
		feePercent: platform.FeePercent,
		publicURL:  strings.TrimRight(platform.PublicURL, "/"),
		logger:     logger,
	}
}

// StartCheckout opens a hosted checkout for a published product the buyer
// does not already own and returns the redirect URL. No purchase row is
// written here; the webhook creates it.
func (s *Service) StartCheckout(
	ctx context.Context,
	buyer Buyer,
	productID string,
) (string, error) {
	ctx, span := core.StartSpan(ctx, "purchase.StartCheckout",
		attribute.String("product.id", productID))
	defer span.End()

	if buyer.UserID == "" {
		return "", core.UnauthorizedError("Authentication required")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}

	if !p.IsPublished() {
		return "", core.InvalidInputError("Product is not available for purchase")
	}

	owned, err := s.repo.HasCompleted(ctx, buyer.UserID, p.ID)
	if err != nil {
		return "", err
	}
	if owned {
		return "", core.ConflictError("You already own this product", http.StatusBadRequest)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ProductID:     p.ID,
		UserID:        buyer.UserID,
		Title:         p.Title,
		Description:   description(p),
		Amount:        p.Price,
		CustomerEmail: buyer.Email,
		SuccessURL:    s.publicURL + "/library?success=true",
		CancelURL:     s.publicURL + "/course/" + url.PathEscape(p.Slug) + "?canceled=true",
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return "", err
	}
	if sess.URL == "" {
		return "", core.UpstreamError(errors.New("checkout session has no redirect url"))
	}

	core.AddSpanEvent(ctx, "purchase.checkout_started",
		attribute.String("checkout.session_id", sess.ID))

	return sess.URL, nil
}

func description(p *product.Product) string {
	if strings.TrimSpace(p.Description) != "" {
		return p.Description
	}
	return p.Title
}

// HandleWebhook verifies and applies one gateway event. The ledger check, the
// purchase mutation and the ledger insert share one transaction. It returns
// an error only for an invalid signature or a storage failure worth a
// redelivery; events the domain cannot use are logged and acknowledged.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	ctx, span := core.StartSpan(ctx, "purchase.HandleWebhook",
		attribute.String("webhook.event_id", event.ID),
		attribute.String("webhook.event_type", event.Type))
	defer span.End()

	err = s.repo.InTx(ctx, func(repo Repository) error {
		if event.ID != "" {
			processed, err := repo.IsEventProcessed(ctx, event.ID)
			if err != nil {
				return err
			}
			if processed {
				s.logger.Info("webhook event already processed", "event_id", event.ID)
				return nil
			}
		}

		if err := s.apply(ctx, repo, event); err != nil {
			return err
		}

		if event.ID == "" {
			return nil
		}
		return repo.RecordEvent(ctx, event.ID, event.Type)
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	return nil
}

func (s *Service) apply(ctx context.Context, repo Repository, event *payment.Event) error {
	switch data := event.Data.(type) {
	case payment.CheckoutCompleted:
		return s.completeCheckout(ctx, repo, event, data)

	case payment.CheckoutExpired:
		if !data.Metadata.Complete() {
			s.skip(ctx, event, "missing metadata")
			return nil
		}
		n, err := repo.FailExpiredSession(ctx,
			data.Metadata.UserID, data.Metadata.ProductID, data.SessionID)
		if err != nil {
			return err
		}
		s.reconciled(ctx, event, StatusFailed, n)

	case payment.PaymentFailed:
		if data.PaymentIntentID == "" {
			s.skip(ctx, event, "missing payment intent")
			return nil
		}
		n, err := repo.TransitionByPaymentIntent(ctx, data.PaymentIntentID, StatusFailed)
		if err != nil {
			return err
		}
		s.reconciled(ctx, event, StatusFailed, n)

	case payment.ChargeRefunded:
		if data.PaymentIntentID == "" {
			s.skip(ctx, event, "missing payment intent")
			return nil
		}
		n, err := repo.TransitionByPaymentIntent(ctx, data.PaymentIntentID, StatusRefunded)
		if err != nil {
			return err
		}
		s.reconciled(ctx, event, StatusRefunded, n)

	case payment.Unknown:
		if data.Err != nil {
			s.logger.Warn("webhook payload not decodable",
				"event_id", event.ID, "type", data.Type, "error", data.Err)
		} else {
			s.logger.Info("unhandled webhook event", "event_id", event.ID, "type", data.Type)
		}
		core.AddSpanEvent(ctx, "purchase.event_skipped")

	default:
		s.skip(ctx, event, "unrecognised event data")
	}

	return nil
}

func (s *Service) completeCheckout(
	ctx context.Context,
	repo Repository,
	event *payment.Event,
	data payment.CheckoutCompleted,
) error {
	if !data.Metadata.Complete() {
		s.skip(ctx, event, "missing metadata")
		return nil
	}

	p, err := s.products.GetByID(ctx, data.Metadata.ProductID)
	if errors.Is(err, core.ErrNotFound) {
		s.skip(ctx, event, "product not found")
		return nil
	}
	if err != nil {
		return err
	}

	amount := data.AmountTotal
	if amount <= 0 {
		amount = p.Price
	}
	fee, payout := SplitAmount(amount, s.feePercent)

	purchase := &Purchase{
		ID:              uuid.NewString(),
		UserID:          data.Metadata.UserID,
		ProductID:       p.ID,
		StripeSessionID: data.SessionID,
		Amount:          amount,
		PlatformFee:     fee,
		CreatorPayout:   payout,
	}
	if data.PaymentIntentID != "" {
		pi := data.PaymentIntentID
		purchase.StripePaymentIntentID = &pi
	}

	err = repo.UpsertCompleted(ctx, purchase)
	switch {
	case errors.Is(err, ErrStaleEvent):
		s.skip(ctx, event, "purchase already closed by this session")
		return nil
	case errors.Is(err, core.ErrNotFound):
		s.skip(ctx, event, "buyer not found")
		return nil
	case err != nil:
		return err
	}

	s.reconciled(ctx, event, StatusCompleted, 1)
	return nil
}

func (s *Service) skip(ctx context.Context, event *payment.Event, reason string) {
	s.logger.Warn("webhook event skipped",
		"event_id", event.ID, "type", event.Type, "reason", reason)
	core.AddSpanEvent(ctx, "purchase.event_skipped", attribute.String("reason", reason))
}

func (s *Service) reconciled(ctx context.Context, event *payment.Event, to Status, rows int64) {
	s.logger.Info("webhook event applied",
		"event_id", event.ID, "type", event.Type, "status", to, "rows", rows)
	core.AddSpanEvent(ctx, "purchase.reconciled",
		attribute.String("purchase.status", string(to)),
		attribute.Int64("purchase.rows", rows))
}

func (s *Service) HasCompletedPurchase(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return s.repo.HasCompleted(ctx, userID, productID)
}

func (s *Service) Library(ctx context.Context, userID string) ([]LibraryItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("library: %w", core.ErrUnauthorized)
	}
	return s.repo.Library(ctx, userID)
}

func (s *Service) PlatformTotals(ctx context.Context) (*Totals, error) {
	rows, err := s.repo.TotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []StatusTotal{}
	}

	totals := &Totals{ByStatus: rows}
	for _, row := range rows {
		if row.Status != StatusCompleted {
			continue
		}
		totals.Gross += row.Gross
		totals.PlatformFees += row.PlatformFees
		totals.CreatorPayout += row.CreatorPayout
	}

	return totals, nil
}
