// AngelaMos | 2026
// stripe.go

package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/carterperez-dev/coursemarket/internal/config"
	"github.com/carterperez-dev/coursemarket/internal/core"
)

const (
	metadataProductID = "productId"
	metadataUserID    = "userId"

	maxDescriptionLen = 500
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
}

func NewStripeGateway(cfg config.StripeConfig, currency string) *StripeGateway {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &StripeGateway{
		api:           client.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
	}
}

func (g *StripeGateway) CreateCheckoutSession(
	ctx context.Context,
	req CheckoutRequest,
) (*CheckoutSession, error) {
	params := checkoutParams(req, g.currency)
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", core.UpstreamError(err))
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func checkoutParams(req CheckoutRequest, currency string) *stripe.CheckoutSessionParams {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.Title),
	}
	if desc := truncate(req.Description, maxDescriptionLen); desc != "" {
		productData.Description = stripe.String(desc)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(currency),
					ProductData: productData,
					UnitAmount:  stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.UserID),
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	params.AddMetadata(metadataProductID, req.ProductID)
	params.AddMetadata(metadataUserID, req.UserID)

	return params
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", core.InvalidSignatureError())
	}

	return toEvent(event), nil
}

func toEvent(event stripe.Event) *Event {
	out := &Event{ID: event.ID, Type: string(event.Type)}

	if event.Data == nil {
		out.Data = Unknown{Type: out.Type}
		return out
	}
	raw := event.Data.Raw

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			out.Data = Unknown{Type: out.Type, Err: err}
			return out
		}
		out.Data = CheckoutCompleted{
			SessionID:       sess.ID,
			PaymentIntentID: paymentIntentID(sess.PaymentIntent),
			AmountTotal:     sess.AmountTotal,
			Metadata:        metadataFrom(sess.Metadata),
		}

	case stripe.EventTypeCheckoutSessionExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			out.Data = Unknown{Type: out.Type, Err: err}
			return out
		}
		out.Data = CheckoutExpired{
			SessionID: sess.ID,
			Metadata:  metadataFrom(sess.Metadata),
		}

	case stripe.EventTypePaymentIntentPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(raw, &pi); err != nil {
			out.Data = Unknown{Type: out.Type, Err: err}
			return out
		}
		out.Data = PaymentFailed{PaymentIntentID: pi.ID}

	case stripe.EventTypeChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(raw, &charge); err != nil {
			out.Data = Unknown{Type: out.Type, Err: err}
			return out
		}
		out.Data = ChargeRefunded{PaymentIntentID: paymentIntentID(charge.PaymentIntent)}

	default:
		out.Data = Unknown{Type: out.Type}
	}

	return out
}

func metadataFrom(m map[string]string) Metadata {
	return Metadata{
		ProductID: m[metadataProductID],
		UserID:    m[metadataUserID],
	}
}

func paymentIntentID(pi *stripe.PaymentIntent) string {
	if pi == nil {
		return ""
	}
	return pi.ID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var _ Gateway = (*StripeGateway)(nil)
