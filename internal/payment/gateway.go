// AngelaMos | 2026
// gateway.go

package payment

import (
	"context"
)

// Gateway is the hosted checkout provider. Payment state only ever reaches
// the domain through verified webhook events.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

type CheckoutRequest struct {
	ProductID     string
	UserID        string
	Title         string
	Description   string
	Amount        int64
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Metadata is the correlation data attached to every checkout session. It is
// the only way a webhook event can be traced back to a buyer and a product.
type Metadata struct {
	ProductID string
	UserID    string
}

func (m Metadata) Complete() bool {
	return m.ProductID != "" && m.UserID != ""
}

type Event struct {
	ID   string
	Type string
	Data EventData
}

// EventData is one of CheckoutCompleted, CheckoutExpired, PaymentFailed,
// ChargeRefunded or Unknown.
type EventData interface {
	isEventData()
}

type CheckoutCompleted struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	Metadata        Metadata
}

type CheckoutExpired struct {
	SessionID string
	Metadata  Metadata
}

type PaymentFailed struct {
	PaymentIntentID string
}

type ChargeRefunded struct {
	PaymentIntentID string
}

// Unknown covers event types the domain does not handle and known types whose
// payload could not be decoded.
type Unknown struct {
	Type string
	Err  error
}

func (CheckoutCompleted) isEventData() {}
func (CheckoutExpired) isEventData()   {}
func (PaymentFailed) isEventData()     {}
func (ChargeRefunded) isEventData()    {}
func (Unknown) isEventData()           {}
