// AngelaMos | 2026
// handler.go

package purchase

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
)

const (
	maxWebhookBody  = int64(65536)
	signatureHeader = "Stripe-Signature"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts checkout and library behind authenticator.
// checkoutLimits run after authentication so they can key by user.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	checkoutLimits ...func(http.Handler) http.Handler,
) {
	r.Post("/webhooks/stripe", h.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.With(checkoutLimits...).Post("/checkout", h.Checkout)
		r.Get("/library", h.Library)
	})
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	buyer := Buyer{UserID: middleware.GetUserID(r.Context())}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		buyer.Email = claims.Email
	}

	checkoutURL, err := h.service.StartCheckout(r.Context(), buyer, req.ProductID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Product")
			return
		}
		core.WriteError(w, err)
		return
	}

	core.OK(w, CheckoutResponse{URL: checkoutURL})
}

// Webhook must see the exact bytes the gateway signed, so the body is read
// raw and never decoded before verification.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		core.BadRequest(w, "unable to read request body")
		return
	}

	signature := r.Header.Get(signatureHeader)
	if signature == "" {
		core.JSONError(w, core.InvalidSignatureError())
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, signature); err != nil {
		if errors.Is(err, core.ErrInvalidSignature) {
			core.JSONError(w, core.InvalidSignatureError())
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, WebhookResponse{Received: true})
}

func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Library(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.OK(w, map[string]any{"purchases": ToLibraryEntries(items)})
}
