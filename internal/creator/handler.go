// AngelaMos | 2026
// handler.go

package creator

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/creators", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireCreator)
			r.Get("/me", h.GetMine)
			r.Put("/me", h.UpdateMine)
		})
		r.Get("/{creatorID}", h.Get)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "creatorID"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "creator")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToProfileResponse(p))
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetByUserID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "creator profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PrivateProfileResponse{
		ProfileResponse: ToProfileResponse(p),
		StripeAccountID: p.StripeAccountID,
	})
}

func (h *Handler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	p, err := h.service.UpdateMine(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "creator profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PrivateProfileResponse{
		ProfileResponse: ToProfileResponse(p),
		StripeAccountID: p.StripeAccountID,
	})
}
