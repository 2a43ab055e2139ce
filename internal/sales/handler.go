// AngelaMos | 2026
// handler.go

package sales

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coursemarket/internal/core"
	"github.com/carterperez-dev/coursemarket/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.NoStore)
		r.Get("/", h.Dashboard)
		r.Get("/sales", h.Sales)
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.OK(w, ToDashboardResponse(d))
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		core.WriteError(w, err)
		return
	}

	report, err := h.service.Report(r.Context(), middleware.GetUserID(r.Context()), rng)
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.OK(w, ToReportResponse(report))
}
