// AngelaMos | 2026
// handler.go

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coursemarket/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{"categories": categories})
}
