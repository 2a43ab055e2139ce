// AngelaMos | 2026
// handler.go

package product

import (
	"errors"
	"net/http"
	"strconv"

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
	optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.List)
			r.Get("/slug/{slug}", h.GetBySlug)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireCreator)
			r.Get("/mine", h.Mine)
			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Put("/{productID}/status", h.SetStatus)
			r.Delete("/{productID}", h.Delete)
		})

		r.With(optionalAuth).Get("/{productID}", h.Get)
	})
}

func viewerFrom(r *http.Request) Viewer {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return Viewer{}
	}
	return Viewer{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		Category:           q.Get("category"),
		Search:             q.Get("search"),
		CreatorID:          q.Get("creatorId"),
		IncludeUnpublished: q.Get("includeUnpublished") == "true",
		MinPrice:           parseInt64Query(r, "minPrice"),
		MaxPrice:           parseInt64Query(r, "maxPrice"),
		Page:               parseIntQuery(r, "page", 1),
		PageSize:           parseIntQuery(r, "pageSize", 24),
	}

	switch level := q.Get("level"); level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAllLevels:
		params.Level = level
	}

	switch typ := q.Get("type"); typ {
	case TypeLesson, TypeCourse:
		params.Type = typ
	}

	params.Normalize()

	products, total, err := h.service.List(r.Context(), viewerFrom(r), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToProductResponseList(products), params.Page, params.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), viewerFrom(r), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetBySlug(r.Context(), viewerFrom(r), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Mine(r.Context(), viewerFrom(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]any{"products": ToSummaryResponseList(summaries)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Create(r.Context(), viewerFrom(r), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToProductResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Update(r.Context(), viewerFrom(r), chi.URLParam(r, "productID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.SetStatus(
		r.Context(),
		viewerFrom(r),
		chi.URLParam(r, "productID"),
		req.Status,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	archived, err := h.service.Delete(r.Context(), viewerFrom(r), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if archived {
		core.OK(w, DeleteResponse{Message: "Product archived (has purchases)", Archived: true})
		return
	}
	core.OK(w, DeleteResponse{Message: "Product deleted"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := core.DecodeJSON(r, dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		if _, ok := core.IsAppError(err); !ok {
			core.NotFound(w, "product")
			return
		}
	}
	core.WriteError(w, err)
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func parseInt64Query(r *http.Request, key string) *int64 {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}

	return &parsed
}
