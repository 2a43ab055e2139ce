// AngelaMos | 2026
// handler.go

package media

import (
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
	uploadLimits ...func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.NoStore).Get("/video/{productID}", h.VideoURL)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCreator)
			r.With(uploadLimits...).Post("/uploads", h.IssueUploadURL)
			r.Post("/video-assets", h.RegisterAsset)
			r.Get("/video-assets/{assetID}", h.GetAsset)
			r.Delete("/video-assets/{assetID}", h.DeleteAsset)
		})
	})
}

func callerFrom(r *http.Request) Caller {
	return Caller{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}
}

func (h *Handler) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	var req UploadURLRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.IssueUploadURL(r.Context(), callerFrom(r), req)
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req RegisterAssetRequest
	if !h.decode(w, r, &req) {
		return
	}

	asset, err := h.service.RegisterAsset(r.Context(), callerFrom(r), req)
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.Created(w, ToAssetResponse(asset))
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.service.GetAsset(r.Context(), callerFrom(r), chi.URLParam(r, "assetID"))
	if err != nil {
		writeAssetError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(asset))
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAsset(r.Context(), callerFrom(r), chi.URLParam(r, "assetID")); err != nil {
		writeAssetError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) VideoURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.VideoURL(r.Context(), callerFrom(r), chi.URLParam(r, "productID"))
	if err != nil {
		core.WriteError(w, err)
		return
	}

	core.OK(w, VideoURLResponse{URL: url})
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

func writeAssetError(w http.ResponseWriter, err error) {
	if _, ok := core.IsAppError(err); !ok {
		status, _ := core.StatusFor(err)
		if status == http.StatusNotFound {
			core.NotFound(w, "Video asset")
			return
		}
	}
	core.WriteError(w, err)
}
