// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type PaginatedResponse struct {
	Items      any `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Paginated(w http.ResponseWriter, items any, page, pageSize, total int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	OK(w, PaginatedResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	})
}

func JSONError(w http.ResponseWriter, appErr *AppError) {
	WriteJSON(w, appErr.StatusCode, ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	})
}

// WriteError renders any domain error. Unclassified errors are logged with
// full detail and surface only as a generic message.
func WriteError(w http.ResponseWriter, err error) {
	if appErr, ok := IsAppError(err); ok && appErr.StatusCode != 0 {
		if errors.Is(appErr, ErrUpstream) {
			slog.Error("upstream failure", "error", appErr.Err)
		}
		JSONError(w, appErr)
		return
	}

	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err, "status", status)
		message := "Internal server error"
		if status == http.StatusBadGateway {
			message = "Service temporarily unavailable"
		}
		WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
		return
	}

	WriteJSON(w, status, ErrorResponse{Error: messageFor(status), Code: code})
}

// messageFor is the client text for a wrapped sentinel that carries no
// AppError. The wrapped chain stays in logs only.
func messageFor(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Access denied"
	case http.StatusConflict:
		return "Resource conflict"
	default:
		return "Invalid request"
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, InvalidInputError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error",
		Code:  "INTERNAL_ERROR",
	})
}

// DecodeJSON decodes a request body strictly: unknown fields and trailing
// content are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}

	if dec.More() {
		return errors.New("unexpected trailing data")
	}

	return nil
}
