package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError writes the error envelope for an *AppError.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// WriteError writes an error response for failures that have no AppError.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteAppError(w, &internal.AppError{
		Type:       internal.ErrorTypeInternal,
		Code:       internal.ErrCodeInternal,
		Message:    message,
		StatusCode: status,
	})
}

// HandleServiceError maps service errors onto the HTTP error envelope.
// Anything that is not an *AppError is reported as a bare 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		lg := logger.From(r.Context())
		if appErr.StatusCode >= http.StatusInternalServerError {
			lg.Error("request failed", "path", r.URL.Path, "code", appErr.Code, "error", appErr)
		} else {
			lg.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "message", appErr.GetDetailedMessage())
		}
		h.WriteAppError(w, appErr)
		return
	}
	logger.From(r.Context()).Error("unhandled error", "path", r.URL.Path, "error", err)
	h.WriteAppError(w, internal.NewInternalError("Internal server error", err))
}

// DecodeJSON reads a bounded JSON body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("Request body is required", internal.ErrCodeInvalidBody)
		}
		return internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}

// PathID parses a positive integer URL parameter.
func (h *BaseHandler) PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, name+" must be a positive integer", internal.ErrCodeInvalidID)
	}
	return id, nil
}

// Principal returns the authenticated caller or writes 401.
func (h *BaseHandler) Principal(w http.ResponseWriter, r *http.Request) (*internal.Principal, bool) {
	p, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return nil, false
	}
	return p, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
