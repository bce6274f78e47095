package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	ValidateAccessToken(tokenString string) (*internal.Principal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AuthMiddleware resolves the bearer token into a principal on the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		p, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err, "path", r.URL.Path)
			var appErr *internal.AppError
			if errors.As(err, &appErr) {
				h.WriteAppError(w, appErr)
				return
			}
			h.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), p)
		ctx = logger.With(ctx, "employee_id", p.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
