package seed

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/transport"
)

type SeederAPI interface {
	Seed(ctx context.Context) (*Result, error)
	Reset(ctx context.Context) (*Result, error)
}

// Handler exposes seeding over HTTP. Only mount it when bootstrap is enabled.
type Handler struct {
	*transport.BaseHandler
	Seeder SeederAPI
}

func NewHandler(baseHandler *transport.BaseHandler, seeder SeederAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Seeder: seeder}
}

func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.Seeder.Seed(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, internal.NewInternalError("seed failed", err))
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.Seeder.Reset(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, internal.NewInternalError("reset failed", err))
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
