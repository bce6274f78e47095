package leave

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, p *internal.Principal, dto CreateRequestDTO) (*Request, error)
	Get(ctx context.Context, p *internal.Principal, id int64) (*Request, error)
	ListMine(ctx context.Context, p *internal.Principal) ([]*Request, error)
	Inbox(ctx context.Context, p *internal.Principal, stage Stage) ([]*Request, error)
	DecideMid(ctx context.Context, p *internal.Principal, id int64, dto MidDecisionDTO) (*Request, error)
	DecideTop(ctx context.Context, p *internal.Principal, id int64, dto TopDecisionDTO) (*Request, error)
	Delete(ctx context.Context, p *internal.Principal, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.Get(r.Context(), p, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	reqs, err := h.Service.ListMine(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: reqs})
}

func (h *Handler) inbox(stage Stage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := h.Principal(w, r)
		if !ok {
			return
		}
		reqs, err := h.Service.Inbox(r.Context(), p, stage)
		if err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, RequestsResponse{Requests: reqs})
	}
}

func (h *Handler) MidInbox(w http.ResponseWriter, r *http.Request) {
	h.inbox(StageMid)(w, r)
}

func (h *Handler) TopInbox(w http.ResponseWriter, r *http.Request) {
	h.inbox(StageTop)(w, r)
}

func (h *Handler) DecideMid(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto MidDecisionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.DecideMid(r.Context(), p, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) DecideTop(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto TopDecisionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.DecideTop(r.Context(), p, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), p, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
