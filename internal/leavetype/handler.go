package leavetype

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-approval/internal/transport"
)

type CatalogAPI interface {
	List() []LeaveType
	Lookup(code string) (LeaveType, error)
}

type Handler struct {
	*transport.BaseHandler
	Catalog CatalogAPI
}

func NewHandler(baseHandler *transport.BaseHandler, catalog CatalogAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Catalog:     catalog,
	}
}

func (h *Handler) GetLeaveTypes(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, LeaveTypesResponse{LeaveTypes: h.Catalog.List()})
}

func (h *Handler) GetLeaveType(w http.ResponseWriter, r *http.Request) {
	lt, err := h.Catalog.Lookup(chi.URLParam(r, "code"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, lt)
}
