package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

type ServiceAPI interface {
	Me(ctx context.Context, p *internal.Principal) (*Employee, error)
	List(ctx context.Context, p *internal.Principal) ([]*Employee, error)
	Create(ctx context.Context, p *internal.Principal, dto CreateEmployeeDTO) (*Employee, error)
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

// GetCurrentEmployee handles GET /employees/me
func (h *Handler) GetCurrentEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	e, err := h.Service.Me(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	list, err := h.Service.List(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: list})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}

	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	e, err := h.Service.Create(r.Context(), p, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("employee created via API", "employee_id", e.ID, "role", e.Role)
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
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
	h.WriteJSON(w, http.StatusOK, DeleteEmployeeResponse{Message: "employee deleted", ID: id})
}
