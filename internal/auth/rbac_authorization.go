package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/core/role"
	"github.com/frahmantamala/leave-approval/internal/transport"
)

// RBACAuthorization gates routes on the caller's role. Record-level checks
// stay in the domain services.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole admits callers holding any of roles. There is no implicit
// hierarchy: a top-tier caller does not pass RequireRole(role.Mid).
func (ra *RBACAuthorization) RequireRole(roles ...role.Role) func(http.Handler) http.Handler {
	allowed := make(map[role.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := internal.PrincipalFromContext(r.Context())
			if !ok || p == nil {
				ra.Logger.Warn("authorization check failed: principal not found in context")
				ra.WriteAppError(w, internal.ErrMissingToken)
				return
			}

			if _, ok := allowed[p.Role]; !ok {
				ra.Logger.WarnContext(r.Context(), "access denied: role not allowed",
					"employee_id", p.ID,
					"role", p.Role,
					"allowed", roles)
				ra.WriteAppError(w, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
