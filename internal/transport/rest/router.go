package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/frahmantamala/leave-approval/internal/auth"
	"github.com/frahmantamala/leave-approval/internal/core/role"
	"github.com/frahmantamala/leave-approval/internal/employee"
	"github.com/frahmantamala/leave-approval/internal/leave"
	"github.com/frahmantamala/leave-approval/internal/leavetype"
	"github.com/frahmantamala/leave-approval/internal/metrics"
	"github.com/frahmantamala/leave-approval/internal/seed"
	"github.com/frahmantamala/leave-approval/internal/transport/middleware"
	"github.com/frahmantamala/leave-approval/internal/transport/swagger"
)

// Dependencies carries everything RegisterAllRoutes mounts. Nil handlers
// leave their routes unmounted.
type Dependencies struct {
	DB               Pinger
	AuthHandler      *auth.Handler
	RBAC             *auth.RBACAuthorization
	LoginLimiter     *middleware.RateLimiter
	EmployeeHandler  *employee.Handler
	LeaveHandler     *leave.Handler
	LeaveTypeHandler *leavetype.Handler
	SeedHandler      *seed.Handler
	Metrics          *metrics.Collector
	Gatherer         prometheus.Gatherer
	MetricsPath      string
	Spec             *swagger.Spec
	AllowedOrigins   []string
	RequestTimeout   time.Duration
	Logger           *slog.Logger
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.TraceIDHeader},
		ExposedHeaders: []string{middleware.TraceIDHeader, "Retry-After"},
		MaxAge:         600,
	}
}

// RegisterAllRoutes mounts middleware and routes. The login limiter keys on
// the socket address; forwarding headers are not trusted.
func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(cors.Handler(corsOptions(deps.AllowedOrigins)))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	if deps.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(deps.RequestTimeout))
	}

	if deps.Gatherer != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, metrics.Handler(deps.Gatherer))
	}

	if deps.Spec != nil {
		router.Handle(swagger.SpecPath, deps.Spec)
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		if deps.LeaveTypeHandler != nil {
			r.Get("/leave-types", deps.LeaveTypeHandler.GetLeaveTypes)
			r.Get("/leave-types/{code}", deps.LeaveTypeHandler.GetLeaveType)
		}

		if deps.AuthHandler == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			login := http.Handler(http.HandlerFunc(deps.AuthHandler.Login))
			if deps.LoginLimiter != nil {
				login = deps.LoginLimiter.Middleware(login)
			}
			ar.Method(http.MethodPost, "/login", login)

			if deps.SeedHandler != nil {
				ar.Post("/seed", deps.SeedHandler.Seed)
				ar.Post("/reset", deps.SeedHandler.Reset)
			}
		})

		rbac := deps.RBAC
		if rbac == nil {
			rbac = auth.NewRBACAuthorization(deps.Logger)
		}

		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			if deps.LeaveHandler != nil {
				lh := deps.LeaveHandler
				pr.Route("/requests", func(rr chi.Router) {
					rr.Post("/", lh.CreateRequest)
					rr.Get("/mine", lh.ListMine)
					rr.With(rbac.RequireRole(role.Mid)).Get("/inbox/mid", lh.MidInbox)
					rr.With(rbac.RequireRole(role.Top)).Get("/inbox/top", lh.TopInbox)
					rr.Get("/{id}", lh.GetRequest)
					rr.Delete("/{id}", lh.DeleteRequest)
					rr.With(rbac.RequireRole(role.Mid)).Post("/{id}/decision/mid", lh.DecideMid)
					rr.With(rbac.RequireRole(role.Top)).Post("/{id}/decision/top", lh.DecideTop)
				})
			}

			if deps.EmployeeHandler != nil {
				eh := deps.EmployeeHandler
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/me", eh.GetCurrentEmployee)
					er.With(rbac.RequireRole(role.Top, role.Mid)).Get("/", eh.ListEmployees)
					er.With(rbac.RequireRole(role.Top)).Post("/", eh.CreateEmployee)
					er.With(rbac.RequireRole(role.Top)).Delete("/{id}", eh.DeleteEmployee)
				})
			}
		})
	})
}
