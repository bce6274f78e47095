package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-approval/internal"
	"github.com/frahmantamala/leave-approval/internal/auth"
	authPostgres "github.com/frahmantamala/leave-approval/internal/auth/postgres"
	"github.com/frahmantamala/leave-approval/internal/core/events"
	"github.com/frahmantamala/leave-approval/internal/employee"
	employeePostgres "github.com/frahmantamala/leave-approval/internal/employee/postgres"
	"github.com/frahmantamala/leave-approval/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-approval/internal/leave/postgres"
	"github.com/frahmantamala/leave-approval/internal/leavetype"
	"github.com/frahmantamala/leave-approval/internal/metrics"
	"github.com/frahmantamala/leave-approval/internal/seed"
	"github.com/frahmantamala/leave-approval/internal/transport"
	"github.com/frahmantamala/leave-approval/internal/transport/middleware"
	"github.com/frahmantamala/leave-approval/internal/transport/rest"
	"github.com/frahmantamala/leave-approval/internal/transport/swagger"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

var specFile string

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func init() {
	httpServerCmd.Flags().StringVar(&specFile, "openapi", "api/openapi.yml", "OpenAPI document served at "+swagger.SpecPath)
}

type Dependencies struct {
	Config       *internal.Config
	DB           *sqlx.DB
	Router       *chi.Mux
	Bus          *events.EventBus
	LoginLimiter *middleware.RateLimiter
	Logger       *slog.Logger
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := setup()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	lg := deps.Logger

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown error", "error", err)
	}
	deps.close(shutdownCtx)

	lg.Info("server stopped")
	return nil
}

// close drains in-flight event handlers before the database goes away.
func (d *Dependencies) close(ctx context.Context) {
	d.LoginLimiter.Stop()
	if err := d.Bus.Wait(ctx); err != nil {
		d.Logger.Warn("event handlers did not drain", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func initializeDependencies(ctx context.Context, cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	spec, err := swagger.Load(ctx, specFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)
	collector.Subscribe(bus)

	sec := cfg.Security
	tokens := auth.NewJWTTokenGenerator(sec.JWTSecret, sec.JWTIssuer, sec.JWTAudience, sec.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokens, sec.BCryptCost, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(gdb), authService, bus, lg)
	leaveService := leave.NewService(leavePostgres.NewRequestRepository(gdb), employeeService, bus, lg)

	base := transport.NewBaseHandler(lg)
	loginLimiter := middleware.NewRateLimiter(middleware.PerMinute("login", sec.LoginRatePerMinute, sec.LoginBurst), collector, lg)

	routes := rest.Dependencies{
		DB:               db,
		AuthHandler:      &auth.Handler{BaseHandler: base, Service: authService},
		RBAC:             auth.NewRBACAuthorization(lg),
		LoginLimiter:     loginLimiter,
		EmployeeHandler:  &employee.Handler{BaseHandler: base, Service: employeeService},
		LeaveHandler:     &leave.Handler{BaseHandler: base, Service: leaveService},
		LeaveTypeHandler: leavetype.NewHandler(base, leavetype.NewCatalog()),
		Metrics:          collector,
		Spec:             spec,
		AllowedOrigins:   cfg.Server.Origins(),
		RequestTimeout:   cfg.Server.RequestTimeout,
		Logger:           lg,
	}
	if cfg.Observability.Metrics.Enabled {
		routes.Gatherer = reg
		routes.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.Bootstrap.Enabled {
		lg.Warn("bootstrap endpoints enabled; disable in production")
		seeder := seed.NewSeeder(db, authService, cfg.Bootstrap.DefaultPassword, lg)
		routes.SeedHandler = seed.NewHandler(base, seeder)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, routes)

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Router:       router,
		Bus:          bus,
		LoginLimiter: loginLimiter,
		Logger:       lg,
	}, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}
	return gdb, nil
}
