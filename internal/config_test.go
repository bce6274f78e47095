package internal_test

import (
	"time"

	"github.com/frahmantamala/leave-approval/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "*",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			Source:          "postgres://localhost/leave",
		},
		Security: internal.SecurityConfig{
			JWTSecret:           "0123456789abcdef0123456789abcdef",
			JWTIssuer:           "leave-approval",
			JWTAudience:         "leave-approval",
			AccessTokenDuration: 6 * time.Hour,
			BCryptCost:          12,
			LoginRatePerMinute:  10,
			LoginBurst:          5,
		},
		Observability: internal.ObservabilityConfig{
			Metrics: internal.MetricsConfig{Enabled: true, Path: "/metrics"},
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects a short jwt secret", func() {
		cfg := validConfig()
		cfg.Security.JWTSecret = "short"
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("JWTSecret"))
	})

	It("rejects a token lifetime below one hour", func() {
		cfg := validConfig()
		cfg.Security.AccessTokenDuration = 30 * time.Minute
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("rejects more idle than open connections", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 20
		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("max_idle_conns"))
	})

	It("requires a default password when bootstrap is enabled", func() {
		cfg := validConfig()
		cfg.Bootstrap.Enabled = true
		Expect(cfg.Validate()).NotTo(Succeed())

		cfg.Bootstrap.DefaultPassword = "123456"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("splits allowed origins", func() {
		cfg := validConfig()
		cfg.Server.AllowedOrigins = "http://a.test, http://b.test"
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://a.test", "http://b.test"}))

		cfg.Server.AllowedOrigins = ""
		Expect(cfg.Server.Origins()).To(Equal([]string{"*"}))
	})

	It("loads defaults from the environment", func() {
		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Security.AccessTokenDuration).To(Equal(6 * time.Hour))
		Expect(cfg.Bootstrap.Enabled).To(BeFalse())
	})
})
