package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/leave-approval/internal/auth"
	"github.com/frahmantamala/leave-approval/internal/seed"
	"github.com/frahmantamala/leave-approval/pkg/logger"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap hierarchy",
	Long:  `Create one director, one team lead and one staff member chained by manager. Seeding is skipped when employees already exist unless --clear is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		password := seedPassword
		if password == "" {
			password = cfg.Bootstrap.DefaultPassword
		}
		if len(password) < 6 {
			return fmt.Errorf("seed password must be at least 6 characters; set bootstrap.default_password or --password")
		}

		hasher := auth.NewService(nil, nil, cfg.Security.BCryptCost, lg)
		seeder := seed.NewSeeder(db, hasher, password, lg)

		run := seeder.Seed
		if clearData {
			run = seeder.Reset
		}
		result, err := run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		for _, a := range result.Accounts {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-28s id=%d\n", a.Role, a.Email, a.ID)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "password for every seeded account (defaults to bootstrap.default_password)")
}
