package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpdesk-system/backend/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply every pending database migration, or roll back the last N
migrations with --down N.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		down, _ := cmd.Flags().GetInt("down")

		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		if down == 0 {
			return a.migrate()
		}

		sqlDB, err := a.db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		return database.RollbackMigrations(sqlDB, down, a.logger)
	},
}

func init() {
	migrateCmd.Flags().Int("down", 0, "Roll back this many migrations instead of migrating up")
}
