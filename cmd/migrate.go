package cmd

import (
	"fmt"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "init-db-migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job ensures tables exist and then runs goose migrations.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		if err := loadConfig(); err != nil {
			return err
		}

		if err := openDB(events.NopNotifier{}); err != nil {
			return err
		}

		// Set up the database
		defer crmDB.Close()

		// Run the migrations
		log.Info().Msgf("Running migrations...")
		if err := crmDB.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		log.Info().Msg("Migrations complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
