package migrate

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/gp-playoffs/log"
	"github.com/mpapenbr/gp-playoffs/pkg/cmd/util"
	"github.com/mpapenbr/gp-playoffs/pkg/config"
	"github.com/mpapenbr/gp-playoffs/pkg/db/migrate"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.SetupLogger()
			return startMigration()
		},
	}

	cmd.Flags().StringVarP(&config.MigrationSourceURL,
		"migration-source-url",
		"m",
		"",
		"url to migration files (default: embedded migrations)")

	return cmd
}

func startMigration() error {
	util.WaitForDB()

	if config.MigrationSourceURL != "" {
		log.Info("Using migrations files at", log.String("source", config.MigrationSourceURL))
		return migrate.MigrateDBFrom(config.MigrationSourceURL, config.DB)
	}
	log.Info("Using embedded migrations")
	if err := migrate.MigrateDB(config.DB); err != nil {
		return err
	}
	log.Info("Migration done")
	return nil
}
