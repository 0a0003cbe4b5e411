package cmd

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/eventlens-io/eventlens/db"
	"github.com/eventlens-io/eventlens/db/migrator"
)

func newMigrator() (*migrator.Migrator, error) {
	cfg, err := initConfig(configurationFile)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.NewSqlDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	return migrator.New(sqlDB), nil
}

func newDatabaseResetCmd() *cobra.Command {
	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !prompt("Are you sure? This operation is irreversible.") {
					return errors.New("canceled")
				}
			}
			m, err := newMigrator()
			if err != nil {
				return err
			}
			cmd.Println("resetting database...")
			if err := m.Reset(); err != nil {
				return err
			}
			cmd.Println("database successfully reset")
			return nil
		},
	}
	reset.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "yes")
	return reset
}

func newDatabaseCmd() *cobra.Command {

	database := &cobra.Command{
		Use:   "db",
		Short: "Database commands",
		Long:  ``,
	}

	database.PersistentFlags().StringVarP(&configurationFile, "config", "", "", "The configuration filename")

	database.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			version, dirty, err := m.Status()
			if errors.Is(err, migrate.ErrNilVersion) {
				cmd.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("version: %d, dirty: %t\n", version, dirty)
			return nil
		},
	})

	database.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run any new migrations",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			cmd.Println("database is up-to-date")
			return nil
		},
	})

	database.AddCommand(newDatabaseResetCmd())

	return database
}
