package main

import (
	"github.com/spf13/cobra"

	"taskpulse/internal/storage"
)

func migrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := storage.OpenSQLite(cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			if down {
				return storage.MigrateDown(repo.DB())
			}
			return storage.MigrateUp(repo.DB())
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations")
	return cmd
}
