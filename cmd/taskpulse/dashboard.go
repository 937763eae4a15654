package main

import (
	"github.com/spf13/cobra"

	"taskpulse/internal/dashboard"
)

func dashboardCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			return dashboard.Run(repo, cfg.Priority.Params(), owner)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "only show tasks for this user")
	return cmd
}
