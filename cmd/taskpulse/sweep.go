package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder sweep and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := log.New(os.Stderr, "taskpulse ", log.LstdFlags)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repo, err := openRepo(cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			sweeper, err := buildSweeper(ctx, cfg, repo, logger)
			if err != nil {
				return err
			}
			report, err := sweeper.Run(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			logger.Printf("sweep: evaluated=%d notified=%d skipped_no_target=%d skipped_interval=%d send_failed=%d",
				report.Evaluated, report.Notified, report.SkippedNoTarget, report.SkippedInterval, report.SendFailed)
			return nil
		},
	}
}
