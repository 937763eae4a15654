package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"taskpulse/internal/config"
	"taskpulse/internal/notify"
	"taskpulse/internal/storage"
	"taskpulse/internal/sweep"
)

// openRepo opens the sqlite store and brings the schema up to date.
func openRepo(cfg config.Config) (*storage.SQLiteRepository, error) {
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateUp(repo.DB()); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func buildSweeper(ctx context.Context, cfg config.Config, repo *storage.SQLiteRepository, logger *log.Logger) (*sweep.Sweeper, error) {
	router := &notify.Router{
		Webhook: notify.NewWebhookSender(&http.Client{Timeout: cfg.Notify.WebhookTimeout()}),
	}
	if cfg.FCM.Enabled() {
		credentials, err := os.ReadFile(cfg.FCM.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("read fcm service account: %w", err)
		}
		fcm, err := notify.NewFCMSender(ctx, credentials, cfg.FCM.ProjectID)
		if err != nil {
			return nil, err
		}
		router.FCM = fcm
	}

	store := storage.NewSweepStore(repo)
	sweeper, err := sweep.NewSweeper(cfg.Priority.Params(), store, store, router, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Sweep.UseIntervalGate {
		sweeper.Log = store
	}
	return sweeper, nil
}
