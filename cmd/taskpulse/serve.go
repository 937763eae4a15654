package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taskpulse/internal/api"
	"taskpulse/internal/config"
	"taskpulse/internal/lock"
	"taskpulse/internal/sweep"
)

const shutdownGrace = 10 * time.Second

func serveCmd() *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background reminder sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			return runServe(cfg.ListenAddr, cfg)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(addr string, cfg config.Config) error {
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
	runner, err := sweep.NewRunner(sweeper, cfg.Sweep.Interval(), lock.NewSweepLock(cfg.Sweep.LockPath), logger)
	if err != nil {
		return err
	}

	server := api.NewServer(repo, cfg.Priority.Params(), sweeper)
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		runner.Start(groupCtx)
		<-groupCtx.Done()
		runner.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
