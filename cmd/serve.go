package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"calculus/internal/api"
	"calculus/internal/api/handler/v1handler"
	"calculus/internal/calculator"
	"calculus/internal/config"
	"calculus/internal/worker"
	"calculus/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, deps api.Deps) func(ctx context.Context) {
	server, err := api.NewServer(deps, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			calc := calculator.New(strg, calculator.NewOptions(cfg))

			// workers outlive the signal so that Stop can drain running jobs
			logger.Info(ctx, "starting workers...")
			riverClient, err := worker.Start(context.WithoutCancel(ctx), strg.Pool, calc, worker.Options{
				MaxWorkers: cfg.Calculator.MaxWorkers,
				JobTimeout: cfg.Calculator.JobTimeout,
			})
			if err != nil {
				logger.Fatal(ctx, "could not start workers", zap.Error(err))
			}

			deps := api.Deps{Deps: v1handler.Deps{Calculator: calc}}
			if cfg.HTTP.JobsUIPath != "" {
				if deps.JobsUI, err = worker.NewUI(ctx, riverClient, cfg.HTTP.JobsUIPath); err != nil {
					logger.Fatal(ctx, "could not create jobs dashboard", zap.Error(err))
				}
			}

			stopWebserver := setupServer(ctx, cfg, deps)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			logger.Info(shutdownCtx, "stopping workers...")
			if err := riverClient.Stop(shutdownCtx); err != nil {
				logger.Error(shutdownCtx, "could not stop workers gracefully", zap.Error(err))
			}
		},
	}

	return cmd
}
