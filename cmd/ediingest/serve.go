package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/api"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/config"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ingestion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg config.Config) error {
	log := newLogger(os.Stdout, cfg)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	out, err := openSinks(ctx, cfg, log)
	if err != nil {
		return err
	}
	provider := openProvider(cfg)

	// Initialize pipeline.
	worker := pipeline.NewWorker(pipeline.Deps{
		Provider: provider,
		Writer:   out.writer,
		Oracle:   out.oracle,
		Stats:    pipeline.NewStats(cfg.StatsWindow),
	}, transformOptions(cfg), log)
	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, worker, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	var lister api.InterchangeLister
	if out.db != nil {
		lister = out.db
	}
	srv := api.NewServer(orch, lister, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := provider.(interface{ Close() }); ok {
			c.Close()
		}
		if err := out.writer.Close(); err != nil {
			log.Error("closing sinks", "error", err)
		}
	}()

	log.Info("starting ediingest",
		"port", cfg.Port,
		"workers", cfg.WorkerCount,
		"sqlite", cfg.SQLitePath,
		"xlsx_dir", cfg.XLSXExportDir,
	)
	err = httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	cancel()
	<-done
	return err
}
