package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"presetd/internal/backend"
	"presetd/internal/config"
	"presetd/internal/httpapi"
	"presetd/internal/store"
	"presetd/internal/watcher"
)

func buildServeCmd(cfgPath, addr, backendURL, watchDir, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local state service",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file fills in whatever the flags left at defaults only
			// when explicitly provided; flags win otherwise.
			if *cfgPath != "" {
				cfg, err := config.Load(*cfgPath)
				if err != nil {
					return err
				}
				applyConfig(cmd, cfg, addr, backendURL, watchDir, logLevel)
			}
			log := newLogger(*logLevel)
			httpapi.SetLogger(log)

			client := backend.NewClient(backend.NewHTTPInvoker(*backendURL, log))
			models := store.NewModelStore(client, log)
			presets := store.NewPresetStore(client, models, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Warm the caches; failures are recorded in store state and the
			// UI can retry via /refresh.
			models.FetchAll(ctx)
			presets.FetchAll(ctx)
			presets.FetchTags(ctx)

			if *watchDir != "" {
				w, err := watcher.New(*watchDir, presets, log)
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						log.Error().Err(err).Msg("watcher stopped")
					}
				}()
			}

			srv := &http.Server{Addr: *addr, Handler: httpapi.NewMux(models, presets)}
			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", *addr).Str("backend", *backendURL).Msg("presetd listening")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errc <- err
				}
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
}

func applyConfig(cmd *cobra.Command, cfg config.Config, addr, backendURL, watchDir, logLevel *string) {
	if cfg.Addr != "" && !cmd.Flags().Changed("addr") {
		*addr = cfg.Addr
	}
	if cfg.BackendURL != "" && !cmd.Flags().Changed("backend") {
		*backendURL = cfg.BackendURL
	}
	if cfg.WatchDir != "" && !cmd.Flags().Changed("watch-dir") {
		*watchDir = cfg.WatchDir
	}
	if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
		*logLevel = cfg.LogLevel
	}
}
