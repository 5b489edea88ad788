package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var (
		cfgPath    string
		addr       string
		backendURL string
		watchDir   string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "presetd",
		Short:         "Fooocus preset and model configuration service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&addr, "addr", envOr("PRESETD_ADDR", ":8990"), "HTTP listen address for the UI surface")
	root.PersistentFlags().StringVar(&backendURL, "backend", envOr("PRESETD_BACKEND", "http://127.0.0.1:8991"), "Base URL of the persistence backend")
	root.PersistentFlags().StringVar(&watchDir, "watch-dir", os.Getenv("PRESETD_WATCH_DIR"), "Directory to auto-import dropped preset files from (empty = off)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", envOr("PRESETD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")

	root.AddCommand(buildServeCmd(&cfgPath, &addr, &backendURL, &watchDir, &logLevel))
	root.AddCommand(buildConvertCmd())
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
