package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/config"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ediingest",
		Short: "Ingest EDI X12 850, 856 and 810 documents into relational tables",
		Long: `ediingest tokenizes EDI X12 files, interprets purchase orders, advance
ship notices and invoices, and stores them as rows in nine fixed tables.
Malformed segments are skipped and reported instead of failing the file.

Configuration comes from the environment, an optional .env file and an
optional YAML file (--config or EDI_CONFIG_FILE). Environment wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv(opts.envFile)
			if opts.configFile != "" {
				os.Setenv("EDI_CONFIG_FILE", opts.configFile)
			}
			if opts.logLevel != "" {
				os.Setenv("LOG_LEVEL", opts.logLevel)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(
		newServeCmd(),
		newIngestCmd(),
		newParseCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads and validates the layered configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
