// SPDX-License-Identifier: MIT
// Package: lanepath/cmd/lanepath
//
// root.go — root command, configuration and logger setup.

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/lanepath/config"
	"github.com/katalvlaran/lanepath/telemetry"
)

var (
	// Persistent flags
	configPath string
	logLevel   string
	logFormat  string

	// Set by PersistentPreRunE.
	cfg    config.Config
	logger *telemetry.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lanepath",
	Short: "Lane-level route search over generated road networks",
	Long: `lanepath searches lane-accurate routes with a bucket-queue engine.

Configuration is read from --config (YAML or JSON), then LANEPATH_*
environment variables, then the flags below.

Examples:
  lanepath route --rows 4 --cols 4 --from 1 --to 20
  lanepath simulate --requests 5000 --rate 2000 --metrics-addr :9090`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.Observability.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			loaded.Observability.LogFormat = logFormat
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		l, err := newLogger(cmd.ErrOrStderr(), cfg.Observability)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", config.LogFormatAuto, "auto, json or text")

	rootCmd.AddCommand(routeCmd, simulateCmd, versionCmd)
}

// newLogger writes text to terminals and JSON everywhere else unless the
// format is forced.
func newLogger(w io.Writer, o config.ObservabilityConfig) (*telemetry.Logger, error) {
	level, err := telemetry.ParseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	format := o.LogFormat
	if format == config.LogFormatAuto {
		format = config.LogFormatJSON
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = config.LogFormatText
		}
	}
	if format == config.LogFormatText {
		return telemetry.NewLogger(slog.NewTextHandler(w, opts)), nil
	}
	return telemetry.NewLogger(slog.NewJSONHandler(w, opts)), nil
}
