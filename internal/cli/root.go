// Package cli wires the emfactor engine into a cobra command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/greenledger/emfactor/internal/config"
	"github.com/greenledger/emfactor/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

const rootCmdExample = `  # Resolve 100 litres of diesel bought in India
  emfactor resolve diesel 100 litre --region India

  # Resolve with free-text context and machine-readable output
  emfactor resolve "freight truck heavy" 1200 tonne-km --json --context "monthly outbound logistics"

  # Inspect and validate the reference dataset
  emfactor factors list --activity diesel
  emfactor factors validate ./factors/india.yaml`

// NewRootCmd creates the root cobra command for the emfactor CLI. It wires
// up configuration, logging and the resolve/factors subcommands.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emfactor",
		Short: "Emission factor resolution and calculation engine",
		Long: `emfactor resolves a named activity, quantity, unit and region against a
layered reference dataset and computes the CO2-equivalent mass, reporting
which matching layer produced the answer and how confident it is.`,
		Version: version,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "Path to the config file")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the console")
	cmd.PersistentFlags().StringSlice("dataset", nil, "Dataset file(s), overriding the configured paths")

	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewFactorsCmd())

	return cmd
}

// loadConfig reads the config file named by --config plus environment
// overrides, and stores the result on the command context for subcommands.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if datasets, _ := cmd.Flags().GetStringSlice("dataset"); len(datasets) > 0 {
		cfg.Dataset.Paths = datasets
	}

	setContextConfig(cmd, cfg)
	return cfg, nil
}

// setupLogging configures logging from config, environment and the --debug
// flag, and threads the logger plus a trace ID through the command context.
func setupLogging(cmd *cobra.Command, cfg config.Config) {
	loggingCfg := cfg.Logging
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	base := logging.New(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(base, "cli")

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = base.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")
}
