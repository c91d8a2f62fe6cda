// Package cmd defines and implements the CLI commands for the logofetch executable.
package cmd

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/airborne-data/logofetch/internal/logging"
	"github.com/airborne-data/logofetch/pkg/config"
)

var cfgFile string

// loggerKeyType is the key for storing the run-scoped logger in the context.
type loggerKeyType string

const loggerKey loggerKeyType = "logger"

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logofetch",
		Short: "Harvests IATA airline codes and bulk-downloads airline logos.",
		Long: `logofetch scrapes the paginated airline-designator reference pages into a
single normalized CSV, then uses the extracted IATA codes to bulk-download
per-airline logo images from a configurable base URL.`,

		// Runs AFTER config is loaded but BEFORE the subcommand's RunE:
		// the right place to build the run-scoped logger.
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.InitLogger(viper.GetBool("logging.development"))
			logger := logging.L.With(zap.String("run_id", uuid.NewString()))
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey, logger))
		},
	}

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		config.InitConfig()
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.logofetch/config.yaml)")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newLogosCmd())

	return cmd
}

// resolveLogger returns the run-scoped logger stored by the root command.
func resolveLogger(ctx context.Context) (*zap.Logger, error) {
	logger, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || logger == nil {
		return nil, errors.New("run logger not initialized")
	}
	return logger, nil
}

// Execute is the main entry point.
func Execute() {
	// Default production logger so failures before the pre-run hook still
	// reach stderr. PersistentPreRun reconfigures it once config is loaded.
	logging.InitLogger(false)

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
