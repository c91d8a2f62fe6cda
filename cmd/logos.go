package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airborne-data/logofetch/internal/harvest"
)

// newLogosCmd creates the 'logos' subcommand: download images for the codes
// in an existing dataset CSV.
func newLogosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logos <base-logo-url>",
		Short: "Download logos for an existing dataset CSV",
		Long: `Re-reads the dataset CSV written by 'logofetch scrape', collects the
deduplicated IATA codes, and downloads <base-logo-url><CODE>.png for each of
them with bounded concurrency.`,
		Example: "  logofetch logos https://cdn.example.com/logos/",
		Args:    cobra.ExactArgs(1),
		RunE:    runLogosCommand,
	}
}

func runLogosCommand(cmd *cobra.Command, args []string) error {
	logger, err := resolveLogger(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := harvest.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if _, err := pipeline.Download(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("download logos: %w", err)
	}
	logger.Info("Logo download finished.")
	return nil
}
