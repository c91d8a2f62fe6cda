package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/airborne-data/logofetch/internal/harvest"
)

// newScrapeCmd creates the 'scrape' subcommand: reference pages to CSV only,
// no downloads.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape airline codes into the dataset CSV",
		Long: `Fetches every airline-designator reference page sequentially, extracts the
first qualifying code table per page, and writes all rows normalized under a
single header to the dataset CSV. Run 'logofetch logos' afterwards to download
images against the dataset.`,
		Args: cobra.NoArgs,
		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
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

	header, rows, err := pipeline.Scrape(cmd.Context())
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if err := pipeline.WriteDataset(header, rows); err != nil {
		return err
	}
	logger.Info("Scrape finished.")
	return nil
}
