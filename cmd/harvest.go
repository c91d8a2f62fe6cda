package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/airborne-data/logofetch/internal/fetch"
	"github.com/airborne-data/logofetch/internal/harvest"
	"github.com/airborne-data/logofetch/internal/metrics"
)

// newHarvestCmd creates the 'harvest' subcommand: the full pipeline, from
// scraping the reference pages to downloading the logo set.
func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest <base-logo-url>",
		Short: "Scrape airline codes and download all logos",
		Long: `Scrapes every airline-designator reference page into a normalized CSV,
collects the deduplicated IATA codes, and downloads <base-logo-url><CODE>.png
for each of them with bounded concurrency.`,
		Example: "  logofetch harvest https://cdn.example.com/logos/",
		Args:    cobra.ExactArgs(1),
		RunE:    runHarvestCommand,
	}
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while the run is in flight")
	_ = viper.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))
	return cmd
}

func runHarvestCommand(cmd *cobra.Command, args []string) error {
	logger, err := resolveLogger(cmd.Context())
	if err != nil {
		return err
	}

	cfg, err := harvest.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, logger)
	}

	pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if err := pipeline.Run(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("run harvest: %w", err)
	}
	logger.Info("Harvest finished.")
	return nil
}

func buildPipeline(cfg harvest.Config, logger *zap.Logger) (*harvest.Pipeline, error) {
	fetcher, err := fetch.NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	return harvest.NewPipeline(cfg, fetcher, logger), nil
}

// serveMetrics exposes /metrics for the duration of the run. The listener
// dies with the process; a one-shot tool has no graceful-shutdown story.
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
}
