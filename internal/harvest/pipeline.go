package harvest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/airborne-data/logofetch/internal/dataset"
	"github.com/airborne-data/logofetch/internal/downloader"
	"github.com/airborne-data/logofetch/internal/extract"
	"github.com/airborne-data/logofetch/internal/fetch"
	"github.com/airborne-data/logofetch/internal/metrics"
)

// ErrNoTables is returned when no reference page yields a qualifying table,
// leaving the run with no header to build a dataset around.
var ErrNoTables = errors.New("harvest: no pages yielded an airline-code table")

// Fetcher retrieves a single document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Document, error)
}

// Pipeline wires the fetcher, extractor, dataset writer, and downloader into
// the end-to-end harvest flow.
type Pipeline struct {
	cfg     Config
	fetcher Fetcher
	logger  *zap.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(cfg Config, fetcher Fetcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Scrape fetches every reference page in order and merges their table rows.
// The pages are fetched strictly sequentially; the corpus is small and the
// source site dislikes bursts. The returned header comes from the first page
// that yields a qualifying table and interprets every later page's rows,
// whatever their own tables' shapes. Per-page failures cost that page's rows
// and nothing else; Scrape fails only when no page qualified at all.
func (p *Pipeline) Scrape(ctx context.Context) ([]string, [][]string, error) {
	var header []string
	var rows [][]string

	for _, suffix := range Suffixes() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		url := p.cfg.DocumentURL(suffix)
		p.logger.Info("fetching page", zap.String("url", url))

		doc, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			metrics.DocumentsFailed.Inc()
			p.logger.Warn("page fetch failed", zap.String("url", url), zap.Error(err))
			continue
		}

		table, err := extract.FindCodeTable(doc.Body)
		if err != nil {
			metrics.DocumentsFailed.Inc()
			p.logger.Warn("page parse failed", zap.String("url", url), zap.Error(err))
			continue
		}
		if table == nil {
			metrics.DocumentsWithoutTable.Inc()
			p.logger.Warn("no airline-code table on page", zap.String("url", url))
			continue
		}

		metrics.DocumentsFetched.Inc()
		if header == nil {
			header = table.Header
		}
		rows = append(rows, table.Rows...)
	}

	if header == nil {
		return nil, nil, ErrNoTables
	}
	return header, rows, nil
}

// WriteDataset persists the merged table to the configured CSV path.
func (p *Pipeline) WriteDataset(header []string, rows [][]string) error {
	if err := dataset.WriteNormalized(p.cfg.CSVPath, header, rows); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	metrics.RowsWritten.Add(float64(len(rows)))
	p.logger.Info("dataset written",
		zap.String("path", p.cfg.CSVPath),
		zap.Int("columns", len(header)),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// Download re-reads the dataset, collects the validated code set, and runs
// the bounded logo download. The returned summary counts per-code outcomes;
// individual download failures never surface as an error here.
func (p *Pipeline) Download(ctx context.Context, baseLogoURL string) (downloader.Summary, error) {
	codes, err := dataset.CollectCodes(p.cfg.CSVPath, extract.MarkerColumn)
	if err != nil {
		return downloader.Summary{}, fmt.Errorf("collect codes: %w", err)
	}
	p.logger.Info("collected airline codes", zap.Int("count", len(codes)))

	d, err := downloader.New(downloader.Config{
		BaseURL:     baseLogoURL,
		OutputDir:   p.cfg.OutputDir,
		Extension:   p.cfg.LogoExtension,
		Concurrency: p.cfg.DownloadConcurrency,
		UserAgent:   p.cfg.UserAgent,
		Timeout:     p.cfg.RequestTimeout,
	}, p.logger)
	if err != nil {
		return downloader.Summary{}, fmt.Errorf("init downloader: %w", err)
	}

	summary := d.Run(ctx, codes)
	p.logger.Info("logo downloads finished",
		zap.Int("saved", summary.Saved),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// Run executes the full pipeline: scrape, write the dataset, then download
// logos against baseLogoURL.
func (p *Pipeline) Run(ctx context.Context, baseLogoURL string) error {
	header, rows, err := p.Scrape(ctx)
	if err != nil {
		return err
	}
	if err := p.WriteDataset(header, rows); err != nil {
		return err
	}
	if _, err := p.Download(ctx, baseLogoURL); err != nil {
		return err
	}
	return nil
}
