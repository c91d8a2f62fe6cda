// Package downloader fetches per-airline logo images with bounded concurrency.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/airborne-data/logofetch/internal/metrics"
)

// Outcome classifies the result of a single logo download. Outcomes are
// independent per code and never abort the batch.
type Outcome string

// Per-code download outcomes.
const (
	OutcomeSaved   Outcome = "saved"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Result is the tagged outcome for one code.
type Result struct {
	Code    string
	Outcome Outcome
	Err     error
}

// Summary aggregates the per-code outcomes of a batch.
type Summary struct {
	Saved   int
	Skipped int
	Failed  int
}

// Config controls a download batch.
type Config struct {
	// BaseURL is the logo asset prefix. A trailing slash is appended if missing.
	BaseURL string
	// OutputDir receives one image file per saved code.
	OutputDir string
	// Extension is the image file extension without the dot. Default "png".
	Extension string
	// Concurrency caps the number of in-flight downloads. Default 12.
	Concurrency int
	UserAgent   string
	Timeout     time.Duration
}

// Downloader performs the bounded fan-out over a code set.
type Downloader struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New validates the config, creates the output directory, and returns a
// ready Downloader.
func New(cfg Config, logger *zap.Logger) (*Downloader, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base logo URL is required")
	}
	cfg.BaseURL = EnsureTrailingSlash(cfg.BaseURL)
	if cfg.Extension == "" {
		cfg.Extension = "png"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 12
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}
	return &Downloader{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// Run downloads one logo per code and returns the aggregated summary. Every
// code resolves to exactly one outcome; individual failures are logged and
// counted, never propagated. Run itself always succeeds once all codes have
// been dispatched and resolved.
func (d *Downloader) Run(ctx context.Context, codes map[string]struct{}) Summary {
	var (
		mu      sync.Mutex
		summary Summary
	)

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)

	for code := range codes {
		code := code
		g.Go(func() error {
			res := d.fetchOne(ctx, code)
			d.report(res)
			mu.Lock()
			switch res.Outcome {
			case OutcomeSaved:
				summary.Saved++
			case OutcomeSkipped:
				summary.Skipped++
			case OutcomeFailed:
				summary.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return summary
}

func (d *Downloader) fetchOne(ctx context.Context, code string) Result {
	url := d.cfg.BaseURL + code + "." + d.cfg.Extension

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Code: code, Outcome: OutcomeFailed, Err: err}
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{Code: code, Outcome: OutcomeFailed, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Result{Code: code, Outcome: OutcomeSkipped}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Result{Code: code, Outcome: OutcomeFailed, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Code: code, Outcome: OutcomeFailed, Err: fmt.Errorf("read body: %w", err)}
	}

	dst := filepath.Join(d.cfg.OutputDir, code+"."+d.cfg.Extension)
	if err := os.WriteFile(dst, body, 0o600); err != nil {
		return Result{Code: code, Outcome: OutcomeFailed, Err: fmt.Errorf("write %s: %w", dst, err)}
	}
	return Result{Code: code, Outcome: OutcomeSaved}
}

func (d *Downloader) report(res Result) {
	metrics.Downloads.WithLabelValues(string(res.Outcome)).Inc()
	switch res.Outcome {
	case OutcomeSaved:
		d.logger.Info("logo saved", zap.String("code", res.Code))
	case OutcomeSkipped:
		d.logger.Info("logo not found", zap.String("code", res.Code))
	case OutcomeFailed:
		d.logger.Warn("logo download failed", zap.String("code", res.Code), zap.Error(res.Err))
	}
}

// EnsureTrailingSlash appends "/" to s unless it already ends with one.
func EnsureTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
