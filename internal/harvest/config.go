// Package harvest orchestrates the scrape-normalize-download pipeline.
package harvest

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a harvest run. All values
// originate from Viper so the pipeline can be configured via file, env vars,
// or CLI flags.
type Config struct {
	WikiBaseURL         string
	UserAgent           string
	CSVPath             string
	OutputDir           string
	LogoExtension       string
	DownloadConcurrency int
	RequestTimeout      time.Duration
	MetricsAddr         string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		WikiBaseURL:         v.GetString("harvest.wiki_base_url"),
		UserAgent:           v.GetString("harvest.user_agent"),
		CSVPath:             v.GetString("harvest.csv_path"),
		OutputDir:           v.GetString("harvest.output_dir"),
		LogoExtension:       v.GetString("harvest.logo_extension"),
		DownloadConcurrency: v.GetInt("download.concurrency"),
		RequestTimeout:      v.GetDuration("http.timeout"),
		MetricsAddr:         v.GetString("metrics.addr"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.WikiBaseURL == "" {
		return fmt.Errorf("harvest.wiki_base_url must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("harvest.user_agent must be set")
	}
	if c.CSVPath == "" {
		return fmt.Errorf("harvest.csv_path must be set")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("harvest.output_dir must be set")
	}
	if c.LogoExtension == "" {
		return fmt.Errorf("harvest.logo_extension must be set")
	}
	if c.DownloadConcurrency <= 0 {
		return fmt.Errorf("download.concurrency must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	return nil
}

// DigitSuffix is the page token covering designators that start with a digit.
// The source titles it "0–9" with an en dash, hence the percent-encoding.
const DigitSuffix = "0%E2%80%939"

// Suffixes returns the fixed list of 27 document identifiers: the digit page
// followed by one page per letter A through Z.
func Suffixes() []string {
	suffixes := make([]string, 0, 27)
	suffixes = append(suffixes, DigitSuffix)
	for c := 'A'; c <= 'Z'; c++ {
		suffixes = append(suffixes, string(c))
	}
	return suffixes
}

// DocumentURL forms the fetchable URL for one suffix.
func (c Config) DocumentURL(suffix string) string {
	return c.WikiBaseURL + "(" + suffix + ")"
}
