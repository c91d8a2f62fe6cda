package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/airborne-data/logofetch/internal/fetch"
)

// fakeFetcher serves canned bodies keyed by URL and records fetch order.
type fakeFetcher struct {
	pages map[string][]byte
	order []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (fetch.Document, error) {
	f.order = append(f.order, url)
	body, ok := f.pages[url]
	if !ok {
		return fetch.Document{}, &fetch.StatusError{Code: http.StatusNotFound}
	}
	return fetch.Document{URL: url, Body: body}, nil
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		WikiBaseURL:         "http://wiki.test/List_of_airline_codes_",
		UserAgent:           "logofetch-test/1.0",
		CSVPath:             filepath.Join(dir, "airline_codes_all.csv"),
		OutputDir:           filepath.Join(dir, "airline_bitmaps"),
		LogoExtension:       "png",
		DownloadConcurrency: 4,
		RequestTimeout:      5 * time.Second,
	}
}

func codeTable(header string, rows ...string) []byte {
	var b strings.Builder
	b.WriteString(`<table class="wikitable"><tr>`)
	for _, h := range strings.Split(header, ",") {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range strings.Split(row, ",") {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return []byte(b.String())
}

func TestScrapeHeaderComesFromFirstQualifyingPage(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{
		cfg.DocumentURL("A"): codeTable("IATA,ICAO,Airline", "AA,AAL,American"),
		// Later page with a different shape: its rows still merge under the
		// first page's header.
		cfg.DocumentURL("B"): codeTable("IATA,Airline", "BA,British Airways"),
	}}

	header, rows, err := NewPipeline(cfg, fetcher, zap.NewNop()).Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"IATA", "ICAO", "Airline"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"AA", "AAL", "American"}, rows[0])
	assert.Equal(t, []string{"BA", "British Airways"}, rows[1])
}

func TestScrapeVisitsAllSuffixesInOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{
		cfg.DocumentURL("Q"): codeTable("IATA", "QF"),
	}}

	_, _, err := NewPipeline(cfg, fetcher, zap.NewNop()).Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, fetcher.order, 27)
	assert.Equal(t, cfg.DocumentURL(DigitSuffix), fetcher.order[0])
	assert.Equal(t, cfg.DocumentURL("A"), fetcher.order[1])
	assert.Equal(t, cfg.DocumentURL("Z"), fetcher.order[26])
}

func TestScrapePageWithoutTableContributesNothing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{
		cfg.DocumentURL("A"): []byte(`<table class="wikitable"><tr><th>Name</th></tr><tr><td>x</td></tr></table>`),
		cfg.DocumentURL("B"): codeTable("IATA", "BA"),
	}}

	header, rows, err := NewPipeline(cfg, fetcher, zap.NewNop()).Scrape(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"IATA"}, header)
	assert.Len(t, rows, 1)
}

func TestScrapeNoQualifyingPages(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{}}

	_, _, err := NewPipeline(cfg, fetcher, zap.NewNop()).Scrape(context.Background())
	assert.ErrorIs(t, err, ErrNoTables)
}

func TestScrapeCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{}}
	_, _, err := NewPipeline(cfg, fetcher, zap.NewNop()).Scrape(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logos/AA.png":
			_, _ = w.Write([]byte("aa-bytes"))
		case "/logos/BA.png":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{pages: map[string][]byte{
		cfg.DocumentURL("A"): codeTable("IATA,Airline", "AA,American", "aa,dup", "bogus!,skip me"),
		cfg.DocumentURL("B"): codeTable("IATA,Airline", "BA,British Airways"),
	}}

	p := NewPipeline(cfg, fetcher, zap.NewNop())
	require.NoError(t, p.Run(context.Background(), srv.URL+"/logos"))

	// Dataset exists with the unified header.
	csvBytes, err := os.ReadFile(cfg.CSVPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(csvBytes), "IATA,Airline\n"))

	// AA saved verbatim, BA skipped without a file.
	img, err := os.ReadFile(filepath.Join(cfg.OutputDir, "AA.png"))
	require.NoError(t, err)
	assert.Equal(t, "aa-bytes", string(img))
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "BA.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadMissingDataset(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	p := NewPipeline(cfg, &fakeFetcher{}, zap.NewNop())

	_, err := p.Download(context.Background(), "http://example.com/logos/")
	assert.Error(t, err)
}

func TestSuffixes(t *testing.T) {
	t.Parallel()

	suffixes := Suffixes()
	require.Len(t, suffixes, 27)
	assert.Equal(t, DigitSuffix, suffixes[0])
	assert.Equal(t, "A", suffixes[1])
	assert.Equal(t, "Z", suffixes[26])
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("harvest.wiki_base_url", "http://wiki.test/List_of_airline_codes_")
	v.Set("harvest.user_agent", "ua")
	v.Set("harvest.csv_path", "codes.csv")
	v.Set("harvest.output_dir", "bitmaps")
	v.Set("harvest.logo_extension", "png")
	v.Set("download.concurrency", 12)
	v.Set("http.timeout", "30s")

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.DownloadConcurrency)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://wiki.test/List_of_airline_codes_(A)", cfg.DocumentURL("A"))
}

func TestLoadConfigRejectsZeroConcurrency(t *testing.T) {
	t.Parallel()

	v := viper.New()
	v.Set("harvest.wiki_base_url", "u")
	v.Set("harvest.user_agent", "ua")
	v.Set("harvest.csv_path", "c")
	v.Set("harvest.output_dir", "d")
	v.Set("harvest.logo_extension", "png")
	v.Set("http.timeout", "30s")

	_, err := LoadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download.concurrency")
}
