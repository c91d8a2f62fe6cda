// Package metrics exposes Prometheus collectors for the harvester.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentsFetched tracks reference pages fetched and parsed successfully.
	DocumentsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logofetch_documents_fetched_total",
		Help: "The total number of reference pages fetched successfully.",
	})
	// DocumentsFailed tracks reference pages that failed to fetch or parse.
	DocumentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logofetch_documents_failed_total",
		Help: "The total number of reference pages that failed to fetch.",
	})
	// DocumentsWithoutTable tracks pages that yielded no qualifying table.
	DocumentsWithoutTable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logofetch_documents_without_table_total",
		Help: "The total number of pages with no qualifying airline-code table.",
	})
	// RowsWritten tracks normalized rows written to the dataset file.
	RowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logofetch_rows_written_total",
		Help: "The total number of normalized rows written to the dataset.",
	})
	// Downloads tracks logo download outcomes, labeled by result.
	Downloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logofetch_downloads_total",
		Help: "The total number of logo downloads, labeled by outcome.",
	}, []string{"outcome"})
)

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
