// Package dataset persists the merged airline-code table as CSV and reads
// validated codes back out of it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteNormalized writes the unified header followed by every data row,
// each normalized to the header's width. The file at path is overwritten.
// Downstream consumers assume fixed-width rows, so raggedness is never
// allowed through: long rows are truncated, short rows right-padded with
// empty cells.
func WriteNormalized(path string, header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("dataset header is empty")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(NormalizeRow(row, len(header))); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset %s: %w", path, err)
	}
	return nil
}

// NormalizeRow returns a copy of row with exactly width cells. The copy never
// aliases the source slice.
func NormalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
