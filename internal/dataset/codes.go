package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoMarkerColumn is returned when the dataset file lacks the column the
// caller asked for. This is fatal for the download phase: without the column
// there are no codes to work from.
var ErrNoMarkerColumn = errors.New("dataset: marker column not found")

// codeLength is the exact length of a valid airline designator.
const codeLength = 2

// CollectCodes re-reads the dataset file and returns the deduplicated set of
// valid codes found in the named column. Values are trimmed and upper-cased;
// anything that is not exactly two ASCII alphanumerics is silently skipped,
// as are rows too short to hold the column. Source data quality varies, so
// none of that is an error.
func CollectCodes(path, column string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoMarkerColumn
		}
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	idx := -1
	for i, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), column) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMarkerColumn, column)
	}

	codes := make(map[string]struct{})
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}
		if idx >= len(rec) {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(rec[idx]))
		if validCode(code) {
			codes[code] = struct{}{}
		}
	}
	return codes, nil
}

func validCode(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
