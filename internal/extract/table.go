// Package extract locates airline-code tables inside fetched HTML documents.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MarkerColumn is the header cell that identifies a qualifying table and,
// later, the column airline codes are read from.
const MarkerColumn = "IATA"

// Table holds the extraction result for one qualifying table: its header
// cells and all non-empty data rows, as whitespace-normalized text.
type Table struct {
	Header []string
	Rows   [][]string
}

// FindCodeTable parses an HTML document and returns the first wiki-style data
// table whose first row contains the marker column. A document with no
// qualifying table yields (nil, nil); that is a valid negative result, not an
// error. Later qualifying tables in the same document are ignored.
func FindCodeTable(body []byte) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var result *Table
	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}

		header := cellTexts(rows.First(), "th, td")
		if !hasMarker(header) {
			return true
		}

		var data [][]string
		rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
			row := cellTexts(tr, "td")
			if len(row) > 0 {
				data = append(data, row)
			}
		})

		result = &Table{Header: header, Rows: data}
		return false
	})

	return result, nil
}

func hasMarker(header []string) bool {
	for _, cell := range header {
		if strings.EqualFold(strings.TrimSpace(cell), MarkerColumn) {
			return true
		}
	}
	return false
}

func cellTexts(row *goquery.Selection, selector string) []string {
	var cells []string
	row.Find(selector).Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, CellText(cell))
	})
	return cells
}

// CellText flattens a cell to comparison-safe text: every descendant text
// node joined with single spaces, then whitespace runs collapsed and the
// result trimmed. Nested markup (links, spans, footnote markers) cannot
// change the output.
func CellText(cell *goquery.Selection) string {
	var parts []string
	for _, node := range cell.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
