// Package workbook reads the product catalog from an xlsx file and writes
// the analyzed copy back out with the three derived columns, currency and
// percentage number formats and per-tier row highlighting.
package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

var costJunkRegex = regexp.MustCompile(`[^0-9.\-]`)

// ReadCatalog loads the input sheet. There is no header row: column A is the
// brand, B the model text, C the purchase cost. A sheet narrower than three
// columns rejects the whole batch with models.ErrInputShape.
func ReadCatalog(path string) ([]models.CatalogRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 3 {
		return nil, models.ErrInputShape
	}

	catalog := make([]models.CatalogRow, 0, len(rows))
	for _, row := range rows {
		catalog = append(catalog, models.CatalogRow{
			Brand: cell(row, 0),
			Model: cell(row, 1),
			Cost:  parseCost(cell(row, 2)),
		})
	}
	return catalog, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCost coerces a workbook cell to a number. Space and NBSP group
// separators are dropped, a comma decimal separator is accepted. An
// unparsable cell means "no cost", never zero.
func parseCost(raw string) *float64 {
	s := strings.NewReplacer(" ", "", " ", "", ",", ".").Replace(raw)
	s = costJunkRegex.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
