package workbook

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

const (
	yellowFill = "FFF9C4"
	greenFill  = "C8E6C9"

	currencyFormat = `#,##0" ₽"`
	percentFormat  = `0.00" %"`
)

var columnWidths = map[string]float64{
	"A": 20, "B": 50, "C": 14, "D": 16, "E": 12, "F": 50,
}

// OutputPath derives the result filename next to the input file. Unknown
// extensions are forced to .xlsx.
func OutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	if lower := strings.ToLower(ext); lower != ".xlsx" && lower != ".xls" {
		ext = ".xlsx"
	}
	return base + suffix + ext
}

// WriteResults writes the catalog back out with columns D (average price),
// E (markup percent) and F (cheapest listing URL) appended, shading each row
// by its highlight tier. If styling fails the plain values are still saved:
// a degraded file beats no file.
func WriteResults(path string, rows []models.CatalogRow, results []models.RowResult, log *slog.Logger) error {
	if len(rows) != len(results) {
		return fmt.Errorf("row/result count mismatch: %d vs %d", len(rows), len(results))
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		n := i + 1
		if err := setRowValues(f, sheet, n, row, results[i]); err != nil {
			return fmt.Errorf("write row %d: %w", n, err)
		}
	}

	if err := applyFormatting(f, sheet, results); err != nil {
		log.Warn("could not apply formatting, saving plain values", "error", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRowValues(f *excelize.File, sheet string, n int, row models.CatalogRow, result models.RowResult) error {
	cells := map[string]any{
		"A": row.Brand,
		"B": row.Model,
	}
	if row.Cost != nil {
		cells["C"] = *row.Cost
	}
	if result.AvgPrice != nil {
		cells["D"] = *result.AvgPrice
	}
	if result.MarkupPercent != nil {
		cells["E"] = *result.MarkupPercent
	}
	if result.CheapestURL != nil {
		cells["F"] = *result.CheapestURL
	}

	for col, value := range cells {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, n), value); err != nil {
			return err
		}
	}
	return nil
}

// rowStyles are the excelize style ids for one highlight tier.
type rowStyles struct {
	text     int
	currency int
	percent  int
}

func applyFormatting(f *excelize.File, sheet string, results []models.RowResult) error {
	for col, width := range columnWidths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	styles, err := buildStyles(f)
	if err != nil {
		return err
	}

	for i, result := range results {
		n := i + 1
		st := styles[models.Classify(result.MarkupPercent)]
		if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", n), fmt.Sprintf("B%d", n), st.text); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", n), fmt.Sprintf("D%d", n), st.currency); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", n), fmt.Sprintf("E%d", n), st.percent); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("F%d", n), fmt.Sprintf("F%d", n), st.text); err != nil {
			return err
		}
	}
	return nil
}

// buildStyles registers one text/currency/percent style triple per tier, so
// a highlighted cell keeps its number format and vice versa.
func buildStyles(f *excelize.File) (map[models.HighlightTier]rowStyles, error) {
	fills := map[models.HighlightTier]string{
		models.HighlightNone:   "",
		models.HighlightYellow: yellowFill,
		models.HighlightGreen:  greenFill,
	}

	styles := make(map[models.HighlightTier]rowStyles, len(fills))
	for tier, color := range fills {
		base := excelize.Style{}
		if color != "" {
			base.Fill = excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
		}

		text, err := f.NewStyle(&base)
		if err != nil {
			return nil, err
		}

		currencyStyle := base
		fmtCurrency := currencyFormat
		currencyStyle.CustomNumFmt = &fmtCurrency
		currency, err := f.NewStyle(&currencyStyle)
		if err != nil {
			return nil, err
		}

		percentStyle := base
		fmtPercent := percentFormat
		percentStyle.CustomNumFmt = &fmtPercent
		percent, err := f.NewStyle(&percentStyle)
		if err != nil {
			return nil, err
		}

		styles[tier] = rowStyles{text: text, currency: currency, percent: percent}
	}
	return styles, nil
}
