package workbook

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

func writeInput(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadCatalog(t *testing.T) {
	path := writeInput(t, [][]any{
		{"Apple", "iPhone 12, 128 ГБ, белый", 30000},
		{"Samsung", "Galaxy S21", "25 000,50"},
		{"", "", ""},
		{"Xiaomi", "Redmi 9", "не знаю"},
	})

	rows, err := ReadCatalog(path)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Apple", rows[0].Brand)
	assert.Equal(t, "iPhone 12, 128 ГБ, белый", rows[0].Model)
	require.NotNil(t, rows[0].Cost)
	assert.Equal(t, 30000.0, *rows[0].Cost)

	// comma decimal separator and space grouping
	require.NotNil(t, rows[1].Cost)
	assert.Equal(t, 25000.50, *rows[1].Cost)

	assert.True(t, rows[2].Empty())

	// unparsable cost becomes absent, not zero
	assert.Nil(t, rows[3].Cost)
}

func TestReadCatalogRejectsNarrowSheet(t *testing.T) {
	path := writeInput(t, [][]any{
		{"Apple", "iPhone 12"},
		{"Samsung", "Galaxy"},
	})

	_, err := ReadCatalog(path)
	assert.ErrorIs(t, err, models.ErrInputShape)
}

func TestReadCatalogMissingFile(t *testing.T) {
	_, err := ReadCatalog(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"30000", ptr(30000.0)},
		{"30 000", ptr(30000.0)},
		{"30 000", ptr(30000.0)},
		{"29999,99", ptr(29999.99)},
		{"1 234,5 руб", ptr(1234.5)},
		{"", nil},
		{"договорная", nil},
	}
	for _, tt := range tests {
		got := parseCost(tt.input)
		if tt.want == nil {
			assert.Nil(t, got, "parseCost(%q)", tt.input)
			continue
		}
		require.NotNil(t, got, "parseCost(%q)", tt.input)
		assert.Equal(t, *tt.want, *got, "parseCost(%q)", tt.input)
	}
}

func ptr[T any](v T) *T { return &v }

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "catalog_analyzed.xlsx", OutputPath("catalog.xlsx", "_analyzed"))
	assert.Equal(t, "dir/catalog_analyzed.xls", OutputPath("dir/catalog.xls", "_analyzed"))
	assert.Equal(t, "catalog_analyzed.xlsx", OutputPath("catalog.csv", "_analyzed"))
	assert.Equal(t, "catalog_analyzed.xlsx", OutputPath("catalog", "_analyzed"))
}

func TestWriteResultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.xlsx")

	rows := []models.CatalogRow{
		{Brand: "Apple", Model: "iPhone 12", Cost: ptr(30000.0)},
		{Brand: "Samsung", Model: "Galaxy S21", Cost: ptr(20000.0)},
		{Brand: "Пустая", Model: "строка"},
	}
	results := []models.RowResult{
		{AvgPrice: ptr(32000.0), MarkupPercent: ptr(6.67), CheapestURL: ptr("https://m.avito.ru/item/1")},
		{AvgPrice: ptr(23000.0), MarkupPercent: ptr(15.0), CheapestURL: ptr("https://m.avito.ru/item/2")},
		{},
	}

	log := slog.Default()
	require.NoError(t, WriteResults(outPath, rows, results, log))

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Apple", get("A1"))
	assert.Equal(t, "32000", get("D1"))
	assert.Equal(t, "6.67", get("E1"))
	assert.Equal(t, "https://m.avito.ru/item/1", get("F1"))

	// all-absent row keeps its derived cells empty
	assert.Equal(t, "", get("D3"))
	assert.Equal(t, "", get("E3"))
	assert.Equal(t, "", get("F3"))

	// highlighted rows carry a fill, the plain row does not
	style1, err := f.GetCellStyle(sheet, "A1")
	require.NoError(t, err)
	style3, err := f.GetCellStyle(sheet, "A3")
	require.NoError(t, err)
	assert.NotEqual(t, style1, style3)
}

func TestWriteResultsCountMismatch(t *testing.T) {
	err := WriteResults(filepath.Join(t.TempDir(), "out.xlsx"),
		[]models.CatalogRow{{Brand: "a"}}, nil, slog.Default())
	assert.Error(t, err)
}
