package models

import "strings"

// CatalogRow is one line of the input workbook: column A is the brand,
// column B the model text with its specs, column C the purchase cost in
// roubles. Rows keep their ordinal position through the whole run.
type CatalogRow struct {
	Brand string
	Model string
	// Cost is nil when column C was empty or unparsable.
	Cost *float64
}

// Empty reports whether the row carries no searchable text at all.
func (r CatalogRow) Empty() bool {
	return strings.TrimSpace(r.Brand) == "" && strings.TrimSpace(r.Model) == ""
}

// Query returns the free-form search phrase sent to Avito for this row.
func (r CatalogRow) Query() string {
	return strings.TrimSpace(strings.TrimSpace(r.Brand) + " " + strings.TrimSpace(r.Model))
}

// RowResult holds the derived output columns for one catalog row. Nil fields
// mean "could not be determined", never zero.
type RowResult struct {
	AvgPrice      *float64
	MarkupPercent *float64
	CheapestURL   *string
}
