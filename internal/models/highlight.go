package models

// HighlightTier is the visual bucket a row lands in based on its markup.
// The report writer shades the whole row with the tier's fill color.
type HighlightTier int

const (
	HighlightNone HighlightTier = iota
	HighlightYellow
	HighlightGreen
)

// Classify maps a markup percentage to its highlight tier. Lower bounds are
// inclusive: 5.00 is already yellow, 10.00 is already green. A missing markup
// is never highlighted.
func Classify(markupPercent *float64) HighlightTier {
	if markupPercent == nil {
		return HighlightNone
	}
	switch {
	case *markupPercent >= 10.0:
		return HighlightGreen
	case *markupPercent >= 5.0:
		return HighlightYellow
	default:
		return HighlightNone
	}
}
