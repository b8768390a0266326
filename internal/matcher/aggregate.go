package matcher

import (
	"math"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

// Aggregate reduces the selected listings to one row result: the average of
// their prices rounded to kopecks, the markup over the purchase cost and the
// cheapest listing's URL. Markup stays absent when the cost is missing or
// zero; everything stays absent when nothing was selected.
func Aggregate(selected []models.Listing, cost *float64) models.RowResult {
	var result models.RowResult
	if len(selected) == 0 {
		return result
	}

	sum := 0
	count := 0
	cheapest := -1
	for i, listing := range selected {
		if listing.Price == nil {
			continue
		}
		sum += *listing.Price
		count++
		if cheapest < 0 || *listing.Price < *selected[cheapest].Price {
			cheapest = i
		}
	}
	if count == 0 {
		return result
	}

	avg := math.Round(float64(sum)/float64(count)*100) / 100
	result.AvgPrice = &avg

	if cost != nil && *cost != 0 {
		markup := (avg - *cost) / *cost * 100
		result.MarkupPercent = &markup
	}

	cheapestURL := selected[cheapest].URL
	result.CheapestURL = &cheapestURL
	return result
}
