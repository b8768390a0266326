// Package matcher scores extracted listings against a row's token set,
// selects the relevant ones and reduces them to the row's numeric outcome.
package matcher

import (
	"sort"
	"strings"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
	"github.com/corractor-del/avito-price-analyzer/internal/text"
)

// Score reports which share of the required tokens occur as substrings of
// the normalized listing title. The result is always in [0, 1]; an empty
// token set never matches anything.
func Score(title string, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	normalized := text.Normalize(title)
	hits := 0
	for _, token := range tokens {
		if strings.Contains(normalized, token) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// SelectRelevant scores every priced candidate, keeps those at or above
// threshold and returns at most limit listings, best match first. Price-less
// candidates are excluded up front; ties keep discovery order.
func SelectRelevant(candidates []models.Listing, tokens []string, threshold float64, limit int) []models.Listing {
	scored := make([]models.ScoredListing, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Price == nil {
			continue
		}
		scored = append(scored, models.ScoredListing{
			Listing: candidate,
			Score:   Score(candidate.Title, tokens),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	selected := make([]models.Listing, 0, len(scored))
	for _, s := range scored {
		if s.Score < threshold {
			break
		}
		selected = append(selected, s.Listing)
		if limit > 0 && len(selected) >= limit {
			break
		}
	}
	return selected
}
