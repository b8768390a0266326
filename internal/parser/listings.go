// Package parser turns raw Avito search-result pages into structured
// listings. The site's markup is not stable, so every step works through an
// ordered chain of fallback selectors and the package as a whole never
// fails: a page it cannot make sense of yields an empty slice.
package parser

import (
	"hash/fnv"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

var (
	// Trailing digit run of an item URL, e.g. .../telefony/iphone_12_2345678901
	itemIDRegex = regexp.MustCompile(`_(\d+)/?$|/(\d+)/?$`)
	digitsRegex = regexp.MustCompile(`\d+`)
)

// botChallengeMarkers are lowercase fragments of known Avito anti-automation
// interstitials. A page showing one of them carries no listings, so extraction
// stops before any selector work.
var botChallengeMarkers = []string{
	"доступ ограничен",
	"подтвердите, что вы не робот",
	"запросы, поступившие с вашего ip-адреса",
	"проблема с ip",
	"captcha",
}

// candidateSelectors are tried most specific first. All matches are unioned
// and deduplicated, so a page where Avito renamed half its classes still
// yields whatever cards remain recognizable.
var candidateSelectors = []string{
	`div[data-marker="item"]`,
	`div[data-marker="item-card"]`,
	`div.iva-item-root`,
	`div[class*="item"]`,
	`article`,
}

// titleLinkSelectors locate the anchor that carries both title and URL.
var titleLinkSelectors = []string{
	`a[data-marker="item-title"]`,
	`a[itemprop="url"]`,
	`a[href]`,
}

// priceSelectors go from machine-readable metadata to marked price elements.
// The candidate's full text is scanned for a rouble amount only after all of
// them come up empty.
var priceSelectors = []string{
	`meta[itemprop="price"]`,
	`[data-marker="item-price"]`,
	`span.price-text`,
	`span[data-marker*="price"]`,
	`span[itemprop="price"]`,
}

// ExtractListings converts one raw search-result document into candidate
// listings, at most limit of them. Candidates lacking both a title and a URL
// are dropped; a missing price keeps the candidate but leaves Price nil.
// Relative hrefs are resolved against baseURL.
func ExtractListings(htmlContent, baseURL string, limit int) []models.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	if isBotChallenge(doc) {
		return nil
	}

	var base *url.URL
	if baseURL != "" {
		base, _ = url.Parse(baseURL)
	}

	seen := make(map[string]struct{})
	var listings []models.Listing
	for _, selector := range candidateSelectors {
		doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
			key := candidateKey(item)
			if _, ok := seen[key]; ok {
				return
			}
			seen[key] = struct{}{}

			if listing, ok := parseCandidate(item, base); ok {
				listings = append(listings, listing)
			}
		})
	}

	// Sometimes listings render outside every known container. One pass
	// over plain item links salvages at least titles and URLs.
	if len(listings) == 0 {
		listings = scanItemAnchors(doc, base, limit)
	}

	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings
}

// isBotChallenge reports whether the document is an anti-automation page
// rather than a search result.
func isBotChallenge(doc *goquery.Document) bool {
	visible := strings.ToLower(doc.Find("body").Text())
	if visible == "" {
		visible = strings.ToLower(doc.Text())
	}
	for _, marker := range botChallengeMarkers {
		if strings.Contains(visible, marker) {
			return true
		}
	}
	return false
}

// candidateKey picks the most stable identity available for deduplication:
// the item id when present, otherwise a hash of the fragment's text.
func candidateKey(item *goquery.Selection) string {
	if id, ok := item.Attr("data-item-id"); ok && id != "" {
		return "id:" + id
	}
	if href, ok := item.Find(`a[href*="/item"]`).First().Attr("href"); ok {
		if id := itemIDFromHref(href); id != "" {
			return "id:" + id
		}
	}
	h := fnv.New64a()
	h.Write([]byte(strings.TrimSpace(item.Text())))
	return "hash:" + strconv.FormatUint(h.Sum64(), 16)
}

func itemIDFromHref(href string) string {
	matches := itemIDRegex.FindStringSubmatch(href)
	if len(matches) > 2 {
		if matches[1] != "" {
			return matches[1]
		}
		return matches[2]
	}
	return ""
}

func parseCandidate(item *goquery.Selection, base *url.URL) (models.Listing, bool) {
	title, href := extractTitleAndURL(item)
	if title == "" && href == "" {
		return models.Listing{}, false
	}

	listing := models.Listing{
		Title: title,
		URL:   resolveURL(base, href),
		Price: extractPrice(item),
	}
	if id, ok := item.Attr("data-item-id"); ok && id != "" {
		listing.ID = id
	} else {
		listing.ID = itemIDFromHref(href)
	}
	return listing, true
}

// extractTitleAndURL walks the title-link fallback chain and returns the
// first anchor with an href. An anchor with no text of its own borrows the
// card's heading text.
func extractTitleAndURL(item *goquery.Selection) (string, string) {
	for _, selector := range titleLinkSelectors {
		link := item.Find(selector).First()
		if link.Length() == 0 {
			continue
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			continue
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(item.Find("h3, h2, div.title, div.snippet-title").First().Text())
		}
		return title, href
	}
	return "", ""
}

// extractPrice walks the price fallback chain. The last resort scans the
// candidate's entire text for a rouble sign and its digit runs.
func extractPrice(item *goquery.Selection) *int {
	for _, selector := range priceSelectors {
		node := item.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(node.Text())
		if text == "" {
			// itemprop meta elements hold the value in content=
			text = strings.TrimSpace(node.AttrOr("content", ""))
		}
		if text == "" {
			continue
		}
		if price, ok := parsePriceDigits(text); ok {
			return &price
		}
	}

	if text := item.Text(); strings.Contains(text, "₽") {
		if price, ok := parsePriceDigits(text); ok {
			return &price
		}
	}
	return nil
}

// parsePriceDigits concatenates every digit run in text, so grouped amounts
// like "12 500 ₽" (the separator is usually NBSP) come back as 12500. No
// digits means no price, never zero.
func parsePriceDigits(text string) (int, bool) {
	runs := digitsRegex.FindAllString(strings.ReplaceAll(text, " ", " "), -1)
	if len(runs) == 0 {
		return 0, false
	}
	value, err := strconv.Atoi(strings.Join(runs, ""))
	if err != nil {
		return 0, false
	}
	return value, true
}

// scanItemAnchors is the last-ditch discovery pass: any anchor pointing at an
// item page becomes a price-less listing.
func scanItemAnchors(doc *goquery.Document, base *url.URL, limit int) []models.Listing {
	var listings []models.Listing
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "/item") {
			return true
		}
		title := strings.TrimSpace(a.Text())
		if utf8.RuneCountInString(title) <= 3 {
			return true
		}
		listings = append(listings, models.Listing{
			ID:    itemIDFromHref(href),
			Title: title,
			URL:   resolveURL(base, href),
		})
		return limit <= 0 || len(listings) < limit
	})
	return listings
}

func resolveURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
