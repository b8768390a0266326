package models

// Listing represents an individual search-result advertisement from Avito.ru
type Listing struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url"`
	// Price is the asking price in whole roubles. It stays nil when the
	// card exposed no digits at all; nil is never the same as zero.
	Price *int `json:"price,omitempty"`
}

// ScoredListing pairs a listing with its relevance score while the selection
// step runs. It never leaves that step.
type ScoredListing struct {
	Listing
	Score float64 `json:"score"`
}
