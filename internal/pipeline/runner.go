// Package pipeline drives the per-row analysis: tokens, fetch, extraction,
// selection, aggregation. Rows are processed strictly one at a time with a
// randomized pause between fetches, so the pipeline stays polite to the
// site no matter how long the catalog is.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/corractor-del/avito-price-analyzer/internal/matcher"
	"github.com/corractor-del/avito-price-analyzer/internal/models"
	"github.com/corractor-del/avito-price-analyzer/internal/parser"
	"github.com/corractor-del/avito-price-analyzer/internal/text"
)

// Fetcher is the outbound collaborator: given a fully formed search URL it
// returns the raw page text or a typed failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	SearchURL(query string) string
	BaseURL() string
}

// Config carries the tunables the runner needs per batch.
type Config struct {
	// Threshold is the minimum relevance score a listing must reach.
	Threshold float64
	// SelectLimit caps how many listings count toward one row's average.
	SelectLimit int
	// ExtractLimit caps how many candidates the extractor may return;
	// it is deliberately larger than SelectLimit.
	ExtractLimit int
	// DelayMin and DelayMax bound the randomized pause between fetches.
	DelayMin time.Duration
	DelayMax time.Duration
}

// Runner processes a catalog sequentially and streams status events.
type Runner struct {
	fetcher Fetcher
	cfg     Config
	events  chan Event
	rng     *rand.Rand
}

// NewRunner wires a runner around the given fetch collaborator.
func NewRunner(fetcher Fetcher, cfg Config) *Runner {
	return &Runner{
		fetcher: fetcher,
		cfg:     cfg,
		events:  make(chan Event, 64),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Events exposes the runner's status stream. The channel is closed once Run
// returns; consumers should drain it concurrently with Run.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Run processes every row in order and returns exactly one result per row,
// index-aligned with the input. Row-level failures produce all-absent
// results and never stop the batch; only cancellation aborts early, and even
// then the results gathered so far are returned.
func (r *Runner) Run(ctx context.Context, rows []models.CatalogRow) ([]models.RowResult, error) {
	defer close(r.events)

	results := make([]models.RowResult, len(rows))
	total := len(rows)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			r.events <- Event{Kind: EventDone, Err: err}
			return results, err
		}

		fetched := r.processRow(ctx, i, row, &results[i])
		r.events <- Event{Kind: EventProgress, RowIndex: i + 1, RowCount: total}

		if fetched && i < total-1 {
			if err := r.pause(ctx); err != nil {
				r.events <- Event{Kind: EventDone, Err: err}
				return results, err
			}
		}
	}

	r.events <- Event{Kind: EventDone}
	return results, nil
}

// processRow walks one row through the pipeline, writing into result on the
// way out. It reports whether a fetch was attempted so Run knows whether a
// pacing pause is owed. Every exit path leaves a status line behind.
func (r *Runner) processRow(ctx context.Context, idx int, row models.CatalogRow, result *models.RowResult) bool {
	if row.Empty() {
		r.logf("[%d] empty row, skipping", idx+1)
		return false
	}

	query := row.Query()
	tokens := text.Tokenize(row.Brand, row.Model)
	r.logf("[%d] searching: %s | tokens: %s", idx+1, query, joinOrDash(tokens))

	html, err := r.fetcher.Fetch(ctx, r.fetcher.SearchURL(query))
	if err != nil {
		r.logf("[%d] could not fetch results (site protection?): %v", idx+1, err)
		return true
	}

	candidates := parser.ExtractListings(html, r.fetcher.BaseURL(), r.cfg.ExtractLimit)
	if len(candidates) == 0 {
		r.logf("[%d] nothing found for this query", idx+1)
		return true
	}

	selected := matcher.SelectRelevant(candidates, tokens, r.cfg.Threshold, r.cfg.SelectLimit)
	if len(selected) == 0 {
		r.logf("[%d] found %d listings but none matched the configuration", idx+1, len(candidates))
		return true
	}

	*result = matcher.Aggregate(selected, row.Cost)
	r.logf("[%d] counted %d listings; average: %s; cheapest: %s",
		idx+1, len(selected), formatRoubles(result.AvgPrice), cheapestOf(selected))
	return true
}

// pause sleeps a uniformly random duration from the configured interval,
// waking up early on cancellation.
func (r *Runner) pause(ctx context.Context) error {
	delay := r.cfg.DelayMin
	if jitter := r.cfg.DelayMax - r.cfg.DelayMin; jitter > 0 {
		delay += time.Duration(r.rng.Int63n(int64(jitter)))
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Runner) logf(format string, args ...any) {
	r.events <- Event{Kind: EventLog, Line: fmt.Sprintf(format, args...)}
}

func joinOrDash(tokens []string) string {
	if len(tokens) == 0 {
		return "—"
	}
	return strings.Join(tokens, ", ")
}

func formatRoubles(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f ₽", *v)
}

func cheapestOf(selected []models.Listing) string {
	var cheapest *int
	for _, l := range selected {
		if l.Price == nil {
			continue
		}
		if cheapest == nil || *l.Price < *cheapest {
			cheapest = l.Price
		}
	}
	if cheapest == nil {
		return "—"
	}
	return fmt.Sprintf("%d ₽", *cheapest)
}
