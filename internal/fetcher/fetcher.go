// Package fetcher owns the outbound HTTP session used for every search
// request in a batch run. One collector is reused across all rows so
// connection setup is paid once; requests go out with a rotating mobile
// user agent and browser-like headers.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/corractor-del/avito-price-analyzer/internal/models"
)

// Config carries the immutable fetch settings for one run.
type Config struct {
	// SearchURL is the mobile search endpoint without a query,
	// e.g. https://m.avito.ru/rossiya
	SearchURL         string
	Timeout           time.Duration
	RequestsPerMinute int
	UserAgents        []string
}

// Service fetches search-result pages. It is not safe for concurrent use;
// the pipeline driver is the only caller and processes rows one at a time.
type Service struct {
	collector  *colly.Collector
	limiter    *rate.Limiter
	userAgents []string
	rng        *rand.Rand
	searchURL  *url.URL
	log        *slog.Logger

	// capture slots for the current Visit
	body     string
	fetchErr error
}

// NewService builds the shared session. The allowed domain is derived from
// the configured search URL so the same code talks to a test server.
func NewService(cfg Config, log *slog.Logger) (*Service, error) {
	base, err := url.Parse(cfg.SearchURL)
	if err != nil || base.Hostname() == "" {
		return nil, fmt.Errorf("invalid search url %q", cfg.SearchURL)
	}
	if len(cfg.UserAgents) == 0 {
		return nil, fmt.Errorf("at least one user agent is required")
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	s := &Service{
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		userAgents: cfg.UserAgents,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		searchURL:  base,
		log:        log,
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.userAgents[s.rng.Intn(len(s.userAgents))])
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "ru-RU,ru;q=0.9,en-US;q=0.7,en;q=0.6")
		r.Headers.Set("Cache-Control", "no-cache")
		r.Headers.Set("DNT", "1")
		r.Headers.Set("Upgrade-Insecure-Requests", "1")
		s.log.Info("visiting search page", "url", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		body := string(r.Body)
		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if !strings.Contains(contentType, "html") && !strings.Contains(strings.ToLower(body), "<html") {
			s.fetchErr = models.ErrNotHTML
			return
		}
		s.body = body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			s.fetchErr = fmt.Errorf("%w: %d", models.ErrUnexpectedStatus, r.StatusCode)
			return
		}
		s.fetchErr = fmt.Errorf("%w: %v", models.ErrFetchFailed, err)
	})

	s.collector = c
	return s, nil
}

// SearchURL builds the search URL for a free-form query.
func (s *Service) SearchURL(query string) string {
	return s.searchURL.String() + "?q=" + url.QueryEscape(query)
}

// BaseURL returns the origin used to resolve relative listing hrefs.
func (s *Service) BaseURL() string {
	return s.searchURL.Scheme + "://" + s.searchURL.Host
}

// Fetch retrieves the page behind pageURL and returns its text, or a typed
// failure the caller can treat as "no document for this row". It never
// retries; the pacing limiter is honored before the request goes out.
func (s *Service) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	s.body, s.fetchErr = "", nil
	if err := s.collector.Visit(pageURL); err != nil && s.fetchErr == nil {
		s.fetchErr = fmt.Errorf("%w: %v", models.ErrFetchFailed, err)
	}
	s.collector.Wait()

	if s.fetchErr != nil {
		s.log.Warn("fetch failed", "url", pageURL, "error", s.fetchErr)
		return "", s.fetchErr
	}
	if s.body == "" {
		return "", models.ErrFetchFailed
	}
	return s.body, nil
}
