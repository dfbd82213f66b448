package scrape

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

const (
	minTitleRunes = 3
	maxTitleRunes = 100
)

// yenPattern matches a yen-suffixed amount in either digit width.
var yenPattern = regexp.MustCompile(`[0-9０-９][0-9,，０-９]*\s*円`)

// datePattern is the loose fallback when no date element matched; it accepts
// the absolute date shapes MonthsAgo understands.
var datePattern = regexp.MustCompile(`\d{4}年\s*\d{1,2}月(?:\s*\d{1,2}日)?|\d{1,2}月\s*\d{1,2}日|\d{4}[/.-]\d{1,2}(?:[/.-]\d{1,2})?`)

type limits struct {
	maxListings int
	minPrice    int
	maxPrice    int
}

// Strategy is one structural extraction pass over a document. Strategies are
// ordered cheapest first; later ones are full-document scans.
type Strategy interface {
	Name() string
	Extract(document, query string) []models.RawListing
}

// Extractor applies its strategies in order and returns the first non-empty
// result. A document that yields nothing is an empty slice, not an error.
type Extractor struct {
	strategies []Strategy
}

func NewExtractor(cfg *config.Config) *Extractor {
	lim := limits{
		maxListings: cfg.Scrape.MaxListings,
		minPrice:    cfg.Scrape.MinPrice,
		maxPrice:    cfg.Scrape.MaxPrice,
	}
	return &Extractor{
		strategies: []Strategy{
			&structuredStrategy{baseURL: cfg.Site.BaseURL, lim: lim},
			&platformStrategy{baseURL: cfg.Site.BaseURL, lim: lim},
			&fullTextStrategy{baseURL: cfg.Site.BaseURL, lim: lim, adKeywords: cfg.Filter.AdKeywords},
		},
	}
}

func (e *Extractor) Extract(document, query string) []models.RawListing {
	for _, strategy := range e.strategies {
		if listings := strategy.Extract(document, query); len(listings) > 0 {
			return listings
		}
	}
	return nil
}

// collapseSpace trims and collapses all internal whitespace runs to single
// spaces.
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// clipTitle bounds a title to the stored maximum without splitting a rune.
func clipTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxTitleRunes])
}

func resolveURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

func matchesAdKeyword(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
