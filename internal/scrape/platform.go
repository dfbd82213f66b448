package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

// maxScopeRunes bounds the node text considered by the platform-scoped pass;
// anything larger is a layout container, not a listing row.
const maxScopeRunes = 600

var platformMarkers = []string{
	"メルカリ",
	"ヤフオク",
	"Yahoo!オークション",
}

// メルカリShops rows are active storefront stock, not sold auctions, and the
// Yahoo!ショッピング vertical is fixed-price retail; both share vocabulary
// with the markers above and must be screened out explicitly.
var excludedMarkers = []string{
	"メルカリShops",
	"メルカリ Shops",
	"メルカリショップス",
	"Yahoo!ショッピング",
	"ヤフーショッピング",
}

// platformStrategy is the loosened second pass: any generic row-like element
// whose text names one of the target marketplaces.
type platformStrategy struct {
	baseURL string
	lim     limits
}

var platformScopeSelectors = []string{"li", "tr", "article", "section", "div"}

func (s *platformStrategy) Name() string { return "platform" }

func (s *platformStrategy) Extract(document, query string) []models.RawListing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil
	}

	for _, selector := range platformScopeSelectors {
		nodes := doc.Find(selector)
		if nodes.Length() == 0 {
			continue
		}
		if listings := collectListings(nodes, s.baseURL, s.lim, platformScoped); len(listings) > 0 {
			return listings
		}
	}
	return nil
}

func platformScoped(text string) bool {
	if utf8.RuneCountInString(text) > maxScopeRunes {
		return false
	}
	if !containsAny(text, platformMarkers) {
		return false
	}
	return !containsAny(text, excludedMarkers)
}

// DetectPlatform classifies a text fragment by marketplace. Evaluated once
// per candidate node.
func DetectPlatform(text string) models.Platform {
	if strings.Contains(text, "ヤフオク") || strings.Contains(text, "Yahoo!オークション") {
		return models.PlatformYahooAuction
	}
	if strings.Contains(text, "メルカリ") && !containsAny(text, excludedMarkers) {
		return models.PlatformMercari
	}
	return models.PlatformUnknown
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
