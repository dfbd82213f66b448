package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

// The aggregator reshuffles its markup every few months; each historical
// container class stays on the list because old markup occasionally comes
// back on cached or regional pages.
var containerSelectors = []string{
	"div.item_outer",
	"li.product",
	"div.product",
	".itemlist .item",
	".results .result",
	"table.itemtable tr",
	"li.item",
	"div.l-products__item",
}

var titleSelectors = []string{
	".item_title",
	".product_title",
	"h3 a",
	".title a",
	"h3",
	".ttl",
}

var priceSelectors = []string{
	".price",
	".item_price",
	".product_price",
	"td.price",
	".prc",
}

var dateSelectors = []string{
	".date",
	".end_time",
	".datetime",
	"td.date",
	"time",
}

// structuredStrategy is the cheap first pass: known container classes with
// known sub-element classes.
type structuredStrategy struct {
	baseURL string
	lim     limits
}

func (s *structuredStrategy) Name() string { return "structured" }

func (s *structuredStrategy) Extract(document, query string) []models.RawListing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil
	}

	for _, selector := range containerSelectors {
		nodes := doc.Find(selector)
		if nodes.Length() == 0 {
			continue
		}
		if listings := collectListings(nodes, s.baseURL, s.lim, nil); len(listings) > 0 {
			return listings
		}
	}
	return nil
}

// collectListings derives at most one listing per candidate node. include,
// when non-nil, gates nodes by their text content before any field work.
func collectListings(nodes *goquery.Selection, baseURL string, lim limits, include func(string) bool) []models.RawListing {
	var listings []models.RawListing
	seen := make(map[string]struct{})

	nodes.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if len(listings) >= lim.maxListings {
			return false
		}
		text := node.Text()
		if include != nil && !include(text) {
			return true
		}

		listing, ok := listingFromNode(node, baseURL, lim)
		if !ok {
			return true
		}
		key := listing.Title + "|" + listing.PriceText
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}

		listing.Platform = DetectPlatform(text)
		listings = append(listings, listing)
		return true
	})

	return listings
}

func listingFromNode(node *goquery.Selection, baseURL string, lim limits) (models.RawListing, bool) {
	title := nodeTitle(node)
	if utf8.RuneCountInString(title) < minTitleRunes {
		return models.RawListing{}, false
	}

	priceText := nodePriceText(node)
	price := NormalizePrice(priceText)
	if price <= 0 || price < lim.minPrice || price > lim.maxPrice {
		return models.RawListing{}, false
	}

	return models.RawListing{
		Title:     clipTitle(title),
		PriceText: priceText,
		DateText:  nodeDateText(node),
		URL:       resolveURL(baseURL, nodeLink(node)),
	}, true
}

// nodeTitle tries the title sub-selector list in priority order; the first
// match of plausible length wins.
func nodeTitle(node *goquery.Selection) string {
	for _, selector := range titleSelectors {
		found := node.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		title := collapseSpace(found.Text())
		if utf8.RuneCountInString(title) >= minTitleRunes {
			return title
		}
	}
	if title := collapseSpace(node.Find("a[title]").First().AttrOr("title", "")); utf8.RuneCountInString(title) >= minTitleRunes {
		return title
	}
	return collapseSpace(node.Find("a").First().Text())
}

// nodePriceText returns the first sub-element fragment carrying the yen
// marker, falling back to a yen-amount match anywhere in the node text.
func nodePriceText(node *goquery.Selection) string {
	for _, selector := range priceSelectors {
		found := node.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		text := collapseSpace(found.Text())
		if strings.Contains(text, "円") {
			return text
		}
	}
	return yenPattern.FindString(node.Text())
}

func nodeDateText(node *goquery.Selection) string {
	for _, selector := range dateSelectors {
		found := node.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if text := collapseSpace(found.Text()); text != "" {
			return text
		}
	}
	return datePattern.FindString(node.Text())
}

func nodeLink(node *goquery.Selection) string {
	if href, ok := node.Attr("href"); ok {
		return href
	}
	return node.Find("a[href]").First().AttrOr("href", "")
}
