package scrape

import (
	"strings"
	"unicode/utf8"

	"github.com/modinc01/go-nogo-scraper/internal/models"
	"golang.org/x/net/html"
)

// maxAnchorClimb bounds the search for an enclosing link around a price
// fragment.
const maxAnchorClimb = 4

// fullTextStrategy is the last resort: scan every text node for a
// yen-suffixed amount and reconstruct a listing from its surroundings.
type fullTextStrategy struct {
	baseURL    string
	lim        limits
	adKeywords []string
}

func (s *fullTextStrategy) Name() string { return "fulltext" }

func (s *fullTextStrategy) Extract(document, query string) []models.RawListing {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil
	}

	var listings []models.RawListing
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(listings) >= s.lim.maxListings {
			return
		}
		if n.Type == html.TextNode {
			if listing, ok := s.listingFromText(n); ok {
				listings = append(listings, listing)
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return listings
}

func (s *fullTextStrategy) listingFromText(n *html.Node) (models.RawListing, bool) {
	fragment := yenPattern.FindString(n.Data)
	if fragment == "" {
		return models.RawListing{}, false
	}

	price := NormalizePrice(fragment)
	if price < s.lim.minPrice || price > s.lim.maxPrice {
		return models.RawListing{}, false
	}

	title, href := s.candidateTitle(n, fragment)
	if utf8.RuneCountInString(title) < minTitleRunes {
		return models.RawListing{}, false
	}
	if matchesAdKeyword(title, s.adKeywords) {
		return models.RawListing{}, false
	}

	return models.RawListing{
		Title:     clipTitle(title),
		PriceText: fragment,
		DateText:  datePattern.FindString(n.Data),
		URL:       resolveURL(s.baseURL, href),
		Platform:  DetectPlatform(title),
	}, true
}

// candidateTitle prefers the nearest enclosing anchor; failing that it uses
// the text window around the price fragment, widening to the parent node
// when the remainder is too short to be a title.
func (s *fullTextStrategy) candidateTitle(n *html.Node, priceFragment string) (string, string) {
	parent := n.Parent
	for depth := 0; parent != nil && depth < maxAnchorClimb; depth++ {
		if parent.Type == html.ElementNode && strings.EqualFold(parent.Data, "a") {
			title := collapseSpace(strings.ReplaceAll(nodeText(parent), priceFragment, ""))
			return title, attrValue(parent, "href")
		}
		parent = parent.Parent
	}

	window := collapseSpace(strings.ReplaceAll(n.Data, priceFragment, ""))
	if utf8.RuneCountInString(window) < minTitleRunes && n.Parent != nil {
		window = collapseSpace(strings.ReplaceAll(nodeText(n.Parent), priceFragment, ""))
	}
	return window, ""
}

func nodeText(node *html.Node) string {
	if node == nil {
		return ""
	}
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
			builder.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
