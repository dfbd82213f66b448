package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
	"github.com/modinc01/go-nogo-scraper/internal/scrape"
)

// Cleanser turns raw extracted listings into the cleansed set the report is
// built from. Cleanse is a pure function of its inputs: noise removal, then a
// recency window, then IQR-based outlier rejection.
type Cleanser struct {
	cfg config.FilterConfig
}

func New(cfg config.FilterConfig) *Cleanser {
	return &Cleanser{cfg: cfg}
}

func (c *Cleanser) Cleanse(raw []models.RawListing, now time.Time) []models.CleansedListing {
	survivors := c.removeNoise(raw, now)
	survivors = c.restrictRecency(survivors)
	return c.rejectOutliers(survivors)
}

// removeNoise drops advertisement-like and degenerate entries and attaches
// the normalized price and months-ago values.
func (c *Cleanser) removeNoise(raw []models.RawListing, now time.Time) []models.CleansedListing {
	survivors := make([]models.CleansedListing, 0, len(raw))
	for _, listing := range raw {
		title := strings.TrimSpace(listing.Title)
		if title == "" {
			continue
		}
		if c.isAdvertisement(title) {
			continue
		}

		price := scrape.NormalizePrice(listing.PriceText)
		if price <= 0 || price < c.cfg.MinPrice {
			continue
		}

		cleansed := models.CleansedListing{
			Title:    title,
			Price:    price,
			URL:      listing.URL,
			Platform: listing.Platform,
		}
		if months, ok := scrape.MonthsAgo(listing.DateText, now); ok {
			cleansed.MonthsAgo = &months
		}
		survivors = append(survivors, cleansed)
	}
	return survivors
}

func (c *Cleanser) isAdvertisement(title string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range c.cfg.AdKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// restrictRecency drops listings older than the configured window. Listings
// whose date never parsed keep the benefit of the doubt. When recency sorting
// is enabled, the set is ordered most-recent-first and truncated to the
// recent-K cap; otherwise extraction order is preserved.
func (c *Cleanser) restrictRecency(listings []models.CleansedListing) []models.CleansedListing {
	survivors := make([]models.CleansedListing, 0, len(listings))
	for _, listing := range listings {
		if listing.MonthsAgo != nil && *listing.MonthsAgo > c.cfg.RecencyMonths {
			continue
		}
		survivors = append(survivors, listing)
	}

	if c.cfg.SortByRecency {
		sort.SliceStable(survivors, func(i, j int) bool {
			a, b := survivors[i].MonthsAgo, survivors[j].MonthsAgo
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return *a < *b
			}
		})
		if len(survivors) > c.cfg.RecentLimit {
			survivors = survivors[:c.cfg.RecentLimit]
		}
	}

	return survivors
}

// rejectOutliers removes prices outside [Q1 - k*IQR, Q3 + k*IQR], with the
// lower bound clamped at the minimum plausible price. Quartiles are
// index-based, not interpolated. Applied only once the survivor count is
// meaningful; if rejection would empty the set, the pre-rejection set is
// kept, truncated to a small cap.
func (c *Cleanser) rejectOutliers(listings []models.CleansedListing) []models.CleansedListing {
	if len(listings) < c.cfg.MinIQRSamples {
		return listings
	}

	prices := make([]int, len(listings))
	for i, listing := range listings {
		prices[i] = listing.Price
	}
	sort.Ints(prices)

	q1 := float64(prices[len(prices)/4])
	q3 := float64(prices[len(prices)*3/4])
	iqr := q3 - q1

	lower := q1 - c.cfg.IQRMultiplier*iqr
	if floor := float64(c.cfg.MinPrice); lower < floor {
		lower = floor
	}
	upper := q3 + c.cfg.IQRMultiplier*iqr

	survivors := make([]models.CleansedListing, 0, len(listings))
	for _, listing := range listings {
		price := float64(listing.Price)
		if price < lower || price > upper {
			continue
		}
		survivors = append(survivors, listing)
	}

	if len(survivors) == 0 {
		if len(listings) > c.cfg.EmptyFallbackLimit {
			return listings[:c.cfg.EmptyFallbackLimit]
		}
		return listings
	}
	return survivors
}
