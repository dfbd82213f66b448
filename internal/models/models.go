package models

import "time"

// Platform identifies the marketplace a listing was sold on.
type Platform string

const (
	PlatformUnknown      Platform = "unknown"
	PlatformMercari      Platform = "mercari"
	PlatformYahooAuction Platform = "yahoo_auction"
)

// Tier is the discrete purchase-advice classification for a query.
type Tier string

const (
	TierNoData              Tier = "no_data"
	TierInsufficientData    Tier = "insufficient_data"
	TierStronglyRecommended Tier = "strongly_recommended"
	TierRecommended         Tier = "recommended"
	TierConsider            Tier = "consider"
	TierCaution             Tier = "caution"
	TierNotRecommended      Tier = "not_recommended"
	TierReject              Tier = "reject"
)

func (p Platform) Valid() bool {
	return p == PlatformUnknown || p == PlatformMercari || p == PlatformYahooAuction
}

func (p Platform) String() string {
	return string(p)
}

func (t Tier) Valid() bool {
	switch t {
	case TierNoData, TierInsufficientData, TierStronglyRecommended, TierRecommended,
		TierConsider, TierCaution, TierNotRecommended, TierReject:
		return true
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}

// RawListing is one candidate item as extracted from the page, before
// cleansing. Listings are immutable once constructed; the filter discards
// rather than mutates.
type RawListing struct {
	Title     string   `json:"title"`
	PriceText string   `json:"price_text"`
	DateText  string   `json:"date_text,omitempty"`
	URL       string   `json:"url,omitempty"`
	Platform  Platform `json:"platform"`
}

// CleansedListing is a listing that survived filtering. Price is always a
// positive integer yen amount. MonthsAgo is nil when the date text was absent
// or unparseable.
type CleansedListing struct {
	Title     string   `json:"title"`
	Price     int      `json:"price"`
	MonthsAgo *int     `json:"months_ago,omitempty"`
	URL       string   `json:"url,omitempty"`
	Platform  Platform `json:"platform"`
}

// MarketReport aggregates the cleansed listing set for one query. All price
// statistics are 0 when Count is 0.
type MarketReport struct {
	Query         string            `json:"query"`
	Listings      []CleansedListing `json:"listings"`
	Count         int               `json:"count"`
	AvgPrice      int               `json:"avg_price"`
	MaxPrice      int               `json:"max_price"`
	MinPrice      int               `json:"min_price"`
	OriginalCount int               `json:"original_count"`
	FetchedAt     time.Time         `json:"fetched_at"`
}

// PurchaseEvaluation is the margin math for a report plus a caller-supplied
// acquisition price.
type PurchaseEvaluation struct {
	AcquisitionPrice  int  `json:"acquisition_price"`
	TotalCost         int  `json:"total_cost"`
	Profit            int  `json:"profit"`
	ProfitRatePercent int  `json:"profit_rate_percent"`
	Tier              Tier `json:"tier"`
}

// CachedReport is the cache envelope for a serialized MarketReport.
type CachedReport struct {
	ID          int64     `json:"id"`
	QueryKey    string    `json:"query_key"`
	PayloadJSON string    `json:"payload_json"`
	FetchedAt   time.Time `json:"fetched_at"`
	TTLSeconds  int       `json:"ttl_seconds"`
}
