package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Scrape     ScrapeConfig     `yaml:"scrape"`
	Filter     FilterConfig     `yaml:"filter"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Cache      CacheConfig      `yaml:"cache"`
	Log        LogConfig        `yaml:"log"`
}

type SiteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	SearchURL string        `yaml:"search_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type ScrapeConfig struct {
	MaxListings int `yaml:"max_listings"`
	MinPrice    int `yaml:"min_price"`
	MaxPrice    int `yaml:"max_price"`
}

type FilterConfig struct {
	AdKeywords         []string `yaml:"ad_keywords"`
	MinPrice           int      `yaml:"min_price"`
	RecencyMonths      int      `yaml:"recency_months"`
	SortByRecency      bool     `yaml:"sort_by_recency"`
	RecentLimit        int      `yaml:"recent_limit"`
	IQRMultiplier      float64  `yaml:"iqr_multiplier"`
	MinIQRSamples      int      `yaml:"min_iqr_samples"`
	EmptyFallbackLimit int      `yaml:"empty_fallback_limit"`
}

type EvaluationConfig struct {
	FeeRate    float64        `yaml:"fee_rate"`
	TaxRate    float64        `yaml:"tax_rate"`
	Thresholds TierThresholds `yaml:"thresholds"`
}

// TierThresholds are the profit-rate boundaries (in percent) between
// recommendation tiers, evaluated highest first.
type TierThresholds struct {
	StronglyRecommended int `yaml:"strongly_recommended"`
	Recommended         int `yaml:"recommended"`
	Consider            int `yaml:"consider"`
	Caution             int `yaml:"caution"`
	NotRecommended      int `yaml:"not_recommended"`
}

type CacheConfig struct {
	Provider string           `yaml:"provider"`
	Path     string           `yaml:"path"`
	TTL      time.Duration    `yaml:"ttl"`
	Redis    CacheRedisConfig `yaml:"redis"`
}

type CacheRedisConfig struct {
	URL      string `yaml:"url"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"` // #nosec G117 -- configuration secret field.
	DB       int    `yaml:"db"`
	UseTLS   bool   `yaml:"tls"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// defaultAdKeywords is the advertisement denylist applied to listing titles.
// The aggregator mixes promotional rows for its own premium tier into search
// results, and marketplace banners leak into the loosened extraction passes.
var defaultAdKeywords = []string{
	"広告",
	"プレミアム会員",
	"会員登録",
	"無料",
	"初月",
	"キャンペーン",
	"クーポン",
	"ポイント",
	"メルマガ",
	"まとめて検索",
	"で探す",
	"ログイン",
	"premium",
	"sponsored",
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Site: SiteConfig{
			BaseURL:   "https://aucfan.com",
			SearchURL: "https://aucfan.com/search1/q-%s/s-end/",
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
			Timeout:   15 * time.Second,
		},
		Scrape: ScrapeConfig{
			MaxListings: 100,
			MinPrice:    100,
			MaxPrice:    10_000_000,
		},
		Filter: FilterConfig{
			AdKeywords:         defaultAdKeywords,
			MinPrice:           300,
			RecencyMonths:      12,
			SortByRecency:      false,
			RecentLimit:        20,
			IQRMultiplier:      1.5,
			MinIQRSamples:      5,
			EmptyFallbackLimit: 20,
		},
		Evaluation: EvaluationConfig{
			FeeRate: 0.05,
			TaxRate: 0.10,
			Thresholds: TierThresholds{
				StronglyRecommended: 50,
				Recommended:         30,
				Consider:            20,
				Caution:             0,
				NotRecommended:      -10,
			},
		},
		Cache: CacheConfig{
			Provider: "sqlite",
			Path:     "data/nogo.db",
			TTL:      time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	root, err := os.OpenRoot(filepath.Dir(path))
	if err == nil {
		defer root.Close()
		if _, err := root.Stat(filepath.Base(path)); err == nil {
			file, err := root.Open(filepath.Base(path))
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}

			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("applying env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if value, ok := lookupEnv("NOGO_SITE_BASE_URL"); ok {
		c.Site.BaseURL = value
	}
	if value, ok := lookupEnv("NOGO_SITE_SEARCH_URL"); ok {
		c.Site.SearchURL = value
	}
	if value, ok := lookupEnv("NOGO_SITE_USER_AGENT"); ok {
		c.Site.UserAgent = value
	}
	if value, ok := lookupEnv("NOGO_SITE_TIMEOUT"); ok {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("NOGO_SITE_TIMEOUT: %w", err)
		}
		c.Site.Timeout = duration
	}
	if value, ok := lookupEnv("NOGO_SCRAPE_MAX_LISTINGS"); ok {
		parsed, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("NOGO_SCRAPE_MAX_LISTINGS: %w", err)
		}
		c.Scrape.MaxListings = parsed
	}
	if value, ok := lookupEnv("NOGO_FILTER_MIN_PRICE"); ok {
		parsed, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("NOGO_FILTER_MIN_PRICE: %w", err)
		}
		c.Filter.MinPrice = parsed
	}
	if value, ok := lookupEnv("NOGO_FILTER_RECENCY_MONTHS"); ok {
		parsed, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("NOGO_FILTER_RECENCY_MONTHS: %w", err)
		}
		c.Filter.RecencyMonths = parsed
	}
	if value, ok := lookupEnv("NOGO_FILTER_SORT_BY_RECENCY"); ok {
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("NOGO_FILTER_SORT_BY_RECENCY: %w", err)
		}
		c.Filter.SortByRecency = parsed
	}
	if value, ok := lookupEnv("NOGO_FILTER_IQR_MULTIPLIER"); ok {
		parsed, err := parseFloat(value)
		if err != nil {
			return fmt.Errorf("NOGO_FILTER_IQR_MULTIPLIER: %w", err)
		}
		c.Filter.IQRMultiplier = parsed
	}
	if value, ok := lookupEnv("NOGO_EVALUATION_FEE_RATE"); ok {
		parsed, err := parseFloat(value)
		if err != nil {
			return fmt.Errorf("NOGO_EVALUATION_FEE_RATE: %w", err)
		}
		c.Evaluation.FeeRate = parsed
	}
	if value, ok := lookupEnv("NOGO_EVALUATION_TAX_RATE"); ok {
		parsed, err := parseFloat(value)
		if err != nil {
			return fmt.Errorf("NOGO_EVALUATION_TAX_RATE: %w", err)
		}
		c.Evaluation.TaxRate = parsed
	}
	if value, ok := lookupEnv("NOGO_CACHE_PROVIDER"); ok {
		c.Cache.Provider = value
	}
	if value, ok := lookupEnv("NOGO_CACHE_PATH"); ok {
		c.Cache.Path = value
	}
	if value, ok := lookupEnv("NOGO_CACHE_TTL"); ok {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("NOGO_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = duration
	}
	if value, ok := lookupEnv("NOGO_CACHE_REDIS_URL"); ok {
		c.Cache.Redis.URL = value
	} else if value, ok := lookupEnv("REDIS_URL"); ok {
		c.Cache.Redis.URL = value
	}
	if value, ok := lookupEnv("NOGO_CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = value
	}
	if value, ok := lookupEnv("NOGO_CACHE_REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = value
	}
	if value, ok := lookupEnv("NOGO_CACHE_REDIS_DB"); ok {
		parsed, err := parseInt(value)
		if err != nil {
			return fmt.Errorf("NOGO_CACHE_REDIS_DB: %w", err)
		}
		c.Cache.Redis.DB = parsed
	}
	if value, ok := lookupEnv("NOGO_CACHE_REDIS_TLS"); ok {
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("NOGO_CACHE_REDIS_TLS: %w", err)
		}
		c.Cache.Redis.UseTLS = parsed
	}
	if value, ok := lookupEnv("NOGO_LOG_LEVEL"); ok {
		c.Log.Level = value
	}

	if strings.TrimSpace(c.Cache.Redis.URL) != "" {
		if err := applyRedisURL(&c.Cache.Redis); err != nil {
			return err
		}
	}

	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

func parseInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseFloat(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseBool(value string) (bool, error) {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func applyRedisURL(cfg *CacheRedisConfig) error {
	if cfg == nil {
		return nil
	}
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("cache redis url: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("cache redis url: missing host")
	}
	if parsed.User != nil {
		password, ok := parsed.User.Password()
		if ok {
			cfg.Password = password
		}
	}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		if dbIndex, err := strconv.Atoi(path); err == nil {
			cfg.DB = dbIndex
		} else {
			return fmt.Errorf("cache redis url: invalid db index")
		}
	}
	if value := strings.ToLower(strings.TrimSpace(parsed.Query().Get("tls"))); value != "" {
		parsedBool, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache redis url: invalid tls query param")
		}
		cfg.UseTLS = parsedBool
	}
	if strings.ToLower(parsed.Scheme) == "rediss" {
		cfg.UseTLS = true
	}
	if cfg.Addr == "" {
		cfg.Addr = parsed.Host
	}
	return nil
}

func (c *Config) validate() error {
	base, err := url.Parse(strings.TrimSpace(c.Site.BaseURL))
	if err != nil || base.Host == "" {
		return fmt.Errorf("site base url must be a valid absolute url")
	}
	if !strings.Contains(c.Site.SearchURL, "%s") {
		return fmt.Errorf("site search url must contain a %%s query placeholder")
	}
	if c.Site.Timeout <= 0 {
		c.Site.Timeout = 15 * time.Second
	}

	if c.Scrape.MaxListings <= 0 {
		c.Scrape.MaxListings = 100
	}
	if c.Scrape.MinPrice < 0 || c.Scrape.MaxPrice <= c.Scrape.MinPrice {
		return fmt.Errorf("scrape price range is invalid")
	}

	if c.Filter.MinPrice < 0 {
		return fmt.Errorf("filter min price must not be negative")
	}
	if c.Filter.IQRMultiplier <= 0 {
		return fmt.Errorf("filter iqr multiplier must be positive")
	}
	if c.Filter.MinIQRSamples < 3 {
		c.Filter.MinIQRSamples = 3
	}
	if c.Filter.RecencyMonths <= 0 {
		c.Filter.RecencyMonths = 12
	}
	if c.Filter.RecentLimit <= 0 {
		c.Filter.RecentLimit = 20
	}
	if c.Filter.EmptyFallbackLimit <= 0 {
		c.Filter.EmptyFallbackLimit = 20
	}
	if len(c.Filter.AdKeywords) == 0 {
		c.Filter.AdKeywords = defaultAdKeywords
	}

	if c.Evaluation.FeeRate < 0 || c.Evaluation.TaxRate < 0 {
		return fmt.Errorf("evaluation rates must not be negative")
	}
	t := c.Evaluation.Thresholds
	if t.StronglyRecommended <= t.Recommended || t.Recommended <= t.Consider ||
		t.Consider <= t.Caution || t.Caution <= t.NotRecommended {
		return fmt.Errorf("evaluation thresholds must be strictly descending")
	}

	provider := strings.ToLower(strings.TrimSpace(c.Cache.Provider))
	if provider == "" {
		provider = "sqlite"
		c.Cache.Provider = provider
	}
	if provider != "sqlite" && provider != "redis" {
		return fmt.Errorf("cache provider must be sqlite or redis")
	}
	if provider == "sqlite" && c.Cache.Path == "" {
		return fmt.Errorf("cache path is required")
	}
	if provider == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return fmt.Errorf("cache redis addr is required")
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = time.Hour
	}

	return nil
}
