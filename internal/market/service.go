package market

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/modinc01/go-nogo-scraper/internal/cache"
	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/encoding"
	"github.com/modinc01/go-nogo-scraper/internal/filter"
	"github.com/modinc01/go-nogo-scraper/internal/models"
	"github.com/modinc01/go-nogo-scraper/internal/report"
	"github.com/modinc01/go-nogo-scraper/internal/scrape"
	"github.com/sirupsen/logrus"
)

// DocumentFetcher is the outbound-fetch collaborator. The service never
// performs I/O of its own beyond this interface and the cache.
type DocumentFetcher interface {
	Fetch(ctx context.Context, query string) ([]byte, error)
}

// Service runs the extraction-and-filtering pipeline for one query at a
// time. It holds no mutable state, so concurrent lookups need no
// coordination.
type Service struct {
	cfg       *config.Config
	cache     cache.Cache
	fetcher   DocumentFetcher
	extractor *scrape.Extractor
	cleanser  *filter.Cleanser
	log       *logrus.Logger
}

// NewService wires the pipeline. cache may be nil to disable caching;
// fetcher may be nil when only BuildMarketReport is used.
func NewService(cfg *config.Config, reportCache cache.Cache, fetcher DocumentFetcher, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		cfg:       cfg,
		cache:     reportCache,
		fetcher:   fetcher,
		extractor: scrape.NewExtractor(cfg),
		cleanser:  filter.New(cfg.Filter),
		log:       logger,
	}
}

// BuildMarketReport turns a raw fetched document into a cleansed market
// report. It never fails: a document that yields nothing produces a report
// with Count 0.
func (s *Service) BuildMarketReport(query string, document []byte) *models.MarketReport {
	text := encoding.Resolve(document)
	raw := s.extractor.Extract(text, query)
	cleansed := s.cleanser.Cleanse(raw, time.Now())

	rep := report.Build(query, cleansed, len(raw))
	rep.FetchedAt = time.Now().UTC()

	s.log.Debugf("built report for %q: %d listings kept of %d extracted", query, rep.Count, rep.OriginalCount)
	return rep
}

// EvaluatePurchase is the margin-math entry point; pure aside from the
// positive-price precondition.
func (s *Service) EvaluatePurchase(rep *models.MarketReport, acquisitionPrice int) (*models.PurchaseEvaluation, error) {
	return report.Evaluate(rep, acquisitionPrice, s.cfg.Evaluation)
}

// Lookup fetches (or recalls from cache) the market report for a query.
func (s *Service) Lookup(ctx context.Context, query string) (*models.MarketReport, error) {
	key := cacheKey(query)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warnf("cache lookup for %q failed: %v", query, err)
		} else if cached != nil {
			var rep models.MarketReport
			if err := json.Unmarshal([]byte(cached.PayloadJSON), &rep); err == nil {
				s.log.Debugf("cache hit for %q", query)
				return &rep, nil
			}
			s.log.Warnf("discarding undecodable cache entry for %q", query)
		}
	}

	document, err := s.fetcher.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	rep := s.BuildMarketReport(query, document)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rep, s.cfg.Cache.TTL); err != nil {
			s.log.Warnf("caching report for %q failed: %v", query, err)
		}
	}

	s.log.Infof("market report for %q: %d listings, avg %d yen", query, rep.Count, rep.AvgPrice)
	return rep, nil
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
