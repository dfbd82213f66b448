package report

import (
	"fmt"
	"math"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

// minConfidentCount is the smallest cleansed listing count that supports a
// real buy/no-buy verdict; below it the tier signals low confidence instead.
const minConfidentCount = 3

// Build aggregates a cleansed listing set into a MarketReport. All price
// statistics are 0 when the set is empty; an empty set is a valid report,
// not an error.
func Build(query string, listings []models.CleansedListing, originalCount int) *models.MarketReport {
	rep := &models.MarketReport{
		Query:         query,
		Listings:      listings,
		Count:         len(listings),
		OriginalCount: originalCount,
	}
	if len(listings) == 0 {
		return rep
	}

	sum := 0
	rep.MinPrice = listings[0].Price
	rep.MaxPrice = listings[0].Price
	for _, listing := range listings {
		sum += listing.Price
		if listing.Price < rep.MinPrice {
			rep.MinPrice = listing.Price
		}
		if listing.Price > rep.MaxPrice {
			rep.MaxPrice = listing.Price
		}
	}
	rep.AvgPrice = int(math.Round(float64(sum) / float64(len(listings))))

	return rep
}

// Evaluate combines a report with a caller-supplied acquisition price into a
// purchase recommendation. A non-positive acquisition price is a contract
// violation, the only hard failure in this package.
func Evaluate(rep *models.MarketReport, acquisitionPrice int, cfg config.EvaluationConfig) (*models.PurchaseEvaluation, error) {
	if acquisitionPrice <= 0 {
		return nil, fmt.Errorf("acquisition price must be positive, got %d", acquisitionPrice)
	}

	eval := &models.PurchaseEvaluation{AcquisitionPrice: acquisitionPrice}

	// Without a sale-price baseline there is nothing to inflate against.
	if rep == nil || rep.Count == 0 || rep.AvgPrice == 0 {
		eval.TotalCost = acquisitionPrice
		eval.Tier = models.TierNoData
		return eval, nil
	}

	eval.TotalCost = totalCost(acquisitionPrice, cfg)
	eval.Profit = rep.AvgPrice - eval.TotalCost
	eval.ProfitRatePercent = int(math.Round(100 * float64(eval.Profit) / float64(eval.TotalCost)))

	if rep.Count < minConfidentCount {
		eval.Tier = models.TierInsufficientData
		return eval, nil
	}

	eval.Tier = classify(eval.ProfitRatePercent, cfg.Thresholds)
	return eval, nil
}

// totalCost is the landed cost basis: acquisition price inflated by the
// handling fee and then tax.
func totalCost(acquisitionPrice int, cfg config.EvaluationConfig) int {
	return int(math.Round(float64(acquisitionPrice) * (1 + cfg.FeeRate) * (1 + cfg.TaxRate)))
}

func classify(profitRatePercent int, t config.TierThresholds) models.Tier {
	switch {
	case profitRatePercent >= t.StronglyRecommended:
		return models.TierStronglyRecommended
	case profitRatePercent >= t.Recommended:
		return models.TierRecommended
	case profitRatePercent >= t.Consider:
		return models.TierConsider
	case profitRatePercent >= t.Caution:
		return models.TierCaution
	case profitRatePercent >= t.NotRecommended:
		return models.TierNotRecommended
	default:
		return models.TierReject
	}
}
