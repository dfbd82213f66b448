package report

import (
	"testing"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

func testEvaluationConfig() config.EvaluationConfig {
	return config.EvaluationConfig{
		FeeRate: 0.05,
		TaxRate: 0.10,
		Thresholds: config.TierThresholds{
			StronglyRecommended: 50,
			Recommended:         30,
			Consider:            20,
			Caution:             0,
			NotRecommended:      -10,
		},
	}
}

func priced(prices ...int) []models.CleansedListing {
	listings := make([]models.CleansedListing, len(prices))
	for i, price := range prices {
		listings[i] = models.CleansedListing{Title: "listing", Price: price}
	}
	return listings
}

func TestBuildEmptySet(t *testing.T) {
	rep := Build("ポケモンカード", nil, 12)

	if rep.Count != 0 {
		t.Errorf("Count = %d, want 0", rep.Count)
	}
	if rep.AvgPrice != 0 || rep.MinPrice != 0 || rep.MaxPrice != 0 {
		t.Errorf("expected zero statistics, got avg=%d min=%d max=%d", rep.AvgPrice, rep.MinPrice, rep.MaxPrice)
	}
	if rep.OriginalCount != 12 {
		t.Errorf("OriginalCount = %d, want 12", rep.OriginalCount)
	}
}

func TestBuildStatistics(t *testing.T) {
	rep := Build("ポケモンカード", priced(1000, 1200, 1100, 1050), 5)

	if rep.Count != 4 {
		t.Errorf("Count = %d, want 4", rep.Count)
	}
	// 4350 / 4 = 1087.5, rounded half up.
	if rep.AvgPrice != 1088 {
		t.Errorf("AvgPrice = %d, want 1088", rep.AvgPrice)
	}
	if rep.MinPrice != 1000 {
		t.Errorf("MinPrice = %d, want 1000", rep.MinPrice)
	}
	if rep.MaxPrice != 1200 {
		t.Errorf("MaxPrice = %d, want 1200", rep.MaxPrice)
	}
}

func TestEvaluateRejectsNonPositivePrice(t *testing.T) {
	rep := Build("query", priced(1000), 1)

	if _, err := Evaluate(rep, 0, testEvaluationConfig()); err == nil {
		t.Errorf("expected error for zero acquisition price")
	}
	if _, err := Evaluate(rep, -100, testEvaluationConfig()); err == nil {
		t.Errorf("expected error for negative acquisition price")
	}
}

func TestEvaluateNoData(t *testing.T) {
	rep := Build("query", nil, 0)

	eval, err := Evaluate(rep, 5000, testEvaluationConfig())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if eval.Tier != models.TierNoData {
		t.Errorf("Tier = %q, want %q", eval.Tier, models.TierNoData)
	}
	// No baseline means no fee inflation either.
	if eval.TotalCost != 5000 {
		t.Errorf("TotalCost = %d, want 5000", eval.TotalCost)
	}
	if eval.Profit != 0 || eval.ProfitRatePercent != 0 {
		t.Errorf("expected zero profit figures, got %d / %d%%", eval.Profit, eval.ProfitRatePercent)
	}
}

func TestEvaluateLosingPurchase(t *testing.T) {
	rep := &models.MarketReport{Query: "query", Count: 5, AvgPrice: 9000}

	eval, err := Evaluate(rep, 10000, testEvaluationConfig())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if eval.TotalCost != 11550 {
		t.Errorf("TotalCost = %d, want 11550", eval.TotalCost)
	}
	if eval.Profit != -2550 {
		t.Errorf("Profit = %d, want -2550", eval.Profit)
	}
	if eval.ProfitRatePercent != -22 {
		t.Errorf("ProfitRatePercent = %d, want -22", eval.ProfitRatePercent)
	}
	if eval.Tier != models.TierReject {
		t.Errorf("Tier = %q, want %q", eval.Tier, models.TierReject)
	}
}

func TestEvaluateInsufficientData(t *testing.T) {
	rep := &models.MarketReport{Query: "query", Count: 2, AvgPrice: 20000}

	eval, err := Evaluate(rep, 10000, testEvaluationConfig())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if eval.Tier != models.TierInsufficientData {
		t.Errorf("Tier = %q, want %q", eval.Tier, models.TierInsufficientData)
	}
	// Margin math still runs so the caller can see the tentative numbers.
	if eval.TotalCost != 11550 {
		t.Errorf("TotalCost = %d, want 11550", eval.TotalCost)
	}
	if eval.Profit != 8450 {
		t.Errorf("Profit = %d, want 8450", eval.Profit)
	}
}

func TestTotalCostRounding(t *testing.T) {
	cfg := testEvaluationConfig()

	tests := []struct {
		acquisitionPrice int
		want             int
	}{
		{10000, 11550},
		{101, 117}, // 101 * 1.05 * 1.10 = 116.655
		{1, 1},     // 1.155 rounds down
	}

	for _, tt := range tests {
		if got := totalCost(tt.acquisitionPrice, cfg); got != tt.want {
			t.Errorf("totalCost(%d) = %d, want %d", tt.acquisitionPrice, got, tt.want)
		}
	}
}

func TestClassifyBoundaries(t *testing.T) {
	thresholds := testEvaluationConfig().Thresholds

	tests := []struct {
		rate int
		want models.Tier
	}{
		{75, models.TierStronglyRecommended},
		{50, models.TierStronglyRecommended},
		{49, models.TierRecommended},
		{30, models.TierRecommended},
		{29, models.TierConsider},
		{20, models.TierConsider},
		{19, models.TierCaution},
		{0, models.TierCaution},
		{-1, models.TierNotRecommended},
		{-10, models.TierNotRecommended},
		{-11, models.TierReject},
	}

	for _, tt := range tests {
		if got := classify(tt.rate, thresholds); got != tt.want {
			t.Errorf("classify(%d) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
