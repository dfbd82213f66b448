package filter

import (
	"testing"
	"time"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

func testFilterConfig() config.FilterConfig {
	return config.FilterConfig{
		AdKeywords:         []string{"広告", "初月", "無料", "プレミアム会員", "会員登録"},
		MinPrice:           300,
		RecencyMonths:      12,
		RecentLimit:        20,
		IQRMultiplier:      1.5,
		MinIQRSamples:      5,
		EmptyFallbackLimit: 20,
	}
}

func rawListing(title, priceText, dateText string) models.RawListing {
	return models.RawListing{Title: title, PriceText: priceText, DateText: dateText}
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestCleanseRejectsPriceOutliers(t *testing.T) {
	raw := []models.RawListing{
		rawListing("トレカ まとめ売り A", "1,000円", ""),
		rawListing("トレカ まとめ売り B", "1,200円", ""),
		rawListing("トレカ まとめ売り C", "1,100円", ""),
		rawListing("トレカ 転売価格", "50,000円", ""),
		rawListing("トレカ まとめ売り D", "1,050円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 4 {
		t.Fatalf("expected 4 survivors, got %d", len(cleansed))
	}
	for _, listing := range cleansed {
		if listing.Price == 50000 {
			t.Errorf("outlier price 50000 survived")
		}
	}
}

func TestCleanseSkipsOutlierRejectionBelowMinSamples(t *testing.T) {
	raw := []models.RawListing{
		rawListing("トレカ まとめ売り A", "1,000円", ""),
		rawListing("トレカ まとめ売り B", "1,200円", ""),
		rawListing("トレカ まとめ売り C", "1,100円", ""),
		rawListing("トレカ 転売価格", "50,000円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 4 {
		t.Fatalf("expected all 4 listings kept below the sample minimum, got %d", len(cleansed))
	}
}

func TestCleanseDropsAdvertisements(t *testing.T) {
	raw := []models.RawListing{
		rawListing("初月無料プレミアム会員登録", "2,200円", ""),
		rawListing("ポケモンカード 151", "2,400円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(cleansed))
	}
	if cleansed[0].Title != "ポケモンカード 151" {
		t.Errorf("wrong listing survived: %q", cleansed[0].Title)
	}
}

func TestCleanseEnforcesMinimumPrice(t *testing.T) {
	raw := []models.RawListing{
		rawListing("ジャンク品 部品取り", "250円", ""),
		rawListing("ジャンク品 動作確認済み", "300円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(cleansed))
	}
	if cleansed[0].Price != 300 {
		t.Errorf("wrong price survived: %d", cleansed[0].Price)
	}
}

func TestCleanseDropsBlankTitles(t *testing.T) {
	raw := []models.RawListing{
		rawListing("   ", "1,000円", ""),
		rawListing("フィギュア 美品", "1,000円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(cleansed))
	}
}

func TestCleanseRecencyWindow(t *testing.T) {
	raw := []models.RawListing{
		rawListing("レコード 帯付き A", "1,500円", "15ヶ月前"),
		rawListing("レコード 帯付き B", "1,600円", "2ヶ月前"),
		rawListing("レコード 帯付き C", "1,700円", ""),
	}

	cleansed := New(testFilterConfig()).Cleanse(raw, testNow)
	if len(cleansed) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(cleansed))
	}
	for _, listing := range cleansed {
		if listing.Price == 1500 {
			t.Errorf("stale listing survived the recency window")
		}
	}
	// Unparseable dates keep the benefit of the doubt.
	if cleansed[1].MonthsAgo != nil {
		t.Errorf("expected nil months for undated listing")
	}
}

func TestCleanseSortByRecency(t *testing.T) {
	cfg := testFilterConfig()
	cfg.SortByRecency = true
	cfg.RecentLimit = 2

	raw := []models.RawListing{
		rawListing("ゲームソフト 限定版 A", "1,000円", "5ヶ月前"),
		rawListing("ゲームソフト 限定版 B", "2,000円", "1ヶ月前"),
		rawListing("ゲームソフト 限定版 C", "3,000円", ""),
	}

	cleansed := New(cfg).Cleanse(raw, testNow)
	if len(cleansed) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(cleansed))
	}
	if cleansed[0].Price != 2000 || cleansed[1].Price != 1000 {
		t.Errorf("expected most-recent-first order, got %d then %d", cleansed[0].Price, cleansed[1].Price)
	}
}

func TestCleanseEmptyInput(t *testing.T) {
	if cleansed := New(testFilterConfig()).Cleanse(nil, testNow); len(cleansed) != 0 {
		t.Errorf("expected empty result, got %d", len(cleansed))
	}
}
