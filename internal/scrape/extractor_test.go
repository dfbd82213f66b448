package scrape

import (
	"testing"

	"github.com/modinc01/go-nogo-scraper/internal/config"
	"github.com/modinc01/go-nogo-scraper/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{BaseURL: "https://aucfan.com"},
		Scrape: config.ScrapeConfig{
			MaxListings: 100,
			MinPrice:    100,
			MaxPrice:    10_000_000,
		},
		Filter: config.FilterConfig{
			AdKeywords: []string{"広告", "初月", "無料", "プレミアム会員", "会員登録"},
		},
	}
}

const structuredDocument = `<html><body>
<div class="item_outer">
	<h3 class="item_title">ポケモンカード151 シュリンク付き</h3>
	<span class="price">12,800円</span>
	<span class="date">2026年2月</span>
	<a href="/item/123">詳細</a>
	メルカリ
</div>
<div class="item_outer">
	<h3 class="item_title">ポケモンカード151 開封済み</h3>
	<span class="price">8,500円</span>
	<span class="date">3ヶ月前</span>
	<a href="https://example.com/item/456">詳細</a>
	ヤフオク
</div>
<div class="item_outer">
	<h3 class="item_title">ポケモンカード151 シュリンク付き</h3>
	<span class="price">12,800円</span>
</div>
</body></html>`

func TestExtractStructured(t *testing.T) {
	extractor := NewExtractor(testConfig())

	listings := extractor.Extract(structuredDocument, "ポケモンカード151")
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings after dedupe, got %d", len(listings))
	}

	first := listings[0]
	if first.Title != "ポケモンカード151 シュリンク付き" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.PriceText != "12,800円" {
		t.Errorf("unexpected price text %q", first.PriceText)
	}
	if first.DateText != "2026年2月" {
		t.Errorf("unexpected date text %q", first.DateText)
	}
	if first.URL != "https://aucfan.com/item/123" {
		t.Errorf("relative link not resolved: %q", first.URL)
	}
	if first.Platform != models.PlatformMercari {
		t.Errorf("unexpected platform %q", first.Platform)
	}

	second := listings[1]
	if second.Platform != models.PlatformYahooAuction {
		t.Errorf("unexpected platform %q", second.Platform)
	}
	if second.URL != "https://example.com/item/456" {
		t.Errorf("absolute link rewritten: %q", second.URL)
	}
}

const platformDocument = `<html><body>
<ul>
<li>ヤフオク <a href="/a/1">ワンピースカード フィギュア 美品</a> 3,500円 2026/01/10</li>
<li>メルカリShops <a href="/a/2">同人グッズ まとめ売り</a> 2,000円</li>
<li>Yahoo!ショッピング <a href="/a/3">新品 ゲームソフト 限定版</a> 4,800円</li>
<li>ランキングをもっと見る</li>
</ul>
</body></html>`

func TestExtractPlatformScoped(t *testing.T) {
	extractor := NewExtractor(testConfig())

	listings := extractor.Extract(platformDocument, "ワンピースカード")
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	listing := listings[0]
	if listing.Title != "ワンピースカード フィギュア 美品" {
		t.Errorf("unexpected title %q", listing.Title)
	}
	if listing.PriceText != "3,500円" {
		t.Errorf("unexpected price text %q", listing.PriceText)
	}
	if listing.DateText != "2026/01/10" {
		t.Errorf("unexpected date text %q", listing.DateText)
	}
	if listing.Platform != models.PlatformYahooAuction {
		t.Errorf("unexpected platform %q", listing.Platform)
	}
}

const fullTextDocument = `<html><body>
<p>限定フィギュア ドラゴンボール 4,980円</p>
<p>初月無料プレミアム会員登録 2,200円</p>
<p>サイトについて</p>
</body></html>`

func TestExtractFullTextFallback(t *testing.T) {
	extractor := NewExtractor(testConfig())

	listings := extractor.Extract(fullTextDocument, "ドラゴンボール")
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Title != "限定フィギュア ドラゴンボール" {
		t.Errorf("unexpected title %q", listings[0].Title)
	}
	if listings[0].PriceText != "4,980円" {
		t.Errorf("unexpected price text %q", listings[0].PriceText)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	extractor := NewExtractor(testConfig())

	if listings := extractor.Extract("<html><body></body></html>", "query"); len(listings) != 0 {
		t.Errorf("expected no listings, got %d", len(listings))
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Platform
	}{
		{"mercari", "メルカリ 落札相場", models.PlatformMercari},
		{"yahoo auction", "ヤフオク 落札相場", models.PlatformYahooAuction},
		{"yahoo auction long form", "Yahoo!オークション", models.PlatformYahooAuction},
		{"mercari shops excluded", "メルカリShops 出品中", models.PlatformUnknown},
		{"yahoo shopping excluded", "Yahoo!ショッピング 新品", models.PlatformUnknown},
		{"no marker", "落札相場を調べる", models.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.text); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
