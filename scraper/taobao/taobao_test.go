package taobao

import (
	"testing"

	"phone-sales/config"
	"phone-sales/utils"
)

const samplePage = `
<html><body>
<div class="content--abc123">
  <div class="tbpc-col item1">
    <a class="doubleCardWrapperAda--x" href="//item.example.com/1"></a>
    <img class="mainPic--y" src="https://img.example.com/1.jpg"/>
    <div class="title--z">华为 Mate 60 Pro 旗舰手机</div>
    <div class="innerPriceWrapper"><div class="innerPrice--a">5999</div></div>
    <span class="realSales--b">2万+人付款</span>
    <span class="shopNameText--c">华为官方旗舰店</span>
  </div>
  <div class="tbpc-col item2">
    <a class="doubleCardWrapperAda--x" href="//item.example.com/2"></a>
    <div class="title--z">vivo S18 新品</div>
    <div class="innerPrice--a">2499</div>
    <span class="shopNameText--c">vivo旗舰店</span>
  </div>
  <div class="tbpc-col filler"></div>
</div>
</body></html>`

func testScraper() *Scraper {
	return New(config.Load(), utils.NewLogger())
}

func TestParseListingPage(t *testing.T) {
	items, err := testScraper().parseListingPage(samplePage)
	if err != nil {
		t.Fatalf("parseListingPage: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (filler card dropped), got %d", len(items))
	}

	first := items[0].listing
	if first.Title != "华为 Mate 60 Pro 旗舰手机" {
		t.Errorf("title: got %q", first.Title)
	}
	if first.Brand != "Huawei" {
		t.Errorf("brand: got %q, want Huawei", first.Brand)
	}
	if first.Price != "5999" {
		t.Errorf("price: got %q", first.Price)
	}
	if first.SalesText != "2万+人付款" {
		t.Errorf("sales_text: got %q", first.SalesText)
	}
	if first.Sales != "20000" {
		t.Errorf("sales: got %q, want 20000", first.Sales)
	}
	if first.Image != "https://img.example.com/1.jpg" {
		t.Errorf("image: got %q", first.Image)
	}
	if items[0].detailURL != "https://item.example.com/1" {
		t.Errorf("detail url: got %q", items[0].detailURL)
	}
}

// A card missing the image and sales selectors falls back to sentinels
// instead of aborting the page.
func TestParseListingPageSentinelFallbacks(t *testing.T) {
	items, err := testScraper().parseListingPage(samplePage)
	if err != nil {
		t.Fatalf("parseListingPage: %v", err)
	}

	second := items[1].listing
	if second.Image != "无" {
		t.Errorf("image sentinel: got %q, want 无", second.Image)
	}
	if second.SalesText != "100" {
		t.Errorf("sales_text default: got %q, want 100", second.SalesText)
	}
	if second.Sales != "100" {
		t.Errorf("sales default: got %q, want 100", second.Sales)
	}
	if second.Brand != "Vivo" {
		t.Errorf("brand: got %q, want Vivo", second.Brand)
	}
}

func TestParseListingPageMissingContainer(t *testing.T) {
	_, err := testScraper().parseListingPage(`<html><body><p>verify</p></body></html>`)
	if err == nil {
		t.Fatal("expected error for missing listing container")
	}
}
