package taobao

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"phone-sales/config"
	"phone-sales/models"
	"phone-sales/services"
	"phone-sales/storage"
	"phone-sales/utils"
)

const (
	startURL      = "https://www.taobao.com"
	searchBoxSel  = `#q`
	captchaMarker = "captcha"
)

// Scraper drives one browser session through the fixed search term,
// paginates the result listing, and fans every extracted item out to the
// configured sinks. It is strictly sequential: one page at a time, one item
// at a time, one detail tab open at a time.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	sinks  []storage.ListingSink
}

// New creates a ready-to-use Taobao scraper writing to the given sinks.
func New(cfg *config.Config, logger *utils.Logger, sinks ...storage.ListingSink) *Scraper {
	return &Scraper{cfg: cfg, logger: logger, sinks: sinks}
}

// Scrape submits the search, then walks a fixed number of result pages.
// It returns the number of items written. A failing item never stops the
// run; a failing page advance ends it early.
func (s *Scraper) Scrape(ctx context.Context) (int, error) {
	allocCtx, cancelAlloc := s.newAllocator(ctx)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	resultsCtx, cancelResults, err := s.submitSearch(browserCtx)
	if err != nil {
		return 0, fmt.Errorf("submit search: %w", err)
	}
	defer cancelResults()

	settle := time.Duration(s.cfg.SettleSeconds) * time.Second
	written := 0

	for page := 0; page < s.cfg.MaxPages; page++ {
		s.logger.Info("[taobao] Processing page %d/%d", page+1, s.cfg.MaxPages)

		if page > 0 {
			// No next-page-exists check: the loop always runs the full
			// configured page count, a known limitation kept on purpose.
			if err := s.nextPage(resultsCtx); err != nil {
				s.logger.Error("[taobao] Page advance failed: %v", err)
				break
			}
			utils.Settle(s.logger, "page advance", settle)
		}

		html, err := s.pageSource(resultsCtx)
		if err != nil {
			s.logger.Error("[taobao] Could not read page %d: %v", page+1, err)
			continue
		}

		items, err := s.parseListingPage(html)
		if err != nil {
			s.logger.Error("[taobao] Could not parse page %d: %v", page+1, err)
			continue
		}
		s.logger.Info("[taobao] Page %d — %d listing cards", page+1, len(items))

		for _, item := range items {
			s.fetchDetail(resultsCtx, item)
			s.writeItem(item.listing)
			written++
		}
	}

	s.logger.Info("[taobao] Run complete — %d items written", written)
	return written, nil
}

// newAllocator attaches to a remote debugging browser when configured
// (keeps an operator-prepared logged-in session), otherwise launches Chrome.
func (s *Scraper) newAllocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.ChromeDebugAddr != "" {
		s.logger.Info("[taobao] Attaching to running browser at %s", s.cfg.ChromeDebugAddr)
		return chromedp.NewRemoteAllocator(ctx, "http://"+s.cfg.ChromeDebugAddr)
	}

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[taobao] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

// submitSearch types the fixed term into the home-page search box, submits
// it, and returns a context bound to the results window. When no new window
// appears before the element-wait ceiling, the current window is assumed to
// hold the results.
func (s *Scraper) submitSearch(browserCtx context.Context) (context.Context, context.CancelFunc, error) {
	waitCeiling := time.Duration(s.cfg.ElementWaitS) * time.Second

	newTarget := chromedp.WaitNewTarget(browserCtx, func(info *target.Info) bool {
		return info.Type == "page" && info.URL != ""
	})

	runCtx, cancelRun := context.WithTimeout(browserCtx, waitCeiling)
	defer cancelRun()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(startURL),
		chromedp.WaitVisible(searchBoxSel, chromedp.ByQuery),
		chromedp.SendKeys(searchBoxSel, s.cfg.SearchTerm, chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.SendKeys(searchBoxSel, kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("search input: %w", err)
	}

	select {
	case id := <-newTarget:
		s.logger.Info("[taobao] Results opened in new window %s", id)
		ctx, cancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(id))
		utils.Settle(s.logger, "search submit", time.Duration(s.cfg.SettleSeconds)*time.Second)
		return ctx, cancel, nil
	case <-time.After(waitCeiling):
		// Timed-out lookup: log and proceed with whatever state exists.
		s.logger.Warn("[taobao] No results window appeared within %v — staying on current window", waitCeiling)
		return browserCtx, func() {}, nil
	}
}

// nextPage activates the pagination arrow on the results page.
func (s *Scraper) nextPage(resultsCtx context.Context) error {
	ctx, cancel := context.WithTimeout(resultsCtx, time.Duration(s.cfg.ElementWaitS)*time.Second)
	defer cancel()

	return chromedp.Run(ctx,
		chromedp.Click(`.next-pagination-pages [class^="next-icon next-icon-arrow-right"]`,
			chromedp.ByQuery),
	)
}

// pageSource reads the fully rendered markup of the current document.
func (s *Scraper) pageSource(pageCtx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(pageCtx, time.Duration(s.cfg.ElementWaitS)*time.Second)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// pageItem pairs a partially filled listing with its detail-page URL.
type pageItem struct {
	listing   *models.Listing
	detailURL string
}

// parseListingPage extracts the listing cards from rendered result-page
// markup. Per-card extraction failures substitute sentinel values; only a
// card without a title is dropped.
func (s *Scraper) parseListingPage(html string) ([]*pageItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	container := doc.Find(`div[class^="content--"]`).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("listing container not found")
	}

	var items []*pageItem
	container.Find(`div[class^="tbpc-col"]`).Each(func(i int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(`div[class^="title--"]`).First().Text())
		if title == "" {
			s.logger.Debug("[taobao] Card %d has no title — skipped", i)
			return
		}

		image := services.NoImage
		if src, ok := card.Find(`img[class^="mainPic--"]`).First().Attr("src"); ok && src != "" {
			image = src
		}

		detailURL := ""
		if href, ok := card.Find(`a[class^="doubleCardWrapperAda"]`).First().Attr("href"); ok {
			detailURL = "https:" + href
		}

		salesText := strings.TrimSpace(card.Find(`span[class^="realSales--"]`).First().Text())
		if salesText == "" {
			salesText = services.DefaultSales
		}

		items = append(items, &pageItem{
			detailURL: detailURL,
			listing: &models.Listing{
				Image:     image,
				Title:     title,
				Brand:     services.ClassifyBrand(title),
				Price:     strings.TrimSpace(card.Find(`div[class^="innerPrice"]`).First().Text()),
				SalesText: salesText,
				Sales:     services.NormalizeCount(salesText, services.DefaultSales),
				ShopName:  strings.TrimSpace(card.Find(`span[class^="shopNameText--"]`).First().Text()),
			},
		})
	})

	return items, nil
}

// fetchDetail opens the item's detail page in a fresh tab, extracts the two
// detail-only fields, and closes the tab again so focus returns to the
// results window. Any failure leaves the sentinel defaults in place.
func (s *Scraper) fetchDetail(resultsCtx context.Context, item *pageItem) {
	item.listing.CommentsCountText = services.DefaultComments
	item.listing.CommentsCount = services.DefaultComments
	item.listing.Star = services.DefaultStar

	if item.detailURL == "" {
		s.logger.Warn("[taobao] %q has no detail URL — keeping defaults", item.listing.Title)
		return
	}

	detailCtx, cancelDetail := chromedp.NewContext(resultsCtx)
	defer cancelDetail()

	ctx, cancel := context.WithTimeout(detailCtx, time.Duration(s.cfg.ElementWaitS)*time.Second)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(item.detailURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		s.logger.Warn("[taobao] Detail page failed for %q: %v", item.listing.Title, err)
		return
	}

	if strings.Contains(html, captchaMarker) {
		utils.CaptchaPause(s.logger, time.Duration(s.cfg.CaptchaWaitS)*time.Second)
		if refreshed, err := s.pageSource(detailCtx); err == nil {
			html = refreshed
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.logger.Warn("[taobao] Detail parse failed for %q: %v", item.listing.Title, err)
		return
	}

	if text := strings.TrimSpace(doc.Find(`span[class^="tagItem--"]`).First().Text()); text != "" {
		item.listing.CommentsCountText = text
		item.listing.CommentsCount = services.NormalizeCount(text, services.DefaultComments)
	}
	if text := strings.TrimSpace(doc.Find(`span[class^="starNum--"]`).First().Text()); text != "" {
		item.listing.Star = text
	}

	time.Sleep(2 * time.Second)
}

// writeItem fans one listing out to every sink. A sink failure is reported
// and the remaining sinks still receive the item.
func (s *Scraper) writeItem(l *models.Listing) {
	s.logger.Info("[taobao] %s | %s | ¥%s | sales %s | %s | comments %s | star %s",
		l.Brand, l.Title, l.Price, l.Sales, l.ShopName, l.CommentsCount, l.Star)

	for _, sink := range s.sinks {
		if err := sink.Append(l); err != nil {
			s.logger.Error("[taobao] Sink write failed for %q: %v", l.Title, err)
		}
	}
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
