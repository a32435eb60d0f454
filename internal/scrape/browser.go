package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// renderWithBrowser loads a page in a headless browser and returns the
// rendered HTML. Used as a fallback for JavaScript-heavy postings that don't
// render content on the initial response. Requires Chrome/Chromium.
func renderWithBrowser(ctx context.Context, urlStr string, timeout time.Duration) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		// Give client-side rendering a moment to populate the description.
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}
	return html, nil
}
