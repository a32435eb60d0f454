// Package scrape derives job description text from posting URLs. Extraction
// is best-effort: when the site answers but the content is unusable, the
// advisory messages below are returned as text so that callers can fall back
// to user-supplied descriptions.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds the HTTP fetch; this is the only bounded wait in the
// processing pipeline.
const DefaultTimeout = 15 * time.Second

// MinContentLength is the minimum extracted text length before the optional
// browser fallback kicks in, for JavaScript-rendered pages.
const MinContentLength = 500

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Advisory messages returned in place of content when extraction fails.
// The reconciliation engine matches on their prefixes.
const (
	MsgInsufficient = "Unable to extract sufficient job description content from URL. Please paste the job description manually in the 'additional_instructions' column of your sheet."
	MsgBlocked      = "Website blocked the request (403 Forbidden). Please copy and paste the job description into the 'additional_instructions' column of your sheet, and the system will use that instead."
	MsgTimeout      = "Request timed out. Please paste the job description in the 'additional_instructions' column of your sheet."
)

// Extractor fetches posting pages and extracts their main text.
type Extractor struct {
	Timeout    time.Duration
	UserAgent  string
	UseBrowser bool
	Verbose    bool
}

// New returns an Extractor with default settings.
func New() *Extractor {
	return &Extractor{
		Timeout:   DefaultTimeout,
		UserAgent: defaultUserAgent,
	}
}

// Extract fetches a posting URL and returns its main text. Soft failures
// (blocked, timed out, too little content) come back as advisory text with a
// nil error; a non-nil error means the URL was unusable or the transport
// failed outright.
func (e *Extractor) Extract(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid job URL %q", urlStr)
	}

	timeout := e.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	ua := e.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return MsgTimeout, nil
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return MsgBlocked, nil
	case resp.StatusCode != http.StatusOK:
		return fmt.Sprintf("HTTP Error %d: Unable to access job posting. Please paste the job description in the 'additional_instructions' column.", resp.StatusCode), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	platform := DetectPlatform(urlStr)
	text, err := extractMainText(string(body), platformSelectors(platform))
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	if e.UseBrowser && len(strings.TrimSpace(text)) < MinContentLength {
		if e.Verbose {
			log.Printf("[SCRAPE] content too short (%d chars), retrying with browser: %s", len(text), urlStr)
		}
		if html, berr := renderWithBrowser(ctx, urlStr, timeout*2); berr == nil {
			if rendered, rerr := extractMainText(html, platformSelectors(platform)); rerr == nil {
				text = rendered
			}
		} else if e.Verbose {
			log.Printf("[SCRAPE] browser fallback failed: %v", berr)
		}
	}

	if len(text) < 100 {
		return MsgInsufficient, nil
	}
	return text, nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// extractMainText parses HTML, strips noise elements, then pulls text from
// the first matching content selector, falling back to the whole body.
func extractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
