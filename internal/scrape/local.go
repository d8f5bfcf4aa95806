package scrape

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

const maxLocalBody = 4 << 20

// LocalScraper fetches HTML directly and reduces it to plaintext. No API key
// is needed.
type LocalScraper struct {
	client    *http.Client
	userAgent string
}

// NewLocalScraper creates a LocalScraper. A zero timeout keeps the default.
func NewLocalScraper(timeout time.Duration) *LocalScraper {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LocalScraper{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent: "Mozilla/5.0 (compatible; ConsultBot/1.0)",
	}
}

// Name implements Scraper.
func (l *LocalScraper) Name() string { return ProviderLocal }

// Scrape fetches a URL, detects blocks, and converts the HTML to plaintext.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local: create request")
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLocalBody))
	if err != nil {
		return nil, eris.Wrap(err, "local: read body")
	}

	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("local: status %d", resp.StatusCode)
	}

	body, err = decodeCharset(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "local: parse html")
	}

	if reason := detectBlock(doc); reason != "" {
		return nil, eris.Errorf("local: blocked (%s)", reason)
	}

	base := resp.Request.URL
	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := pageText(doc, base)
	if text == "" {
		return nil, eris.New("local: empty page")
	}

	return &Result{
		URL:        base.String(),
		Title:      title,
		Content:    text,
		StatusCode: resp.StatusCode,
		Source:     ProviderLocal,
	}, nil
}

// decodeCharset converts body to UTF-8 using the charset declared in the
// Content-Type header.
func decodeCharset(body []byte, contentType string) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	cs := strings.ToLower(strings.TrimSpace(params["charset"]))
	if cs == "" || cs == "utf-8" || cs == "utf8" {
		return body, nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, eris.Wrapf(err, "local: unsupported charset %q", cs)
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, eris.Wrapf(err, "local: decode %s", cs)
	}
	return out, nil
}

// detectBlock reports anti-bot interstitials that carry no page content.
func detectBlock(doc *goquery.Document) string {
	lower := strings.ToLower(doc.Text())
	switch {
	case strings.Contains(lower, "checking your browser"),
		doc.Find("#cf-browser-verification, #challenge-form").Length() > 0:
		return "cloudflare"
	case doc.Find(".g-recaptcha, .h-captcha").Length() > 0:
		return "captcha"
	}
	return ""
}

var blockSelectors = "p, div, li, tr, br, h1, h2, h3, h4, h5, h6, section, article, table"

// pageText strips non-content elements and renders the body as plaintext.
// Links keep their absolute target inline so extracted values can cite it.
func pageText(doc *goquery.Document, base *url.URL) string {
	doc.Find("script, style, noscript, nav, footer, iframe, svg").Remove()

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		label := strings.Join(strings.Fields(s.Text()), " ")
		abs := resolveLink(base, href)
		if abs == "" || label == "" {
			return
		}
		s.SetText(label + " (" + abs + ")")
	})
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" | ")
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	var lines []string
	for _, line := range strings.Split(body.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		line = strings.TrimSuffix(line, " |")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
