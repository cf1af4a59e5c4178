package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"sourcebook/internal/logging"
)

// FetchError reports that a URL could not be turned into source text: the
// request failed, the server answered with a non-success status, the payload
// was not HTML or plain text, or extraction produced nothing usable. Nothing
// is registered when fetching fails.
type FetchError struct {
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s failed with status %d: %s", e.URL, e.Status, e.Message)
	}
	return fmt.Sprintf("fetch %s failed: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher downloads web pages and extracts their readable text.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
	userAgent  string
}

// FetcherConfig holds fetch limits.
type FetcherConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// NewFetcher creates a fetcher with the given limits.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "sourcebook/1.0"
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxBytes:   cfg.MaxBodyBytes,
		userAgent:  cfg.UserAgent,
	}
}

// FetchAndExtract downloads a URL and returns its page title and extracted
// text. HTML is stripped to visible text; text/plain bodies pass through. Any
// other content type is rejected.
func (f *Fetcher) FetchAndExtract(ctx context.Context, url string) (title, text string, err error) {
	startTime := time.Now()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.httpClient.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", "", &FetchError{URL: url, Message: "invalid URL", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logging.IngestWarn("Fetch failed for %s: %v", url, err)
		return "", "", &FetchError{URL: url, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", &FetchError{URL: url, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", "", &FetchError{URL: url, Message: "failed to read body", Err: err}
	}

	switch {
	case strings.Contains(contentType, "text/html"), strings.Contains(contentType, "application/xhtml"):
		title, text = extractHTML(string(body))
	case strings.Contains(contentType, "text/plain"):
		text = strings.TrimSpace(string(body))
	default:
		return "", "", &FetchError{URL: url, Message: fmt.Sprintf("unsupported content type %q", contentType)}
	}

	if text == "" {
		return "", "", &FetchError{URL: url, Message: "no extractable text"}
	}
	if title == "" {
		title = url
	}

	logging.Ingest("Fetched %s in %v (%d chars extracted)", url, time.Since(startTime), len(text))
	return title, text, nil
}

// extractHTML walks the parse tree collecting visible text, skipping script,
// style, and other non-content subtrees. A parse failure degrades to the raw
// input rather than losing the page.
func extractHTML(raw string) (title, text string) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", strings.TrimSpace(raw)
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "head":
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "title" && c.FirstChild != nil {
						title = strings.TrimSpace(c.FirstChild.Data)
					}
				}
				return
			case "script", "style", "noscript", "iframe", "svg":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.TrimSpace(sb.String())
}
