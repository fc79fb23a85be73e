package refsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/util"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Wikipedia looks titles up against the Wikipedia REST API. The summary
// endpoint supplies the canonical title/URL and lead extract; the article
// HTML supplies the full visible text. Responses are cached as assembled
// pages so repeat claims in a conversation cost one fetch.
type Wikipedia struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxBytes   int64
	limiter    *rate.Limiter
	robots     *util.RobotsChecker // nil when robots checking is disabled
	store      cache.Cache
	cacheTTL   time.Duration
}

// NewWikipedia builds a client from the reference/http/cache config sections
func NewWikipedia(cfg *model.Config, store cache.Cache) *Wikipedia {
	baseURL := cfg.Reference.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.wikipedia.org", cfg.Reference.Language)
	}

	var robots *util.RobotsChecker
	if cfg.Reference.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	if store == nil {
		store = cache.Nop{}
	}

	return &Wikipedia{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
			},
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Reference.RatePerSecond), cfg.Reference.RateBurst),
		robots:    robots,
		store:     store,
		cacheTTL:  cfg.Cache.TTL,
	}
}

// summaryResponse is the subset of the REST page/summary payload we use
type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Lookup resolves a title to a Page. A missing article is not an error: it
// returns Exists=false so the verifier can degrade that one claim.
func (w *Wikipedia) Lookup(ctx context.Context, title string) (*Page, error) {
	key := cache.Key("page:" + w.baseURL + ":" + title)
	if raw, found := w.store.Get(key); found {
		var page Page
		if err := json.Unmarshal(raw, &page); err == nil {
			return &page, nil
		}
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	summary, status, err := w.fetchSummary(ctx, title)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		page := &Page{Exists: false}
		w.cachePage(key, page)
		return page, nil
	}

	page := &Page{
		Exists:  true,
		Title:   summary.Title,
		Summary: summary.Extract,
		URL:     summary.ContentURLs.Desktop.Page,
	}

	// Full text is best effort; the summary alone still supports matching
	page.FullText = summary.Extract
	if page.URL != "" {
		if text, err := w.fetchArticleText(ctx, page.URL); err == nil && text != "" {
			page.FullText = text
		}
	}

	w.cachePage(key, page)
	return page, nil
}

func (w *Wikipedia) fetchSummary(ctx context.Context, title string) (*summaryResponse, int, error) {
	slug := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	endpoint := w.baseURL + "/api/rest_v1/page/summary/" + slug

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch summary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, http.StatusNotFound, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, resp.StatusCode, nil
}

// fetchArticleText downloads the article HTML and strips it to visible text
func (w *Wikipedia) fetchArticleText(ctx context.Context, pageURL string) (string, error) {
	if w.robots != nil && !w.robots.Allowed(ctx, pageURL) {
		return "", fmt.Errorf("disallowed by robots.txt: %s", pageURL)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, w.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return visibleText(doc), nil
}

func (w *Wikipedia) cachePage(key string, page *Page) {
	if raw, err := json.Marshal(page); err == nil {
		w.store.Set(key, raw, w.cacheTTL)
	}
}

// visibleText walks the DOM collecting text nodes, skipping script, style
// and other non-content subtrees
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
