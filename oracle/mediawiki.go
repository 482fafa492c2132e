package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/katalvlaran/wikiwalk/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// MediaWiki defaults.
const (
	DefaultBaseURL           = "https://en.wikipedia.org"
	DefaultAPIPath           = "/w/api.php"
	DefaultUserAgent         = "wikiwalk/1.0 (https://github.com/katalvlaran/wikiwalk)"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 10.0
)

// MediaWiki is an Oracle backed by a MediaWiki Action API.
//
// Requests go through a token-bucket limiter. Concurrent category lookups for
// the same title share a single request. Every failure degrades to an empty
// answer; nothing is retried.
//
// MediaWiki is safe for concurrent use.
type MediaWiki struct {
	client    *http.Client
	baseURL   string
	apiPath   string
	userAgent string
	limiter   *rate.Limiter
	denylist  []string
	log       *zap.Logger
	flight    singleflight.Group

	rngMu sync.Mutex
	rng   *rand.Rand
}

// MediaWikiOption configures a MediaWiki oracle.
type MediaWikiOption func(*MediaWiki)

// WithBaseURL sets the wiki origin, e.g. "https://de.wikipedia.org".
func WithBaseURL(base string) MediaWikiOption {
	return func(w *MediaWiki) {
		if base != "" {
			w.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithAPIPath sets the Action API path relative to the base URL.
func WithAPIPath(path string) MediaWikiOption {
	return func(w *MediaWiki) {
		if path != "" {
			w.apiPath = path
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) MediaWikiOption {
	return func(w *MediaWiki) {
		if ua != "" {
			w.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) MediaWikiOption {
	return func(w *MediaWiki) {
		if c != nil {
			w.client = c
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied first and left untouched.
func WithTimeout(d time.Duration) MediaWikiOption {
	return func(w *MediaWiki) {
		if d > 0 {
			c := *w.client
			c.Timeout = d
			w.client = &c
		}
	}
}

// WithRateLimit caps outgoing requests per second; rps <= 0 disables the cap.
func WithRateLimit(rps float64) MediaWikiOption {
	return func(w *MediaWiki) {
		if rps <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithSeed makes the link shuffle reproducible. Seed 0 uses the clock.
func WithSeed(seed int64) MediaWikiOption {
	return func(w *MediaWiki) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		w.rng = rand.New(rand.NewSource(seed))
	}
}

// WithDenylist replaces the category denylist.
func WithDenylist(list []string) MediaWikiOption {
	return func(w *MediaWiki) { w.denylist = append([]string(nil), list...) }
}

// WithLogger sets the logger used for degraded calls.
func WithLogger(log *zap.Logger) MediaWikiOption {
	return func(w *MediaWiki) {
		if log != nil {
			w.log = log
		}
	}
}

// NewMediaWiki returns a client for the English Wikipedia unless overridden.
func NewMediaWiki(opts ...MediaWikiOption) *MediaWiki {
	w := &MediaWiki{
		client:    &http.Client{Timeout: DefaultTimeout},
		baseURL:   DefaultBaseURL,
		apiPath:   DefaultAPIPath,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		denylist:  DefaultCategoryDenylist,
		log:       zap.NewNop(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Exists sends HEAD /wiki/<Title> and reports a 200 response.
// Redirects are followed, so a redirect title exists if its target does.
func (w *MediaWiki) Exists(ctx context.Context, title string) bool {
	ctx, span := getTracer().Start(ctx, "oracle.MediaWiki.Exists")
	defer span.End()
	span.SetAttributes(attribute.String("wiki.title", title))

	if strings.TrimSpace(title) == "" {
		return false
	}
	target := w.baseURL + "/wiki/" + url.PathEscape(core.URLTitle(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		w.degraded(opExists, "request", title, err)
		return false
	}
	resp, err := w.do(ctx, opExists, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		w.degraded(opExists, "transport", title, err)
		return false
	}
	resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return resp.StatusCode == http.StatusOK
}

// Expand queries prop=links (Forward) or prop=linkshere (Backward).
func (w *MediaWiki) Expand(ctx context.Context, title string, dir core.Direction, limit int) []Link {
	ctx, span := getTracer().Start(ctx, "oracle.MediaWiki.Expand")
	defer span.End()
	span.SetAttributes(
		attribute.String("wiki.title", title),
		attribute.String("wiki.direction", dir.String()),
		attribute.Int("wiki.limit", limit),
	)

	params := url.Values{}
	if dir == core.Backward {
		params.Set("prop", "linkshere")
		params.Set("lhlimit", apiLimit(limit))
		params.Set("lhnamespace", strconv.Itoa(NamespaceArticle))
	} else {
		params.Set("prop", "links")
		params.Set("pllimit", apiLimit(limit))
		params.Set("plnamespace", strconv.Itoa(NamespaceArticle))
	}
	page, err := w.queryPage(ctx, opExpand, title, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query")
		return nil
	}

	var links []Link
	if dir == core.Backward {
		links = page.LinksHere
	} else {
		links = page.Links
	}
	links = append([]Link(nil), links...)
	w.shuffle(links)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	span.SetAttributes(attribute.Int("wiki.links", len(links)))

	return links
}

// Categories queries prop=categories and filters the result. Concurrent calls
// for the same title and limit share one request.
func (w *MediaWiki) Categories(ctx context.Context, title string, limit int) []string {
	key := core.Canonical(title) + "|" + strconv.Itoa(limit)
	v, _, _ := w.flight.Do(key, func() (interface{}, error) {
		return w.fetchCategories(ctx, title, limit), nil
	})
	cats := v.([]string)

	return append([]string(nil), cats...)
}

func (w *MediaWiki) fetchCategories(ctx context.Context, title string, limit int) []string {
	ctx, span := getTracer().Start(ctx, "oracle.MediaWiki.Categories")
	defer span.End()
	span.SetAttributes(attribute.String("wiki.title", title), attribute.Int("wiki.limit", limit))

	params := url.Values{}
	params.Set("prop", "categories")
	params.Set("cllimit", apiLimit(limit))
	params.Set("clshow", "!hidden")
	page, err := w.queryPage(ctx, opCategories, title, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query")
		return []string{}
	}

	return FilterCategories(page.Categories, w.denylist, limit)
}

// apiPage is the subset of a query.pages entry the oracle reads.
type apiPage struct {
	Title      string          `json:"title"`
	Missing    json.RawMessage `json:"missing,omitempty"`
	Links      []Link          `json:"links"`
	LinksHere  []Link          `json:"linkshere"`
	Categories []Link          `json:"categories"`
}

type apiResponse struct {
	Query struct {
		Pages map[string]apiPage `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error,omitempty"`
}

// UnmarshalJSON maps MediaWiki's {"ns":0,"title":"…"} entries onto Link.
func (l *Link) UnmarshalJSON(data []byte) error {
	var raw struct {
		NS    int    `json:"ns"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Namespace = raw.NS
	l.Title = raw.Title

	return nil
}

// queryPage runs action=query for one title and returns its single page.
func (w *MediaWiki) queryPage(ctx context.Context, op, title string, params url.Values) (*apiPage, error) {
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("redirects", "1")
	params.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+w.apiPath+"?"+params.Encode(), nil)
	if err != nil {
		w.degraded(op, "request", title, err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.do(ctx, op, req)
	if err != nil {
		w.degraded(op, "transport", title, err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("oracle: %s %q: status %d", op, title, resp.StatusCode)
		w.degraded(op, "status", title, err)
		return nil, err
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		w.degraded(op, "decode", title, err)
		return nil, err
	}
	if body.Error != nil {
		err = fmt.Errorf("oracle: %s %q: api error %s: %s", op, title, body.Error.Code, body.Error.Info)
		w.degraded(op, "api", title, err)
		return nil, err
	}
	for _, page := range body.Query.Pages {
		if len(page.Missing) > 0 {
			err = fmt.Errorf("oracle: %s %q: page missing", op, title)
			w.degraded(op, "missing", title, err)
			return nil, err
		}
		p := page
		return &p, nil
	}
	err = fmt.Errorf("oracle: %s %q: no pages in response", op, title)
	w.degraded(op, "empty", title, err)

	return nil, err
}

// do waits for the limiter, sends req and observes latency.
func (w *MediaWiki) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("oracle: rate limiter: %w", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	start := time.Now()
	resp, err := w.client.Do(req)
	httpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	return resp, err
}

func (w *MediaWiki) degraded(op, reason, title string, err error) {
	httpFailures.WithLabelValues(op, reason).Inc()
	w.log.Debug("oracle call degraded",
		zap.String("op", op),
		zap.String("reason", reason),
		zap.String("title", title),
		zap.Error(err),
	)
}

func (w *MediaWiki) shuffle(links []Link) {
	w.rngMu.Lock()
	w.rng.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })
	w.rngMu.Unlock()
}

// apiLimit renders limit for *limit parameters; non-positive means "max".
func apiLimit(limit int) string {
	if limit <= 0 {
		return "max"
	}

	return strconv.Itoa(limit)
}
