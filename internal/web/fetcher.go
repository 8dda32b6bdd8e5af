package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	RequestTimeout = 20 * time.Second
	UserAgent      = "gh-cards/0.1 (+https://github.com/leonardcser/gh-cards)"
)

// Keys under which the response is handed back through the colly context.
const (
	ctxStatus = "status"
	ctxBody   = "body"
)

// Fetcher issues GET requests for JSON documents. Status validation is done
// here rather than by colly so that failures carry the upstream status.
type Fetcher struct {
	mu sync.Mutex
	c  *colly.Collector
}

type fetcherConfig struct {
	timeout   time.Duration
	token     string
	userAgent string
}

type FetcherOption func(*fetcherConfig)

// WithTimeout bounds each request. Non-positive values keep RequestTimeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithToken authenticates requests with a GitHub token.
func WithToken(token string) FetcherOption {
	return func(c *fetcherConfig) { c.token = token }
}

// WithUserAgent overrides UserAgent.
func WithUserAgent(ua string) FetcherOption {
	return func(c *fetcherConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	cfg := fetcherConfig{timeout: RequestTimeout, userAgent: UserAgent}
	for _, o := range opts {
		o(&cfg)
	}
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
		colly.ParseHTTPErrorResponse(),
		colly.UserAgent(cfg.userAgent),
	)
	c.SetRequestTimeout(cfg.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/vnd.github+json, application/json")
		if cfg.token != "" {
			r.Headers.Set("Authorization", "Bearer "+cfg.token)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxStatus, r.StatusCode)
		r.Ctx.Put(ctxBody, r.Body)
	})
	return &Fetcher{c: c}
}

// Fetch returns the compacted JSON body at rawURL. Errors are *TransportError,
// *FetchError or *DecodeError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, &TransportError{URL: rawURL, Err: errors.New("url must start with http:// or https://")}
	}

	// The collector carries the request context, so requests are serialized.
	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Context = ctx
	defer func() { f.c.Context = context.Background() }()

	rc := colly.NewContext()
	if err := f.c.Request(http.MethodGet, rawURL, nil, rc, nil); err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	status, _ := rc.GetAny(ctxStatus).(int)
	if status < 200 || status > 299 {
		return nil, &FetchError{URL: rawURL, StatusCode: status, Status: http.StatusText(status)}
	}
	body, _ := rc.GetAny(ctxBody).([]byte)
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}
