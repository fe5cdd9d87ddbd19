package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/m3rciful/quotebot/core/logger"
	"github.com/m3rciful/quotebot/core/netutil"
)

const (
	// AuthorsPageLimit is the page size used when scanning the author directory.
	AuthorsPageLimit = 150

	defaultTimeout = 8 * time.Second
	maxBodyBytes   = 1 << 20
)

// Options configures NewClient.
type Options struct {
	BaseURL string
	// Timeout bounds every request; zero means 8s.
	Timeout time.Duration
	// RequestsPerSecond throttles calls process-wide; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
	// HTTPClient overrides the pooled default client.
	HTTPClient *http.Client
}

// Client talks to the quotes API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("quotes: invalid base url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = netutil.NewHTTPClient(netutil.ClientOptions{Timeout: timeout, ResponseTimeout: timeout})
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{base: base, http: hc, timeout: timeout, limiter: limiter}, nil
}

// FetchRandom returns one random quote.
func (c *Client) FetchRandom(ctx context.Context) (Quote, error) {
	return c.fetchQuote(ctx, "random", nil)
}

// FetchRandomByAuthorSlug returns a random quote by the author with the given slug.
// ErrEmpty means the API knows no quotes for that slug.
func (c *Client) FetchRandomByAuthorSlug(ctx context.Context, slug string) (Quote, error) {
	return c.fetchQuote(ctx, "random_by_author", url.Values{"author": {slug}})
}

// FetchAuthors returns page n (1-based) of the author directory sorted by name.
func (c *Client) FetchAuthors(ctx context.Context, page int) (AuthorPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"page":   {strconv.Itoa(page)},
		"limit":  {strconv.Itoa(AuthorsPageLimit)},
		"sortBy": {"name"},
	}
	var out AuthorPage
	if err := c.get(ctx, "authors", "/authors", q, &out, slog.Int("page", page)); err != nil {
		return AuthorPage{}, err
	}
	if out.Page == 0 {
		out.Page = page
	}
	return out, nil
}

func (c *Client) fetchQuote(ctx context.Context, op string, q url.Values) (Quote, error) {
	var list []Quote
	var extra []slog.Attr
	if slug := q.Get("author"); slug != "" {
		extra = append(extra, slog.String("slug", slug))
	}
	if err := c.get(ctx, op, "/quotes/random", q, &list, extra...); err != nil {
		return Quote{}, err
	}
	if len(list) == 0 {
		return Quote{}, ErrEmpty
	}
	return list[0], nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, dst any, extra ...slog.Attr) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		attrs := append([]slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.String("op", op),
			slog.Int("http_code", status),
			slog.Duration("duration", logger.Took(start)),
		}, extra...)
		if err != nil {
			attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
			if te, ok := err.(*TransportError); ok {
				attrs = append(attrs, slog.String("error_kind", te.Code()))
			}
		}
		logger.Debug(ctx, "quotes", "api.request", attrs...)
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &TransportError{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &TransportError{Op: op, Err: &decodeError{err: err}}
	}
	return nil
}
