// Package fetch is the HTTP collaborator behind the ergast client: a
// resty client with an identifying user-agent and an optional on-disk
// response cache.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"motorstats/lib/restyutil"
	"motorstats/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/fetch")

const Version = "0.3.0"

type Options struct {
	// defaults to "motorstats/<version>"
	UserAgent string
	// defaults to 30s
	Timeout time.Duration
	// empty string disables response caching
	CacheDir string
	// how long a cached response stays fresh, defaults to 6h
	CacheTTL time.Duration
	// optional dump target for raw HTTP exchanges, may be nil
	InstrumentOutput restyutil.InstrumentOutput
}

type Client struct {
	http  *resty.Client
	cache *responseCache
}

func NewClient(opts Options) (*Client, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = fmt.Sprintf("motorstats/%s", Version)
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour * 6
	}

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "lib/fetch/http")
	restyutil.InstrumentClient(client, opts.InstrumentOutput)

	c := &Client{http: client}

	if opts.CacheDir != "" {
		cache, err := openResponseCache(opts.CacheDir, opts.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to open response cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.close()
}

// issues a GET request, serving from and filling the response cache
// when one is configured. only 200 responses are cached.
func (c *Client) Get(ctx context.Context, url string) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, "client:Get")
	defer span.End()

	if c.cache != nil {
		cached, err := c.cache.get(ctx, url)
		if err == nil {
			slog.DebugContext(ctx, "cache hit", "url", url)
			return cached.Status, cached.Body, nil
		}
		if err != errResponseNotFound {
			span.RecordError(err)
			slog.WarnContext(ctx, "response cache read failed", "url", url, "err", err)
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return 0, nil, err
	}

	if c.cache != nil && res.StatusCode() == 200 {
		err = c.cache.set(ctx, url, cachedResponse{
			Status: res.StatusCode(),
			Body:   res.Body(),
		})
		if err != nil {
			slog.WarnContext(ctx, "response cache write failed", "url", url, "err", err)
		}
	}

	return res.StatusCode(), res.Body(), nil
}

// issues a POST request with a JSON body. never cached.
func (c *Client) Post(ctx context.Context, url string, body any) (int, []byte, error) {
	ctx, span := tracer.Start(ctx, "client:Post")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return 0, nil, err
	}

	return res.StatusCode(), res.Body(), nil
}
