// Package api is the HTTP client for the fleet REST backend.
//
// The backend exposes three collections: buses and vans are paged, sorted
// and searched server-side, while accessibility features are returned as a
// single list which [FeatureClient] pages locally. All clients satisfy
// [Repository] so that callers can treat the collections uniformly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/macropower/fleetdesk/pkg/fleet"
	"github.com/macropower/fleetdesk/pkg/version"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
)

// Config holds the connection settings for a [Client].
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8080".
	BaseURL string
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// Retries is the number of extra attempts for idempotent requests that
	// fail with a transient error.
	Retries int
	// Locale is used to collate accessibility features by name.
	Locale language.Tag
}

// Client talks to the fleet backend.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	newBackOff func() backoff.BackOff
	locale     language.Tag
	retries    int
}

// ClientOpt configures a [Client].
type ClientOpt func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request logs. Defaults to
// [slog.Default] at construction time.
func WithLogger(l *slog.Logger) ClientOpt {
	return func(c *Client) {
		c.logger = l
	}
}

// WithBackOff sets the policy used between retries.
func WithBackOff(f func() backoff.BackOff) ClientOpt {
	return func(c *Client) {
		c.newBackOff = f
	}
}

// New creates a [Client] from cfg.
func New(cfg Config, opts ...ClientOpt) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url %q: scheme must be http or https", cfg.BaseURL)
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default(),
		tracer:     otel.Tracer("fleet-api"),
		retries:    max(0, cfg.Retries),
		locale:     cfg.Locale,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second

			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) Buses() *ResourceClient[fleet.Bus] {
	return &ResourceClient[fleet.Bus]{client: c, kind: fleet.KindBus}
}

func (c *Client) Vans() *ResourceClient[fleet.Van] {
	return &ResourceClient[fleet.Van]{client: c, kind: fleet.KindVan}
}

func (c *Client) Features() *FeatureClient {
	return &FeatureClient{
		ResourceClient: &ResourceClient[fleet.AccessibilityFeature]{client: c, kind: fleet.KindFeature},
		Locale:         c.locale,
	}
}

type request struct {
	body   any
	out    any
	query  url.Values
	method string
	path   string
	expect []int
}

func (c *Client) do(ctx context.Context, req request) error {
	ctx, span := c.tracer.Start(ctx, req.method+" "+req.path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		))
	defer span.End()

	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}

		payload = b
	}

	attempt := 0
	op := func() error {
		attempt++

		err := c.send(ctx, req, payload)
		if err == nil {
			return nil
		}
		if !isRetryable(ctx, req.method, err) {
			return backoff.Permanent(err)
		}

		c.logger.DebugContext(ctx, "retryable request failure",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.Int("attempt", attempt),
			slog.Any("err", err),
		)

		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.retries)), ctx)

	err := backoff.Retry(op, b)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}

func (c *Client) send(ctx context.Context, req request, payload []byte) error {
	u := c.base.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort.

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", req.method),
		slog.String("url", u.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	expect := req.expect
	if len(expect) == 0 {
		expect = []int{http.StatusOK}
	}

	if !slices.Contains(expect, resp.StatusCode) {
		return newStatusError(req.method, req.path, resp)
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(req.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}

	return nil
}

func isRetryable(ctx context.Context, method string, err error) bool {
	if method != http.MethodGet || ctx.Err() != nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}

	// Transport failures, e.g. connection refused while the backend restarts.
	return true
}
