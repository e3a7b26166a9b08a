package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Operation names one of the three market-data calls, for logs and errors.
type Operation string

const (
	OpQuote      Operation = "quote"
	OpSearch     Operation = "search"
	OpHistorical Operation = "historical"
)

// BaseClient provides the transport shared by concrete providers.
// Embed it and call Get/Decode; it issues exactly one request per Get.
type BaseClient struct {
	info   Info
	apiKey string
	opts   Options
	http   *resty.Client
	log    zerolog.Logger
}

// NewBaseClient creates a base client for one provider and API key.
func NewBaseClient(info Info, apiKey string, opts Options) BaseClient {
	opts = opts.withDefaults(info)

	rc := resty.New()
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	}
	rc.SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)

	return BaseClient{
		info:   info,
		apiKey: apiKey,
		opts:   opts,
		http:   rc,
		log:    opts.Logger.With().Str("component", "provider").Str("provider", info.Name).Logger(),
	}
}

func (b *BaseClient) Name() string { return b.info.Name }

// SearchLimit is the configured maximum number of search rows.
func (b *BaseClient) SearchLimit() int { return b.opts.SearchLimit }

// Logger returns the provider's component logger.
func (b *BaseClient) Logger() *zerolog.Logger { return &b.log }

// Get performs one GET against path with query plus the API key, and returns
// the response body. Transport failures, 429 and other non-2xx statuses are
// mapped to *Error; the body is returned untouched on 2xx so that callers can
// inspect provider-specific signals.
func (b *BaseClient) Get(ctx context.Context, op Operation, path string, query map[string]string) ([]byte, error) {
	if !b.opts.Quota.Allow(b.apiKey) {
		b.log.Warn().Str("op", string(op)).Msg("local quota exhausted, request not sent")
		return nil, RateLimited(b.info.Name, "local request budget exhausted")
	}

	req := b.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if b.info.KeyParam != "" {
		req.SetQueryParam(b.info.KeyParam, b.apiKey)
	}

	start := time.Now()
	resp, err := req.Get(path)
	elapsed := time.Since(start)

	if err != nil {
		timeout := isTimeout(err)
		b.log.Warn().Err(redact(err, b.apiKey)).Str("op", string(op)).Bool("timeout", timeout).Dur("elapsed", elapsed).Msg("request failed")
		return nil, Network(b.info.Name, timeout, redact(err, b.apiKey))
	}

	status := resp.StatusCode()
	b.log.Debug().Str("op", string(op)).Str("path", path).Int("status", status).Dur("elapsed", elapsed).Msg("upstream response")

	switch {
	case status == http.StatusTooManyRequests:
		return nil, RateLimited(b.info.Name, "")
	case status < 200 || status >= 300:
		return nil, Upstream(b.info.Name, status, nil, "unexpected upstream status %d", status)
	}
	return resp.Body(), nil
}

// Decode unmarshals body into dest, mapping failures to UpstreamError.
func (b *BaseClient) Decode(op Operation, body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		b.log.Warn().Err(err).Str("op", string(op)).Msg("malformed payload")
		return Upstream(b.info.Name, http.StatusOK, err, "malformed %s payload", op)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// redactedError hides the API key that *url.Error embeds in its URL.
type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "***"), cause: err}
}
