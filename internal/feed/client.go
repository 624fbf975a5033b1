// Package feed is the HTTP client for the upstream catalog feed: basic-auth
// GET with bounded timeouts, transparent retry on transient 5xx, request rate
// limiting and streamed downloads of the large compressed reference files.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/harvest/internal/config"
	"github.com/kailas-cloud/harvest/internal/metrics"
)

// Outcome classifies the result of a product fetch. Restricted responses
// (404 or an access-denied body) are permanent and must not be retried;
// transport failures are transient.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRestricted
	OutcomeFailed
)

// String returns the metrics label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "downloaded"
	case OutcomeRestricted:
		return "restricted"
	default:
		return "failed"
	}
}

// ErrNotOK is returned by Stream and Download for non-2xx responses.
var ErrNotOK = errors.New("unexpected upstream status")

// Client talks to the upstream feed. Safe for concurrent use.
type Client struct {
	base     string
	username string
	password string
	retries  int
	reqc     *http.Client // short timeout, per-product requests
	bulkc    *http.Client // long timeout, reference downloads
	limiter  *rate.Limiter
	log      *zap.Logger
	met      *metrics.Set
}

// New creates a feed client from configuration.
func New(cfg config.FeedConfig, log *zap.Logger, met *metrics.Set) *Client {
	c := &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		retries:  cfg.Retries,
		reqc:     &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		bulkc:    &http.Client{Timeout: time.Duration(cfg.DownloadSec) * time.Second},
		log:      log,
		met:      met,
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}
	return c
}

// URL joins a feed-relative document path onto the base URL.
func (c *Client) URL(path string) string {
	return c.base + "/" + strings.TrimLeft(path, "/")
}

// Fetch retrieves one product document. 404s and access-restriction bodies
// are OutcomeRestricted; transient 5xx responses and network errors are
// retried with backoff before counting as OutcomeFailed.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, Outcome, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, OutcomeFailed, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		if err := c.wait(ctx); err != nil {
			return nil, OutcomeFailed, err
		}

		start := time.Now()
		body, status, err := c.get(ctx, c.reqc, path)
		c.met.ObserveFetch(time.Since(start).Seconds())

		switch {
		case err != nil:
			lastErr = err
			continue // network error, retry
		case status == http.StatusOK:
			c.met.AddDownloadBytes(int64(len(body)))
			return body, OutcomeOK, nil
		case status == http.StatusNotFound:
			return nil, OutcomeRestricted, nil
		case status >= 500:
			lastErr = fmt.Errorf("%w: %d", ErrNotOK, status)
			continue
		case restrictedBody(body):
			return nil, OutcomeRestricted, nil
		default:
			return nil, OutcomeFailed, fmt.Errorf("%w: %d", ErrNotOK, status)
		}
	}

	return nil, OutcomeFailed, lastErr
}

// Stream opens a long-lived GET for a reference document and returns the
// response body. The caller owns the reader and typically wraps it in a
// gzip reader.
func (c *Client) Stream(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.bulkc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d for %s", ErrNotOK, resp.StatusCode, path)
	}
	return resp.Body, nil
}

// Download streams a reference document to dest via a temp file, renaming on
// success so an interrupted run never leaves a half-written file in place.
func (c *Client) Download(ctx context.Context, path, dest string) error {
	body, err := c.Stream(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(dest), err)
	}

	tmp := dest + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	written, err := io.Copy(f, body)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	c.met.AddDownloadBytes(written)

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	c.log.Info("downloaded feed document",
		zap.String("path", path),
		zap.String("dest", dest),
		zap.Int64("bytes", written),
	)
	return nil
}

func (c *Client) get(ctx context.Context, hc *http.Client, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("feed request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// restrictedBody reports whether a response body advertises that the document
// is outside the current data-access tier.
func restrictedBody(body []byte) bool {
	if len(body) > 2048 {
		body = body[:2048]
	}
	return strings.Contains(strings.ToLower(string(body)), "restricted")
}
