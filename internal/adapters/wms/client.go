package wms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/core/ports"
	"github.com/aldasoro/geobridge/internal/pkg/logging"
	"github.com/aldasoro/geobridge/internal/pkg/metrics"
)

// Client fetches the project capabilities document over HTTP, read-through
// cached so restarts do not hammer the map server. It implements
// ports.CapabilitiesSource.
type Client struct {
	serviceURL string
	httpc      *http.Client
	cache      ports.CacheService
	cacheTTL   int
	log        *slog.Logger
}

// NewClient creates a capabilities client. cache may be nil, in which case
// every Fetch goes to the network.
func NewClient(serviceURL string, timeout time.Duration, cache ports.CacheService, cacheTTL int) *Client {
	return &Client{
		serviceURL: serviceURL,
		httpc:      &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        logging.Component("wms"),
	}
}

// Fetch retrieves and parses the capabilities document.
func (c *Client) Fetch(ctx context.Context) (*domain.Capabilities, error) {
	payload, err := c.payload(ctx)
	if err != nil {
		return nil, err
	}
	return ParseCapabilities(payload)
}

func (c *Client) payload(ctx context.Context) ([]byte, error) {
	cacheKey := "wms:capabilities:" + c.serviceURL

	if c.cache != nil {
		if data, err := c.cache.Get(ctx, cacheKey); err == nil && len(data) > 0 {
			metrics.CacheHits.WithLabelValues("capabilities").Inc()
			return data, nil
		}
		metrics.CacheMisses.WithLabelValues("capabilities").Inc()
	}

	reqURL, err := capabilitiesURL(c.serviceURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := c.get(ctx, reqURL)
	metrics.CapabilitiesFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CapabilitiesFetchErrors.Inc()
		return nil, err
	}
	c.log.Info("capabilities fetched", "url", reqURL, "bytes", len(data))

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, data, c.cacheTTL); err != nil {
			c.log.Warn("capabilities cache write failed", "error", err)
		}
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("capabilities request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capabilities fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capabilities fetch: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("capabilities read: %w", err)
	}
	return data, nil
}

// capabilitiesURL appends the GetCapabilities query to the service URL,
// preserving any query parameters already present (e.g. a project selector).
func capabilitiesURL(serviceURL string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("service url: %w", err)
	}
	q := u.Query()
	q.Set("SERVICE", "WMS")
	q.Set("REQUEST", "GetCapabilities")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
