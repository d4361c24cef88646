package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/ontodoc/errs"
	"github.com/c360studio/ontodoc/metric"
	"github.com/c360studio/ontodoc/weburl"
	"github.com/c360studio/semstreams/pkg/retry"
)

// Accept headers for the documents ontodoc loads.
const (
	AcceptTurtle = "text/turtle"
	AcceptJSON   = "application/json"
)

// Config configures the HTTP client.
type Config struct {
	Timeout              time.Duration
	UserAgent            string
	MaxContentSize       int64
	MaxRedirects         int
	InsecureSkipVerify   bool
	BlockPrivateNetworks bool
	Retry                retry.Config
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:            30 * time.Second,
		UserAgent:          "ontodoc/1.0",
		MaxContentSize:     32 << 20,
		MaxRedirects:       10,
		InsecureSkipVerify: true,
		Retry:              retry.DefaultConfig(),
	}
}

// Result contains a fetched document.
type Result struct {
	Body        []byte
	ContentType string
	StatusCode  int
	// URL is the final URL after redirects.
	URL string
}

// Client fetches documents with redirect, TLS and retry handling.
type Client struct {
	client  *http.Client
	cfg     Config
	logger  *slog.Logger
	metrics *metric.Metrics
}

// NewClient creates a new client. A nil logger or metrics falls back to
// defaults.
func NewClient(cfg Config, logger *slog.Logger, metrics *metric.Metrics) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = metric.New()
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 10
	}
	if cfg.MaxContentSize <= 0 {
		cfg.MaxContentSize = 32 << 20
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // misconfigured vocabulary hosts
		},
	}
	if cfg.BlockPrivateNetworks {
		transport.DialContext = safeDialContext(dialer)
	}

	c := &Client{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
	c.client = &http.Client{
		Transport:     transport,
		Timeout:       cfg.Timeout,
		CheckRedirect: c.checkRedirect,
	}
	return c
}

// checkRedirect bounds the redirect chain and carries the original headers
// over to every hop.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= c.cfg.MaxRedirects {
		return fmt.Errorf("too many redirects (max %d)", c.cfg.MaxRedirects)
	}
	if c.cfg.BlockPrivateNetworks {
		if err := weburl.CheckHost(req.URL.Hostname()); err != nil {
			return fmt.Errorf("redirect blocked: %w", err)
		}
	}
	for key, values := range via[0].Header {
		req.Header[key] = values
	}
	c.logger.Debug("Following redirect",
		"from", via[len(via)-1].URL.String(),
		"to", req.URL.String(),
		"status", req.Response.StatusCode)
	return nil
}

// safeDialContext validates resolved IPs to prevent DNS rebinding to private
// networks.
func safeDialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}

		for _, ipAddr := range ips {
			if weburl.IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
			if err == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}
}

// Get fetches rawURL with the given Accept header. kind labels the request
// in metrics and logs (see the metric.Kind* constants).
func (c *Client) Get(ctx context.Context, kind, rawURL, accept string) (*Result, error) {
	if err := weburl.ValidateURL(rawURL); err != nil {
		return nil, errs.Validation("fetch", err)
	}

	start := time.Now()
	result, err := retry.DoWithResult(ctx, c.cfg.Retry, func() (*Result, error) {
		return c.do(ctx, rawURL, accept)
	})
	c.metrics.FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchesTotal.WithLabelValues(kind, "error").Inc()
		return nil, errs.Network("fetch "+kind, rawURL, err)
	}

	c.metrics.FetchesTotal.WithLabelValues(kind, "ok").Inc()
	c.logger.Debug("Fetched document",
		"kind", kind,
		"url", rawURL,
		"final_url", result.URL,
		"content_type", result.ContentType,
		"bytes", len(result.Body))
	return result, nil
}

// do performs a single attempt. Client errors are not retried.
func (c *Client) do(ctx context.Context, rawURL, accept string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("create request: %w", err))
	}

	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, statusErr
		}
		return nil, retry.NonRetryable(statusErr)
	}

	limitReader := io.LimitReader(resp.Body, c.cfg.MaxContentSize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > c.cfg.MaxContentSize {
		return nil, retry.NonRetryable(fmt.Errorf("content too large (exceeds %d bytes)", c.cfg.MaxContentSize))
	}

	return &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		URL:         resp.Request.URL.String(),
	}, nil
}
