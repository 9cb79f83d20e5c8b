// Package webhook posts filter reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/streamfilter/pkg/config"
	"github.com/ccollicutt/streamfilter/pkg/output"
)

// DefaultTimeout applies when a request sets no timeout of its own.
const DefaultTimeout = config.DefaultWebhookTimeout

const (
	userAgent       = "streamfilter-webhook"
	maxResponseBody = 1 << 20
)

// Client delivers reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions addresses a single delivery.
type SendOptions struct {
	URL     string
	Token   string        // sent as a bearer token when set
	Timeout time.Duration // zero means DefaultTimeout
}

// Response describes the outcome of one delivery.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success reports a delivery that got a 2xx reply.
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Delivery pairs a configured webhook with its response.
type Delivery struct {
	Name     string
	Response *Response
}

// Send posts report as JSON to a single endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	payload, err := json.Marshal(report)
	if err != nil {
		return &Response{Error: fmt.Errorf("encoding report: %w", err)}
	}
	return c.post(ctx, payload, opts)
}

// Notify delivers report to every webhook whose trigger fires for it.
// The report is encoded once and shared by all deliveries.
func (c *Client) Notify(ctx context.Context, report *output.Report, hooks []config.WebhookConfig) []Delivery {
	var deliveries []Delivery
	var payload []byte
	var encodeErr error

	for i, wh := range hooks {
		if !ShouldFire(wh.Trigger, report.HasMatches()) {
			continue
		}
		if payload == nil && encodeErr == nil {
			payload, encodeErr = json.Marshal(report)
		}

		resp := &Response{Error: encodeErr}
		if encodeErr == nil {
			resp = c.post(ctx, payload, SendOptions{URL: wh.URL, Token: wh.Token, Timeout: wh.Timeout})
		}
		deliveries = append(deliveries, Delivery{Name: hookName(wh, i), Response: resp})
	}

	return deliveries
}

func (c *Client) post(ctx context.Context, payload []byte, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	defer func() { resp.Duration = time.Since(start) }()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		resp.Error = fmt.Errorf("building request: %w", err)
		return resp
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		resp.Error = fmt.Errorf("posting report: %w", err)
		return resp
	}
	defer httpResp.Body.Close()

	resp.StatusCode = httpResp.StatusCode
	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	resp.Body = string(body)
	switch {
	case err != nil:
		resp.Error = fmt.Errorf("reading reply: %w", err)
	case httpResp.StatusCode >= 400:
		resp.Error = fmt.Errorf("endpoint replied %s", httpResp.Status)
	}

	return resp
}

// hookName labels a webhook for messages: its name, else its URL.
func hookName(wh config.WebhookConfig, i int) string {
	switch {
	case wh.Name != "":
		return wh.Name
	case wh.URL != "":
		return wh.URL
	default:
		return fmt.Sprintf("webhooks[%d]", i)
	}
}

// ShouldFire reports whether a webhook with the given trigger fires for a
// report that did or did not match anything.
func ShouldFire(trigger config.WebhookTrigger, hasMatches bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasMatches
	}
}
