package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SalesClient posts quote handoffs to a configured sales endpoint. A nil
// client (no endpoint configured) means handoffs are log-only; callers
// decide that, not this package.
type SalesClient struct {
	URL    string
	Client *http.Client
	Logger zerolog.Logger
}

// NewSalesClient constructs a client for the given endpoint URL.
func NewSalesClient(url string, timeout time.Duration, logger zerolog.Logger) *SalesClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SalesClient{
		URL: url,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger: logger,
	}
}

// Handoff delivers the payload as JSON. Any non-2xx response is an error;
// the response body is drained so connections can be reused.
func (c *SalesClient) Handoff(ctx context.Context, payload any) error {
	if c == nil || c.Client == nil || c.URL == "" {
		return fmt.Errorf("sales client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode handoff payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build handoff request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver handoff: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sales endpoint returned status %d", resp.StatusCode)
	}
	c.Logger.Debug().Str("url", c.URL).Int("status", resp.StatusCode).Msg("sales handoff delivered")
	return nil
}
