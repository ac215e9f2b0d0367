package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits for each webhook sender's transport
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// WebhookSender POSTs each message payload as JSON to a fixed URL.
//
// WebhookSender uses per-request timeouts via context rather than a global
// client timeout; the [Dispatcher] supplies the deadline. Response bodies are
// read up to 1MB so the connection can be reused, then discarded.
type WebhookSender struct {
	url        string
	headers    map[string]string
	timeout    time.Duration
	httpClient *http.Client
}

// NewWebhookSender creates a [WebhookSender] for url.
//
// A positive timeout overrides the [Dispatcher] default for this sender.
// headers are set on every request after Content-Type, so a caller may
// override it. The map is copied.
func NewWebhookSender(url string, timeout time.Duration, headers map[string]string) *WebhookSender {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}

	return &WebhookSender{
		url:     url,
		headers: copied,
		timeout: timeout,
		httpClient: &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// Name implements [Sender].
func (w *WebhookSender) Name() string {
	return "webhook:" + w.url
}

// Timeout returns the per-send timeout, or zero for the dispatcher default.
func (w *WebhookSender) Timeout() time.Duration {
	return w.timeout
}

// Send implements [Sender]. A non-2xx response is an error.
func (w *WebhookSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range w.headers {
		req.Header.Set(key, value)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// drain with size limit so the connection returns to the pool
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}
	return nil
}

// Close closes all idle connections in the sender's connection pool.
// Safe to call multiple times.
func (w *WebhookSender) Close() {
	if w == nil || w.httpClient == nil {
		return
	}
	if transport, ok := w.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
