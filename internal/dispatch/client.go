package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader carries the hex HMAC of the request body. Omitted when
// the webhook has no secret.
const SignatureHeader = "x-webhook-signature"

// DefaultTimeout bounds every outbound delivery call.
const DefaultTimeout = 5 * time.Second

// ErrNon2xx marks attempts where the receiver responded but rejected the
// delivery. Distinct from transport failures, which have StatusCode 0.
const ErrNon2xx = "non-2xx response"

// Result is the classified outcome of a single delivery call.
type Result struct {
	StatusCode   int
	ResponseTime int
	Error        string
}

// Client performs one bounded-time HTTP POST per delivery. It never
// retries and never treats a non-2xx response as a transport error.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Deliver posts body to targetURL, attaching the signature header when
// signature is non-empty. Timeouts, DNS failures and refused connections
// yield StatusCode 0 with a populated Error.
func (c *Client) Deliver(ctx context.Context, targetURL string, body []byte, signature string) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(body))
	if err != nil {
		return Result{
			ResponseTime: int(time.Since(start).Milliseconds()),
			Error:        fmt.Sprintf("building request: %v", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}

	resp, err := c.httpClient.Do(req)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			ResponseTime: elapsed,
			Error:        fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	res := Result{StatusCode: resp.StatusCode, ResponseTime: elapsed}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Error = ErrNon2xx
	}
	return res
}
