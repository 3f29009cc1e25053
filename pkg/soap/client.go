package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ContentType of SOAP 1.1 messages.
const ContentType = "text/xml; charset=utf-8"

const maxResponseSize = 4 << 20

// HTTPError is returned for a non-2xx answer. Fault is set when the response
// body was a SOAP fault.
type HTTPError struct {
	StatusCode int
	Fault      *Fault
}

func (e *HTTPError) Error() string {
	if e.Fault != nil {
		return fmt.Sprintf("soap: http status %d: %s", e.StatusCode, e.Fault.Error())
	}
	return fmt.Sprintf("soap: http status %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	if e.Fault == nil {
		return nil
	}
	return e.Fault
}

// Client sends SOAP requests to a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient returns a client posting to endpoint. A zero timeout means no
// client side limit beyond the request context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call encodes req, posts it with the given SOAPAction and decodes the answer into resp.
// resp may be nil when no response payload is expected.
func (c *Client) Call(ctx context.Context, action string, req, resp any) error {
	payload, err := Marshal(req)
	if err != nil {
		return err
	}

	data, err := c.Do(ctx, action, payload)
	if err != nil {
		return err
	}
	if resp == nil && len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return Unmarshal(data, resp)
}

// Do posts a complete envelope and returns the raw response body of a 2xx answer.
func (c *Client) Do(ctx context.Context, action string, envelope []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("SOAPAction", strconv.Quote(action))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read soap response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{StatusCode: resp.StatusCode}
		var fault *Fault
		if errors.As(Unmarshal(data, nil), &fault) {
			httpErr.Fault = fault
		}
		return nil, httpErr
	}
	return data, nil
}
