package soap

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/smartcapwap/capwap-ac/internal/acbackend/core/model"
	wire "github.com/smartcapwap/capwap-ac/pkg/soap"
)

// Client queries a management SOAP endpoint.
type Client struct {
	client    *wire.Client
	namespace string
}

// NewClient creates a client for the server at baseURL (e.g. http://ac:8443).
// A baseURL already ending in the SOAP path is used as is.
func NewClient(baseURL, namespace string, timeout time.Duration) *Client {
	endpoint := strings.TrimSuffix(baseURL, "/")
	if !strings.HasSuffix(endpoint, Path) {
		endpoint += Path
	}
	return &Client{
		client:    wire.NewClient(endpoint, timeout),
		namespace: namespace,
	}
}

// Endpoint returns the SOAP URL the client posts to.
func (c *Client) Endpoint() string {
	return c.client.Endpoint()
}

// GetBackendStatus fetches the backend status.
func (c *Client) GetBackendStatus(ctx context.Context) (model.BackendStatus, error) {
	var resp GetBackendStatusResponse
	if err := c.call(ctx, OpGetBackendStatus, &resp); err != nil {
		return model.BackendStatus{}, err
	}
	return resp.Status, nil
}

// Ping reports whether the backend considers itself connected.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	var resp PingResponse
	if err := c.call(ctx, OpPing, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) call(ctx context.Context, op string, resp any) error {
	req := &Request{XMLName: xml.Name{Space: c.namespace, Local: op}}
	return c.client.Call(ctx, c.namespace+"#"+op, req, resp)
}
