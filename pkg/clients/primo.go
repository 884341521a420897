package clients

import (
	"context"
	"fmt"
	"time"
)

// Lead is the minimal lead record the outbound dialer needs.
type Lead struct {
	ApplicationID int64  `json:"application_id"`
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	StatusCode    int    `json:"status_code"`
}

// DialerClient manages lead records on the third-party outbound dialer
// (Primo). Leads are pushed when an application enters a dialer-worked status
// and removed once it leaves.
type DialerClient interface {
	SendLead(ctx context.Context, lead Lead) (*Response, error)
	DeleteLead(ctx context.Context, applicationID int64) (*Response, error)
}

// HTTPDialerClient talks to the dialer's lead API.
type HTTPDialerClient struct {
	*httpClient
}

func NewHTTPDialerClient(baseURL, apiKey string, timeout time.Duration) *HTTPDialerClient {
	return &HTTPDialerClient{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPDialerClient) SendLead(ctx context.Context, lead Lead) (*Response, error) {
	return c.postJSON(ctx, "/v1/leads", lead)
}

func (c *HTTPDialerClient) DeleteLead(ctx context.Context, applicationID int64) (*Response, error) {
	return c.delete(ctx, fmt.Sprintf("/v1/leads/%d", applicationID))
}
