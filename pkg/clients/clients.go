// Package clients defines the contracts for the engine's boundary
// collaborators and their HTTP implementations. The engine only depends on
// the interfaces; actions treat non-2xx notification responses as best-effort
// failures to log, not to propagate.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is the minimal view of a synchronous collaborator call.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrAuthFailed signals an authentication failure against a notification
// gateway. Notification delivery is best-effort, so callers swallow this and
// log instead of aborting the workflow.
var ErrAuthFailed = errors.New("gateway authentication failed")

// SMSClient delivers a text message to a phone number.
type SMSClient interface {
	Send(ctx context.Context, phoneNumber, message string) (*Response, error)
}

// EmailClient delivers a templated email.
type EmailClient interface {
	Send(ctx context.Context, email, subject, body string) (*Response, error)
}

// PushClient delivers a push notification to a customer's device.
type PushClient interface {
	Send(ctx context.Context, customerID int64, title, body string) (*Response, error)
}

// httpClient is the shared transport for the HTTP implementations.
type httpClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func newHTTPClient(baseURL, apiKey string, timeout time.Duration) *httpClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) postJSON(ctx context.Context, path string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}

	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &Response{StatusCode: resp.StatusCode, Body: string(responseBody)}, ErrAuthFailed
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(responseBody)}, nil
}

func (c *httpClient) delete(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}

	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: string(responseBody)}, nil
}
