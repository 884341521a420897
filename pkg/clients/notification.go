package clients

import (
	"context"
	"time"
)

// HTTPSMSClient talks to the SMS gateway.
type HTTPSMSClient struct {
	*httpClient
}

func NewHTTPSMSClient(baseURL, apiKey string, timeout time.Duration) *HTTPSMSClient {
	return &HTTPSMSClient{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPSMSClient) Send(ctx context.Context, phoneNumber, message string) (*Response, error) {
	return c.postJSON(ctx, "/v1/sms", map[string]string{
		"phone_number": phoneNumber,
		"message":      message,
	})
}

// HTTPEmailClient talks to the email gateway.
type HTTPEmailClient struct {
	*httpClient
}

func NewHTTPEmailClient(baseURL, apiKey string, timeout time.Duration) *HTTPEmailClient {
	return &HTTPEmailClient{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPEmailClient) Send(ctx context.Context, email, subject, body string) (*Response, error) {
	return c.postJSON(ctx, "/v1/email", map[string]string{
		"email":   email,
		"subject": subject,
		"body":    body,
	})
}

// HTTPPushClient talks to the push-notification gateway.
type HTTPPushClient struct {
	*httpClient
}

func NewHTTPPushClient(baseURL, apiKey string, timeout time.Duration) *HTTPPushClient {
	return &HTTPPushClient{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPPushClient) Send(ctx context.Context, customerID int64, title, body string) (*Response, error) {
	return c.postJSON(ctx, "/v1/push", map[string]any{
		"customer_id": customerID,
		"title":       title,
		"body":        body,
	})
}
