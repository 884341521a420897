package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DisburseRequest describes one disbursement order to the payment gateway.
type DisburseRequest struct {
	LoanID        int64  `json:"loan_id"`
	Amount        int64  `json:"amount"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	IdempotencyKey string `json:"idempotency_key"`
}

// DisburseResult is the gateway's acknowledgment of a disbursement order.
type DisburseResult struct {
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
}

// DisbursementGateway executes disbursement orders.
type DisbursementGateway interface {
	Disburse(ctx context.Context, req DisburseRequest) (*DisburseResult, error)
}

// HTTPDisbursementGateway talks to the disbursement service.
type HTTPDisbursementGateway struct {
	*httpClient
}

func NewHTTPDisbursementGateway(baseURL, apiKey string, timeout time.Duration) *HTTPDisbursementGateway {
	return &HTTPDisbursementGateway{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPDisbursementGateway) Disburse(ctx context.Context, req DisburseRequest) (*DisburseResult, error) {
	resp, err := c.postJSON(ctx, "/v1/disburse", req)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("disbursement returned status %d", resp.StatusCode)
	}

	var result DisburseResult
	if err := json.Unmarshal([]byte(resp.Body), &result); err != nil {
		return nil, fmt.Errorf("failed to decode disbursement response: %w", err)
	}

	return &result, nil
}
