package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// NameValidationResult is the outcome of validating a bank account holder
// name against the account number.
type NameValidationResult struct {
	Valid         bool   `json:"valid"`
	ValidatedName string `json:"validated_name"`
	Reason        string `json:"reason,omitempty"`
}

// BankValidator checks that a bank account exists and is held under the
// expected name.
type BankValidator interface {
	ValidateName(ctx context.Context, bankName, accountNumber, expectedName string) (*NameValidationResult, error)
}

// HTTPBankValidator talks to the bank name-validation service.
type HTTPBankValidator struct {
	*httpClient
}

func NewHTTPBankValidator(baseURL, apiKey string, timeout time.Duration) *HTTPBankValidator {
	return &HTTPBankValidator{httpClient: newHTTPClient(baseURL, apiKey, timeout)}
}

func (c *HTTPBankValidator) ValidateName(ctx context.Context, bankName, accountNumber, expectedName string) (*NameValidationResult, error) {
	resp, err := c.postJSON(ctx, "/v1/name-validation", map[string]string{
		"bank_name":      bankName,
		"account_number": accountNumber,
		"expected_name":  expectedName,
	})
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("name validation returned status %d", resp.StatusCode)
	}

	var result NameValidationResult
	if err := json.Unmarshal([]byte(resp.Body), &result); err != nil {
		return nil, fmt.Errorf("failed to decode name validation response: %w", err)
	}

	return &result, nil
}
