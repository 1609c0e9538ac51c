package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SettlementClient talks to the external settlement service over HTTP. Calls
// are bounded by the configured timeout; hitting it is indistinguishable from
// a declined settlement for the caller.
type SettlementClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSettlementClient(baseURL string, timeout time.Duration) *SettlementClient {
	return &SettlementClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type settleRequest struct {
	AmountCents int64  `json:"amount_cents"`
	PayerRef    string `json:"payer_ref"`
	Memo        string `json:"memo"`
}

type settleResponse struct {
	ReceiptID string `json:"receipt_id"`
}

func (c *SettlementClient) Settle(ctx context.Context, amountCents int64, payerRef, memo string) (string, error) {
	reqBody := settleRequest{
		AmountCents: amountCents,
		PayerRef:    payerRef,
		Memo:        memo,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/settlements", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call settlement service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("settlement service returned status %d: %s", resp.StatusCode, string(body))
	}

	var settleResp settleResponse
	if err := json.Unmarshal(body, &settleResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if settleResp.ReceiptID == "" {
		return "", fmt.Errorf("settlement service returned no receipt id")
	}

	return settleResp.ReceiptID, nil
}
