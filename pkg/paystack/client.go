package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Paystack REST API with the account's secret key.
// Only the refund surface is used by this service; Paystack is otherwise
// an opaque collaborator.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// RefundRequest asks the gateway to reverse a captured transaction.
// Amount is in the minor currency unit (kobo).
type RefundRequest struct {
	Transaction string `json:"transaction"`
	Amount      int64  `json:"amount"`
}

// RefundResponse is the gateway's reply. Status=false with a 2xx code
// still means the refund was not accepted.
type RefundResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Id int64 `json:"id"`
	} `json:"data"`

	// Raw holds the unparsed body for the audit trail.
	Raw []byte `json:"-"`
}

// GatewayError is returned when the gateway rejects or fails a refund.
// The raw body is preserved so callers can persist it before falling
// back to another channel.
type GatewayError struct {
	StatusCode int
	Message    string
	Raw        []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("paystack refund failed (http %d): %s", e.StatusCode, e.Message)
}

func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Refund posts a refund for the given transaction reference. The
// context bounds the call; a hung gateway surfaces as an error here and
// the caller treats it exactly like an explicit gateway failure.
func (c *Client) Refund(ctx context.Context, transaction string, amountMinor int64) (*RefundResponse, error) {
	payload, err := json.Marshal(RefundRequest{
		Transaction: transaction,
		Amount:      amountMinor,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal refund request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refund", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build refund request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var refundResp RefundResponse
	if err := json.Unmarshal(body, &refundResp); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "invalid gateway response", Raw: body}
	}
	refundResp.Raw = body

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !refundResp.Status {
		msg := refundResp.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg, Raw: body}
	}

	return &refundResp, nil
}

// ToMinorUnits converts a major-unit amount to the gateway's integer
// minor-unit representation (NGN -> kobo).
func ToMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
