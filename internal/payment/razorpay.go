package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/config"
)

// Client talks to the Razorpay Orders API over HTTP with basic auth.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

func NewClient(cfg config.RazorpayConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// KeyID is exposed so clients can open the checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

type orderRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// CreateOrder opens a gateway order for the given amount and returns its id.
func (c *Client) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error) {
	payload := orderRequest{Amount: amountMinorUnits, Currency: currency, Receipt: receipt}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// PaymentDetails is the subset of gateway payment fields the platform uses.
type PaymentDetails struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Method string `json:"method"`
	Amount int64  `json:"amount"`
}

// FetchPayment retrieves a payment by id.
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*PaymentDetails, error) {
	var details PaymentDetails
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// VerifySignature checks the callback signature: HMAC-SHA256 over
// "orderId|paymentId" with the key secret, hex encoded, compared in
// constant time. A mismatch must leave all state untouched.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}

func VerifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	if c.keyID == "" || c.keySecret == "" {
		return fmt.Errorf("missing Razorpay credentials. Please set RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET")
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}
