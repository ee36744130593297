package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Biniljacobpro/nexcharge-sub001/config"
)

func sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret"

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		expected  bool
	}{
		{
			name:      "Valid signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: sign("order_123", "pay_456", secret),
			expected:  true,
		},
		{
			name:      "Signature for different order",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: sign("order_999", "pay_456", secret),
			expected:  false,
		},
		{
			name:      "Signature with wrong secret",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: sign("order_123", "pay_456", "other_secret"),
			expected:  false,
		},
		{
			name:      "Empty signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: "",
			expected:  false,
		},
		{
			name:      "Garbage signature",
			orderID:   "order_123",
			paymentID: "pay_456",
			signature: "not-a-hex-digest",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(tt.orderID, tt.paymentID, tt.signature, secret); got != tt.expected {
				t.Errorf("VerifySignature() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Error("missing or wrong basic auth")
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["amount"].(float64) != 30000 {
			t.Errorf("amount = %v, expected 30000", req["amount"])
		}
		if req["currency"].(string) != "INR" {
			t.Errorf("currency = %v, expected INR", req["currency"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_test123",
			"amount":   30000,
			"currency": "INR",
			"status":   "created",
		})
	}))
	defer server.Close()

	client := NewClient(config.RazorpayConfig{
		BaseURL:   server.URL,
		KeyID:     "key_id",
		KeySecret: "key_secret",
	})

	orderID, err := client.CreateOrder(context.Background(), 30000, "INR", "BKG-abcd1234")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if orderID != "order_test123" {
		t.Errorf("orderID = %s, expected order_test123", orderID)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer server.Close()

	client := NewClient(config.RazorpayConfig{
		BaseURL:   server.URL,
		KeyID:     "key_id",
		KeySecret: "bad_secret",
	})

	if _, err := client.CreateOrder(context.Background(), 100, "INR", "BKG-x"); err == nil {
		t.Fatal("CreateOrder() expected error on non-2xx status")
	}
}

func TestCreateOrderMissingCredentials(t *testing.T) {
	client := NewClient(config.RazorpayConfig{BaseURL: "http://localhost:0"})

	if _, err := client.CreateOrder(context.Background(), 100, "INR", "BKG-x"); err == nil {
		t.Fatal("CreateOrder() expected error when credentials are missing")
	}
}

func TestFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_789" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "pay_789",
			"status": "captured",
			"method": "upi",
			"amount": 30000,
		})
	}))
	defer server.Close()

	client := NewClient(config.RazorpayConfig{
		BaseURL:   server.URL,
		KeyID:     "key_id",
		KeySecret: "key_secret",
	})

	details, err := client.FetchPayment(context.Background(), "pay_789")
	if err != nil {
		t.Fatalf("FetchPayment() error = %v", err)
	}
	if details.Status != "captured" {
		t.Errorf("status = %s, expected captured", details.Status)
	}
	if details.Amount != 30000 {
		t.Errorf("amount = %d, expected 30000", details.Amount)
	}
}
