package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
)

func newAppleTestClient(url string) AppleClient {
	return NewAppleClient(&config.Apple{
		SharedSecret:     "shared-secret",
		VerifyURL:        url,
		SandboxVerifyURL: url,
	}, true)
}

func TestAppleVerifyReceiptAcceptedStatuses(t *testing.T) {
	// 21007/21008 are environment mismatches, not failures: Apple already
	// returned the receipt data and the verifier must accept it as-is.
	for _, status := range []int{0, 21007, 21008} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req["password"] != "shared-secret" {
				t.Fatalf("expected shared secret in payload, got %v", req["password"])
			}
			fmt.Fprintf(w, `{
				"status": %d,
				"latest_receipt": "base64-blob",
				"latest_receipt_info": [
					{"product_id": "gatofit_premium:yearly", "original_transaction_id": "txn-9", "expires_date_ms": "1731536000000"}
				]
			}`, status)
		}))

		result, err := newAppleTestClient(srv.URL).VerifyReceipt(context.Background(), "receipt-data")
		srv.Close()

		if err != nil {
			t.Fatalf("status %d: unexpected error: %v", status, err)
		}
		if result.LatestReceipt != "base64-blob" {
			t.Fatalf("status %d: latest_receipt = %q", status, result.LatestReceipt)
		}
		if result.ExpiresAtMS != 1731536000000 {
			t.Fatalf("status %d: expires_at_ms = %d", status, result.ExpiresAtMS)
		}
		if len(result.LatestReceiptInfo) != 1 || result.LatestReceiptInfo[0].OriginalTransactionID != "txn-9" {
			t.Fatalf("status %d: unexpected receipt info %+v", status, result.LatestReceiptInfo)
		}
	}
}

func TestAppleVerifyReceiptRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 21003}`)
	}))
	defer srv.Close()

	_, err := newAppleTestClient(srv.URL).VerifyReceipt(context.Background(), "bad-receipt")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "21003") {
		t.Fatalf("expected status code in error text, got %q", err.Error())
	}
}

func TestAppleVerifyReceiptHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := newAppleTestClient(srv.URL).VerifyReceipt(context.Background(), "receipt"); err == nil {
		t.Fatalf("expected hard failure on non-2xx response")
	}
}

func TestAppleClientEnvironmentSelection(t *testing.T) {
	cfg := &config.Apple{
		VerifyURL:        "https://buy.itunes.apple.com/verifyReceipt",
		SandboxVerifyURL: "https://sandbox.itunes.apple.com/verifyReceipt",
	}

	prod := NewAppleClient(cfg, true).(*appleClientImpl)
	if prod.verifyURL != cfg.VerifyURL {
		t.Fatalf("production client got %q", prod.verifyURL)
	}
	sandbox := NewAppleClient(cfg, false).(*appleClientImpl)
	if sandbox.verifyURL != cfg.SandboxVerifyURL {
		t.Fatalf("sandbox client got %q", sandbox.verifyURL)
	}
}
