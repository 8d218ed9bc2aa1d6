package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Gatofitnees/Appmovil-sub001/internal/config"
)

// Apple verifyReceipt status codes accepted as valid. 21007 and 21008 mean
// the receipt was sent to the wrong environment (sandbox vs production);
// Apple still returns the receipt data, so they are not error paths.
const (
	appleStatusValid             = 0
	appleStatusSandboxReceipt    = 21007
	appleStatusProductionReceipt = 21008
)

type AppleClient interface {
	VerifyReceipt(ctx context.Context, receipt string) (*AppleVerifyResult, error)
}

type AppleReceiptInfo struct {
	ProductID             string `json:"product_id"`
	OriginalTransactionID string `json:"original_transaction_id"`
	ExpiresDateMS         string `json:"expires_date_ms"`
}

type AppleVerifyResult struct {
	LatestReceipt     string
	LatestReceiptInfo []AppleReceiptInfo
	ExpiresAtMS       int64
}

type appleClientImpl struct {
	httpClient   *http.Client
	verifyURL    string
	sharedSecret string
}

func NewAppleClient(appleCfg *config.Apple, production bool) AppleClient {
	verifyURL := appleCfg.SandboxVerifyURL
	if production {
		verifyURL = appleCfg.VerifyURL
	}

	return &appleClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		verifyURL:    verifyURL,
		sharedSecret: appleCfg.SharedSecret,
	}
}

func (c *appleClientImpl) VerifyReceipt(ctx context.Context, receipt string) (*AppleVerifyResult, error) {
	payload := map[string]interface{}{
		"receipt-data":             receipt,
		"password":                 c.sharedSecret,
		"exclude-old-transactions": false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal verify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL,
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apple verify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("apple verify error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		Status            int                `json:"status"`
		LatestReceipt     string             `json:"latest_receipt"`
		LatestReceiptInfo []AppleReceiptInfo `json:"latest_receipt_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode apple response: %w", err)
	}

	switch result.Status {
	case appleStatusValid, appleStatusSandboxReceipt, appleStatusProductionReceipt:
	default:
		return nil, fmt.Errorf("apple receipt validation failed with status: %d", result.Status)
	}

	out := &AppleVerifyResult{
		LatestReceipt:     result.LatestReceipt,
		LatestReceiptInfo: result.LatestReceiptInfo,
	}
	if len(result.LatestReceiptInfo) > 0 {
		if ms, err := strconv.ParseInt(result.LatestReceiptInfo[0].ExpiresDateMS, 10, 64); err == nil {
			out.ExpiresAtMS = ms
		}
	}

	return out, nil
}
