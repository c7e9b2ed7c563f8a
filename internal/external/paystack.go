package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type PaystackConfig struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
	Timeout     time.Duration
}

// PaystackClient talks to the Paystack transaction API. Every call runs
// under the configured timeout so a stalled gateway surfaces as an error
// instead of hanging the caller.
type PaystackClient struct {
	baseURL     string
	secretKey   string
	callbackURL string
	httpClient  *http.Client
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// CheckoutSession is the gateway's answer to a successful initialization
type CheckoutSession struct {
	AuthorizationURL string
	Reference        string
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewPaystackClient(cfg PaystackConfig) *PaystackClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &PaystackClient{
		baseURL:     cfg.BaseURL,
		secretKey:   cfg.SecretKey,
		callbackURL: cfg.CallbackURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// InitializeCheckout registers a checkout session with the gateway. The
// reference tags the session with our payment row id so the webhook can be
// correlated back to it.
func (pc *PaystackClient) InitializeCheckout(ctx context.Context, reference string, amountMinor int64, email string) (*CheckoutSession, error) {
	body := initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		Reference:   reference,
		CallbackURL: pc.callbackURL,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		pc.baseURL+"/transaction/initialize", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+pc.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("transaction initialize returned status %d: %s",
			resp.StatusCode, readError(resp.Body))
	}

	var result initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Status {
		return nil, fmt.Errorf("transaction initialize failed: %s", result.Message)
	}

	return &CheckoutSession{
		AuthorizationURL: result.Data.AuthorizationURL,
		Reference:        result.Data.Reference,
	}, nil
}

// VerifyTransaction fetches the gateway's view of a transaction by
// reference. Used for manual reconciliation, not the webhook path.
func (pc *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		pc.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+pc.secretKey)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("transaction verify returned status %d: %s",
			resp.StatusCode, readError(resp.Body))
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Status {
		return nil, fmt.Errorf("transaction verify failed: %s", result.Message)
	}

	return result.Data, nil
}

func readError(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(b) == 0 {
		return "<no body>"
	}
	return string(b)
}
