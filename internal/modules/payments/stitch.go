package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Stitch talks to the Stitch Express payment API (South Africa). With no API
// URL or key configured it redirects straight to the success URL, which keeps
// local development flowing without a payment sandbox.
type Stitch struct {
	APIURL string
	APIKey string
	Client *http.Client
}

func NewStitch(apiURL, apiKey string, timeout time.Duration) *Stitch {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Stitch{
		APIURL: apiURL,
		APIKey: apiKey,
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *Stitch) Name() string { return "stitch" }

func (s *Stitch) Configured() bool { return s.APIURL != "" && s.APIKey != "" }

type stitchCreateBody struct {
	Amount      float64           `json:"amount"` // rand, not cents
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	RedirectURL string            `json:"redirectUrl"`
	CancelURL   string            `json:"cancelUrl"`
	PayerName   string            `json:"payerName,omitempty"`
	PayerEmail  string            `json:"payerEmailAddress,omitempty"`
	PayerPhone  string            `json:"payerPhoneNumber,omitempty"`
	Metadata    map[string]string `json:"metadata"`
}

func (s *Stitch) CreatePayment(ctx context.Context, req CreatePaymentRequest) (CreatePaymentResponse, error) {
	if !s.Configured() {
		return CreatePaymentResponse{RedirectURL: req.SuccessURL}, nil
	}

	reference := req.Reference
	if reference == "" && len(req.OrderNumbers) > 0 {
		reference = req.OrderNumbers[0]
	}

	body, err := json.Marshal(stitchCreateBody{
		Amount:      float64(req.AmountCents) / 100,
		Currency:    "ZAR",
		Reference:   reference,
		RedirectURL: req.SuccessURL,
		CancelURL:   req.CancelURL,
		PayerName:   req.PayerName,
		PayerEmail:  req.PayerEmail,
		PayerPhone:  req.PayerPhone,
		Metadata:    map[string]string{"order_numbers": strings.Join(req.OrderNumbers, ",")},
	})
	if err != nil {
		return CreatePaymentResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return CreatePaymentResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("stitch: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("stitch: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CreatePaymentResponse{}, fmt.Errorf("stitch: API error: %d %s", resp.StatusCode, string(raw))
	}

	// The response field for the redirect has moved between API revisions.
	var out struct {
		URL         string `json:"url"`
		RedirectURL string `json:"redirectUrl"`
		PaymentURL  string `json:"paymentUrl"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return CreatePaymentResponse{}, fmt.Errorf("stitch: decode response: %w", err)
	}
	redirect := out.URL
	if redirect == "" {
		redirect = out.RedirectURL
	}
	if redirect == "" {
		redirect = out.PaymentURL
	}
	if redirect == "" {
		return CreatePaymentResponse{}, fmt.Errorf("stitch: no redirect URL in response")
	}
	return CreatePaymentResponse{RedirectURL: redirect}, nil
}

// Statuses Stitch has used to signal a completed payment.
var stitchSuccessStatuses = map[string]bool{
	"success":           true,
	"paid":              true,
	"completed":         true,
	"payment.completed": true,
}

// ParseWebhook normalizes a webhook payload. Field names vary by API
// revision, so every known spelling is tried.
func (s *Stitch) ParseWebhook(body []byte) (WebhookEvent, error) {
	var raw struct {
		PaymentID  string `json:"paymentId"`
		ID         string `json:"id"`
		PaymentID2 string `json:"payment_id"`

		Status string `json:"status"`
		Event  string `json:"event"`
		State  string `json:"state"`

		OrderNumbers  string `json:"order_numbers"`
		OrderNumbers2 string `json:"orderNumbers"`
		Metadata      struct {
			OrderNumbers string `json:"order_numbers"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return WebhookEvent{}, err
	}

	paymentID := raw.PaymentID
	if paymentID == "" {
		paymentID = raw.ID
	}
	if paymentID == "" {
		paymentID = raw.PaymentID2
	}

	status := raw.Status
	if status == "" {
		status = raw.Event
	}
	if status == "" {
		status = raw.State
	}

	joined := raw.Metadata.OrderNumbers
	if joined == "" {
		joined = raw.OrderNumbers
	}
	if joined == "" {
		joined = raw.OrderNumbers2
	}
	var numbers []string
	for _, n := range strings.Split(joined, ",") {
		if n = strings.TrimSpace(n); n != "" {
			numbers = append(numbers, n)
		}
	}

	return WebhookEvent{
		PaymentID:    paymentID,
		OrderNumbers: numbers,
		Status:       status,
		Success:      stitchSuccessStatuses[status],
	}, nil
}
