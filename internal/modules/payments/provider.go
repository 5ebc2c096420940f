package payments

import "context"

type CreatePaymentRequest struct {
	AmountCents  int64
	OrderNumbers []string
	Reference    string

	PayerName  string
	PayerEmail string
	PayerPhone string

	SuccessURL string
	CancelURL  string
}

type CreatePaymentResponse struct {
	RedirectURL string
}

// WebhookEvent is the provider's payment outcome, normalized. Unrecognized
// payloads parse into a non-success event rather than an error so the
// handler can acknowledge them without provider retry storms.
type WebhookEvent struct {
	PaymentID    string
	OrderNumbers []string
	Status       string
	Success      bool
}

type Provider interface {
	Name() string
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (CreatePaymentResponse, error)
	ParseWebhook(body []byte) (WebhookEvent, error)
}
