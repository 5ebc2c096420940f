package payments

import (
	"context"
	"log/slog"

	"github.com/ecoh04/paperwalls/internal/modules/orders"
)

// WebhookService applies payment outcomes to orders. Events that are not a
// recognized success (or name no orders) are acknowledged without touching
// state; a 200 stops the provider from retrying them forever.
type WebhookService struct {
	orders *orders.Service
	logger *slog.Logger
}

func NewWebhookService(orderSvc *orders.Service) *WebhookService {
	return &WebhookService{orders: orderSvc, logger: slog.Default()}
}

func (s *WebhookService) SetLogger(l *slog.Logger) { s.logger = l }

func (s *WebhookService) Handle(ctx context.Context, providerName string, ev WebhookEvent) error {
	if !ev.Success || len(ev.OrderNumbers) == 0 {
		s.logger.InfoContext(ctx, "webhook ignored",
			"provider", providerName, "status", ev.Status, "orders", len(ev.OrderNumbers))
		return nil
	}

	if err := s.orders.MarkPaid(ctx, ev.OrderNumbers, ev.PaymentID); err != nil {
		s.logger.ErrorContext(ctx, "webhook apply failed",
			"provider", providerName, "payment_id", ev.PaymentID, "err", err)
		return err
	}

	s.logger.InfoContext(ctx, "webhook processed",
		"provider", providerName, "payment_id", ev.PaymentID, "orders", len(ev.OrderNumbers))
	return nil
}
