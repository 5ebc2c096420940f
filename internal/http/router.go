package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecoh04/paperwalls/internal/config"
	"github.com/ecoh04/paperwalls/internal/http/handlers"
	adminhandlers "github.com/ecoh04/paperwalls/internal/http/handlers/admin"
	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/modules/checkout"
	"github.com/ecoh04/paperwalls/internal/modules/orders"
	"github.com/ecoh04/paperwalls/internal/modules/payments"
	"github.com/ecoh04/paperwalls/internal/storage"
)

// NewRouter wires the full HTTP surface: public quote/checkout endpoints,
// the payment webhook, and the admin JSON API behind a session check.
func NewRouter(cfg config.Config, logger *slog.Logger, db *gorm.DB, store storage.Storage) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
	)

	orderSvc := orders.NewService(db, store)
	orderSvc.SetLogger(logger)

	provider := payments.NewStitch(cfg.StitchAPIURL, cfg.StitchAPIKey, cfg.StitchTimeout)
	checkoutSvc := checkout.NewService(db, store, provider, cfg.AppURL)
	checkoutSvc.SetLogger(logger)
	webhookSvc := payments.NewWebhookService(orderSvc)
	webhookSvc.SetLogger(logger)

	sessions := middleware.NewAdminSessions(cfg.SessionSecret, cfg.IsProduction())

	quote := handlers.NewQuoteHandler()
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc, logger)
	webhooks := handlers.NewWebhookHandler(logger, provider, webhookSvc)
	auth := adminhandlers.NewAuthHandler(cfg.AdminEmail, cfg.AdminPasswordHash, sessions)
	adminOrders := adminhandlers.NewOrdersHandler(db, orderSvc)

	api := r.Group("/api")
	{
		api.POST("/quote", quote.Quote)
		api.POST("/quote/preview", quote.PreviewRect)
		api.POST("/checkout/create", checkoutHandler.Create)
	}

	r.POST("/webhooks/stitch", webhooks.Handle)

	adminAPI := r.Group("/api/admin")
	adminAPI.POST("/login", auth.Login)
	adminAPI.POST("/logout", auth.Logout)

	protected := adminAPI.Group("", middleware.RequireAdmin(sessions))
	{
		protected.GET("/orders", adminOrders.List)
		protected.GET("/orders.csv", adminOrders.ExportCSV)
		protected.GET("/orders/:id", adminOrders.Detail)
		protected.POST("/orders/:id/status", adminOrders.SetStatus)
		protected.POST("/orders/:id/assign", adminOrders.Assign)
		protected.POST("/orders/:id/note", adminOrders.AddNote)
		protected.POST("/orders/:id/edit", adminOrders.Edit)
		protected.POST("/orders/:id/cancel", adminOrders.Cancel)
		protected.POST("/orders/:id/refund", adminOrders.Refund)
		protected.POST("/orders/:id/archive", adminOrders.Archive)
		protected.POST("/orders/:id/restore", adminOrders.Restore)
		protected.POST("/orders/:id/print-file", adminOrders.ReplacePrintFile)
		protected.POST("/bulk", adminOrders.Bulk)
		protected.GET("/factories", adminOrders.Factories)
	}

	return r
}
