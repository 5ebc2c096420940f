package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/http/validation"
	"github.com/ecoh04/paperwalls/internal/modules/configurator"
	"github.com/ecoh04/paperwalls/internal/modules/crop"
	"github.com/ecoh04/paperwalls/internal/modules/pricing"
	"github.com/ecoh04/paperwalls/internal/modules/shipping"
	"github.com/ecoh04/paperwalls/internal/shared/apperr"
)

type QuoteHandler struct{}

func NewQuoteHandler() *QuoteHandler { return &QuoteHandler{} }

type quoteRequest struct {
	Config   configurator.Configuration `json:"config"`
	Province string                     `json:"province"`
}

type quoteResponse struct {
	TotalSqm string `json:"total_sqm"`
	Complete bool   `json:"complete"`

	WallpaperCents   int64 `json:"wallpaper_cents"`
	ApplicationCents int64 `json:"application_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	ShippingCents    int64 `json:"shipping_cents"`
	TotalCents       int64 `json:"total_cents"`

	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// Quote prices a configuration as the customer edits it. Partially filled
// configurations are fine: missing walls just contribute zero area, so the
// quote tracks the form live instead of erroring until everything is set.
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Quote request is invalid.", validation.FromBindError(err, &req)))
		return
	}

	cfg := req.Config
	if !cfg.Finish.Valid() {
		cfg.Finish = pricing.FinishMatte
	}
	if !cfg.Application.Valid() {
		cfg.Application = pricing.ApplicationDIY
	}

	area := cfg.TotalSqm()
	b := pricing.Price(area, cfg.Finish, cfg.Application)

	var shippingCents int64
	if req.Province != "" {
		shippingCents = shipping.Cents(shipping.Parse(req.Province))
	}

	c.JSON(http.StatusOK, quoteResponse{
		TotalSqm: area.String(),
		Complete: req.Config.Complete(),

		WallpaperCents:   b.WallpaperCents,
		ApplicationCents: b.ApplicationCents,
		SubtotalCents:    b.SubtotalCents,
		ShippingCents:    shippingCents,
		TotalCents:       b.SubtotalCents + shippingCents,

		Subtotal: pricing.FormatZAR(b.SubtotalCents),
		Shipping: pricing.FormatZAR(shippingCents),
		Total:    pricing.FormatZAR(b.SubtotalCents + shippingCents),
	})
}

type previewRequest struct {
	ImageWidth  int     `json:"image_width" binding:"required,gt=0"`
	ImageHeight int     `json:"image_height" binding:"required,gt=0"`
	FrameWidth  float64 `json:"frame_width" binding:"required,gt=0"`
	FrameHeight float64 `json:"frame_height" binding:"required,gt=0"`
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
	Zoom        float64 `json:"zoom"`
}

type previewResponse struct {
	Rect         crop.Rect `json:"rect"`
	OutputWidth  int       `json:"output_width"`
	OutputHeight int       `json:"output_height"`
}

// PreviewRect maps the editor's pan/zoom state to the source-pixel crop so
// the frontend can show exactly what will print.
func (h *QuoteHandler) PreviewRect(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Preview request is invalid.", validation.FromBindError(err, &req)))
		return
	}

	rect, err := crop.SourceRect(
		crop.SourceImage{Width: req.ImageWidth, Height: req.ImageHeight},
		crop.Frame{Width: req.FrameWidth, Height: req.FrameHeight},
		crop.Pan{X: req.PanX, Y: req.PanY},
		configurator.ClampZoom(req.Zoom),
	)
	if err != nil {
		middleware.Fail(c, apperr.NotReadyErr("Image is not ready yet."))
		return
	}

	w, hh := crop.OutputSize(rect)
	c.JSON(http.StatusOK, previewResponse{Rect: rect, OutputWidth: w, OutputHeight: hh})
}
