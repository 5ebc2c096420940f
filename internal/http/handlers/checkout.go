package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/http/validation"
	"github.com/ecoh04/paperwalls/internal/modules/checkout"
	"github.com/ecoh04/paperwalls/internal/modules/configurator"
	"github.com/ecoh04/paperwalls/internal/modules/crop"
	"github.com/ecoh04/paperwalls/internal/modules/shipping"
	"github.com/ecoh04/paperwalls/internal/shared/apperr"

	_ "image/jpeg"
	_ "image/png"
)

type CheckoutHandler struct {
	Svc    *checkout.Service
	Logger *slog.Logger
}

func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Logger: logger}
}

type checkoutWall struct {
	// Base64 JPEG or PNG as captured by the editor.
	ImageData   string  `json:"image_data" binding:"required"`
	FrameWidth  float64 `json:"frame_width" binding:"required,gt=0"`
	FrameHeight float64 `json:"frame_height" binding:"required,gt=0"`
}

type checkoutItem struct {
	Config configurator.Configuration `json:"config" binding:"required"`
	Walls  []checkoutWall             `json:"walls" binding:"required,min=1,dive"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,max=255"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"required,max=32"`

	AddressLine1 string `json:"address_line1" binding:"required,max=255"`
	AddressLine2 string `json:"address_line2" binding:"max=255"`
	City         string `json:"city" binding:"required,max=100"`
	Province     string `json:"province" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required,max=16"`

	Items []checkoutItem `json:"items" binding:"required,min=1,dive"`
}

type checkoutResponse struct {
	RedirectURL  string   `json:"redirect_url"`
	OrderNumbers []string `json:"order_numbers"`
}

// Create rasterizes every wall's print file and submits the cart. The print
// files are produced server side from the uploaded originals so the editor's
// preview can never diverge from what is sent to print.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Checkout request is invalid.", validation.FromBindError(err, &req)))
		return
	}

	addr := checkout.Address{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		Province:      shipping.Parse(req.Province),
		PostalCode:    req.PostalCode,
	}

	cart := make([]checkout.Line, 0, len(req.Items))
	for _, item := range req.Items {
		line, err := h.buildLine(item)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		cart = append(cart, line)
	}

	res, err := h.Svc.Submit(c.Request.Context(), addr, cart)
	if err != nil {
		middleware.Fail(c, checkoutError(err))
		return
	}

	c.JSON(http.StatusOK, checkoutResponse{
		RedirectURL:  res.RedirectURL,
		OrderNumbers: res.OrderNumbers,
	})
}

// buildLine decodes each wall's source image and cuts the print file with
// that wall's pan/zoom.
func (h *CheckoutHandler) buildLine(item checkoutItem) (checkout.Line, error) {
	walls := item.Config.Walls()
	if len(walls) == 0 {
		return checkout.Line{}, apperr.InvalidErr("Finish configuring every wall before checking out.", nil)
	}

	crops := make([]crop.Result, 0, len(item.Walls))
	for i, w := range item.Walls {
		raw, err := base64.StdEncoding.DecodeString(w.ImageData)
		if err != nil {
			return checkout.Line{}, apperr.InvalidErr("Wall image is not valid base64.", nil)
		}
		src, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return checkout.Line{}, apperr.InvalidErr("Wall image could not be decoded.", nil)
		}

		spec := walls[0]
		if i < len(walls) {
			spec = walls[i]
		}
		result, err := crop.Rasterize(src,
			crop.Frame{Width: w.FrameWidth, Height: w.FrameHeight},
			crop.Pan{X: spec.PanX, Y: spec.PanY},
			spec.EffectiveZoom(),
		)
		if err != nil {
			return checkout.Line{}, apperr.InvalidErr("Print file could not be produced.", nil)
		}
		crops = append(crops, result)
	}

	return checkout.Line{Config: item.Config, Crops: crops}, nil
}

func checkoutError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return apperr.InvalidErr("Your cart is empty.", nil)
	case errors.Is(err, checkout.ErrIncompleteConfig):
		return apperr.InvalidErr("Finish configuring every wall before checking out.", nil)
	case errors.Is(err, checkout.ErrMissingPrintFiles):
		return apperr.InvalidErr("A print file is missing for one of your walls.", nil)
	case errors.Is(err, checkout.ErrOrderNumberConflict):
		return apperr.ConflictErr("Could not allocate an order number. Please try again.")
	default:
		return apperr.Wrap(err)
	}
}
