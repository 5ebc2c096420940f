package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
	"github.com/ecoh04/paperwalls/internal/modules/configurator"
)

func checkoutRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(logger))
	// Submit is never reached by these requests, so the handler can run
	// without a database or payment provider.
	h := NewCheckoutHandler(nil, logger)
	r.POST("/api/checkout/create", h.Create)
	return r
}

func TestCheckoutCreate_MissingFields(t *testing.T) {
	r := checkoutRouter()
	w := postJSON(t, r, "/api/checkout/create", `{"customer_name": "Thandi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "customer_email")
	assert.Contains(t, resp.Fields, "items")
}

func TestCheckoutCreate_BadImageData(t *testing.T) {
	r := checkoutRouter()
	w := postJSON(t, r, "/api/checkout/create", `{
		"customer_name": "Thandi Nkosi",
		"customer_email": "thandi@example.com",
		"customer_phone": "+27821234567",
		"address_line1": "12 Vilakazi St",
		"city": "Johannesburg",
		"province": "gauteng",
		"postal_code": "2001",
		"items": [{
			"config": {
				"wall_count": 1,
				"mode": "uniform",
				"wall": {"width_m": "3", "height_m": "2.4", "image_ref": "u1"},
				"finish": "matte",
				"application": "diy"
			},
			"walls": [{"image_data": "!!not-base64!!", "frame_width": 300, "frame_height": 240}]
		}]
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "base64")
}

func TestBuildLine_RasterizesEachWall(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	data := base64.StdEncoding.EncodeToString(buf.Bytes())

	h := NewCheckoutHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var cfg configurator.Configuration
	require.NoError(t, json.Unmarshal([]byte(`{
		"wall_count": 1,
		"mode": "uniform",
		"wall": {"width_m": "3", "height_m": "2.4", "image_ref": "u1"},
		"finish": "matte",
		"application": "diy"
	}`), &cfg))

	line, err := h.buildLine(checkoutItem{
		Config: cfg,
		Walls:  []checkoutWall{{ImageData: data, FrameWidth: 300, FrameHeight: 240}},
	})
	require.NoError(t, err)
	require.Len(t, line.Crops, 1)
	assert.NotEmpty(t, line.Crops[0].JPEG)
	assert.Positive(t, line.Crops[0].Width)
	assert.Positive(t, line.Crops[0].Height)
}
