package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoh04/paperwalls/internal/http/middleware"
)

func quoteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(logger))
	h := NewQuoteHandler()
	r.POST("/api/quote", h.Quote)
	r.POST("/api/quote/preview", h.PreviewRect)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestQuote_UniformConfiguration(t *testing.T) {
	r := quoteRouter()

	// 3.5 x 2.4 wall: 8.4 m2 at R550/m2, matte, no application addon.
	w := postJSON(t, r, "/api/quote", `{
		"config": {
			"wall_count": 1,
			"mode": "uniform",
			"wall": {"width_m": "3.5", "height_m": "2.4", "image_ref": "u1"},
			"finish": "matte",
			"application": "diy"
		},
		"province": "gauteng"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "8.4", resp.TotalSqm)
	assert.True(t, resp.Complete)
	assert.Equal(t, int64(462000), resp.WallpaperCents)
	assert.Zero(t, resp.ApplicationCents)
	assert.Equal(t, int64(15000), resp.ShippingCents)
	assert.Equal(t, int64(477000), resp.TotalCents)
	assert.Equal(t, "R4770.00", resp.Total)
}

func TestQuote_MidEntryZeroArea(t *testing.T) {
	r := quoteRouter()

	// No walls configured yet: a zero quote, not an error.
	w := postJSON(t, r, "/api/quote", `{"config": {"wall_count": 1}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0", resp.TotalSqm)
	assert.False(t, resp.Complete)
	assert.Zero(t, resp.SubtotalCents)
	assert.Zero(t, resp.ShippingCents)
}

func TestQuote_InstallerAddon(t *testing.T) {
	r := quoteRouter()

	w := postJSON(t, r, "/api/quote", `{
		"config": {
			"wall_count": 1,
			"mode": "uniform",
			"wall": {"width_m": "2", "height_m": "2", "image_ref": "u1"},
			"finish": "matte",
			"application": "installer"
		}
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(150000), resp.ApplicationCents)
	assert.Equal(t, resp.WallpaperCents+150000, resp.SubtotalCents)
}

func TestQuote_BadBody(t *testing.T) {
	r := quoteRouter()
	w := postJSON(t, r, "/api/quote", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewRect(t *testing.T) {
	r := quoteRouter()

	w := postJSON(t, r, "/api/quote/preview", `{
		"image_width": 4000, "image_height": 1000,
		"frame_width": 400, "frame_height": 400,
		"zoom": 1
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp previewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1500, resp.Rect.X, 1e-9)
	assert.InDelta(t, 1000, resp.Rect.Width, 1e-9)
	assert.Equal(t, 1000, resp.OutputWidth)
	assert.Equal(t, 1000, resp.OutputHeight)
}

func TestPreviewRect_MissingDimensions(t *testing.T) {
	r := quoteRouter()
	w := postJSON(t, r, "/api/quote/preview", `{"frame_width": 400, "frame_height": 300}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
