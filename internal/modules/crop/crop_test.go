package crop

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceRect_NotReady(t *testing.T) {
	_, err := SourceRect(SourceImage{}, Frame{Width: 400, Height: 300}, Pan{}, 1)
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = SourceRect(SourceImage{Width: 100}, Frame{Width: 400, Height: 300}, Pan{}, 1)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSourceRect_BadFrame(t *testing.T) {
	_, err := SourceRect(SourceImage{Width: 100, Height: 100}, Frame{}, Pan{}, 1)
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestSourceRect_CenteredNoPanNoZoom(t *testing.T) {
	// 4000×3000 image in a 400×300 frame: cover scale fills exactly, so the
	// whole image is visible.
	r, err := SourceRect(SourceImage{Width: 4000, Height: 3000}, Frame{Width: 400, Height: 300}, Pan{}, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 0, r.X, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)
	assert.InDelta(t, 4000, r.Width, 1e-9)
	assert.InDelta(t, 3000, r.Height, 1e-9)
}

func TestSourceRect_WideImageCoverCropsSides(t *testing.T) {
	// 4000×1000 image in a square frame: cover scale is driven by height,
	// the visible rect is a centered 1000×1000 square.
	r, err := SourceRect(SourceImage{Width: 4000, Height: 1000}, Frame{Width: 400, Height: 400}, Pan{}, 1)
	assert.NoError(t, err)
	assert.InDelta(t, 1500, r.X, 1e-9)
	assert.InDelta(t, 0, r.Y, 1e-9)
	assert.InDelta(t, 1000, r.Width, 1e-9)
	assert.InDelta(t, 1000, r.Height, 1e-9)
}

func TestSourceRect_ZoomInHalvesVisibleArea(t *testing.T) {
	r, err := SourceRect(SourceImage{Width: 4000, Height: 3000}, Frame{Width: 400, Height: 300}, Pan{}, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 2000, r.Width, 1e-9)
	assert.InDelta(t, 1500, r.Height, 1e-9)
	// Still centered.
	assert.InDelta(t, 1000, r.X, 1e-9)
	assert.InDelta(t, 750, r.Y, 1e-9)
}

func TestSourceRect_PanMovesWindowOppositeDirection(t *testing.T) {
	// Dragging the image right (positive pan.X) reveals pixels further left.
	img := SourceImage{Width: 4000, Height: 3000}
	fr := Frame{Width: 400, Height: 300}

	center, err := SourceRect(img, fr, Pan{}, 2)
	assert.NoError(t, err)
	right, err := SourceRect(img, fr, Pan{X: 50}, 2)
	assert.NoError(t, err)
	assert.Less(t, right.X, center.X)

	// displayScale = 0.1*2 = 0.2, so 50 display px = 250 source px.
	assert.InDelta(t, center.X-250, right.X, 1e-9)
}

func TestSourceRect_Containment(t *testing.T) {
	// For any pan magnitude and any zoom in [0.5, 2], the rect stays inside
	// the image.
	img := SourceImage{Width: 3123, Height: 1777}
	frames := []Frame{
		{Width: 350, Height: 240}, // 3.5 / 2.4
		{Width: 300, Height: 300}, // 1 / 1
		{Width: 500, Height: 240}, // 5 / 2.4
	}
	zooms := []float64{0.5, 0.75, 1, 1.33, 2, 0, -3, 99}
	pans := []Pan{{}, {X: 1e6, Y: 1e6}, {X: -1e6, Y: -1e6}, {X: 123.4, Y: -987.6}, {X: -0.5, Y: 0.5}}

	for _, fr := range frames {
		for _, z := range zooms {
			for _, p := range pans {
				r, err := SourceRect(img, fr, p, z)
				assert.NoError(t, err)
				assert.GreaterOrEqual(t, r.X, 0.0)
				assert.GreaterOrEqual(t, r.Y, 0.0)
				assert.LessOrEqual(t, r.X+r.Width, float64(img.Width)+1e-9)
				assert.LessOrEqual(t, r.Y+r.Height, float64(img.Height)+1e-9)
				assert.Greater(t, r.Width, 0.0)
				assert.Greater(t, r.Height, 0.0)
			}
		}
	}
}

func TestSourceRect_AspectFidelity(t *testing.T) {
	// At zoom >= 1 the visible area fits inside the image, so the rect's
	// aspect ratio matches the frame's exactly (within rounding).
	img := SourceImage{Width: 3840, Height: 2160}
	frames := []Frame{
		{Width: 350, Height: 240},
		{Width: 300, Height: 300},
		{Width: 500, Height: 240},
	}
	for _, fr := range frames {
		for _, z := range []float64{1, 1.25, 1.5, 2} {
			for _, p := range []Pan{{}, {X: 40, Y: -25}, {X: -500, Y: 500}} {
				r, err := SourceRect(img, fr, p, z)
				assert.NoError(t, err)
				want := fr.Width / fr.Height
				got := r.Width / r.Height
				// One-pixel tolerance on either edge.
				tol := want * (1/r.Height + 1/r.Width)
				assert.InDelta(t, want, got, tol)
			}
		}
	}
}

func TestOutputSize_CapsLongEdge(t *testing.T) {
	w, h := OutputSize(Rect{Width: 4000, Height: 2000})
	assert.Equal(t, 2000, w)
	assert.Equal(t, 1000, h)

	w, h = OutputSize(Rect{Width: 1000, Height: 3000})
	assert.Equal(t, 667, w)
	assert.Equal(t, 2000, h)
}

func TestOutputSize_SmallRectKeepsResolution(t *testing.T) {
	w, h := OutputSize(Rect{Width: 1234.4, Height: 800.6})
	assert.Equal(t, 1234, w)
	assert.Equal(t, 801, h)
}

func TestOutputSize_PreservesAspect(t *testing.T) {
	r := Rect{Width: 5500, Height: 2400}
	w, h := OutputSize(r)
	assert.LessOrEqual(t, w, MaxOutputEdge)
	assert.LessOrEqual(t, h, MaxOutputEdge)
	assert.InDelta(t, r.Width/r.Height, float64(w)/float64(h), 0.01)
}

func TestRasterize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}

	res, err := Rasterize(src, Frame{Width: 400, Height: 300}, Pan{}, 1)
	assert.NoError(t, err)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 600, res.Height)
	assert.NotEmpty(t, res.JPEG)

	decoded, err := jpeg.Decode(bytes.NewReader(res.JPEG))
	assert.NoError(t, err)
	assert.Equal(t, 800, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}

func TestRasterize_NotReadyPropagates(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	_, err := Rasterize(src, Frame{}, Pan{}, 1)
	assert.ErrorIs(t, err, ErrBadFrame)
}

func TestRasterize_OutputUnderCap(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4096, 2304))
	res, err := Rasterize(src, Frame{Width: 350, Height: 240}, Pan{}, 1.5)
	assert.NoError(t, err)
	assert.LessOrEqual(t, res.Width, MaxOutputEdge)
	assert.LessOrEqual(t, res.Height, MaxOutputEdge)
	assert.LessOrEqual(t, math.Max(float64(res.Width), float64(res.Height)), float64(MaxOutputEdge))
}
