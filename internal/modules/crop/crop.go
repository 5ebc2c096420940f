package crop

import (
	"errors"
	"math"
)

var (
	// ErrNotReady: the source image has not reported its pixel dimensions yet.
	ErrNotReady = errors.New("source image dimensions not ready")
	// ErrBadFrame: the print frame has a non-positive display size.
	ErrBadFrame = errors.New("invalid print frame size")
)

// MaxOutputEdge caps the long edge of the rasterized print file.
const MaxOutputEdge = 2000

// JPEGQuality is the fixed encoder quality for print files.
const JPEGQuality = 92

// SourceImage is the natural pixel size of an uploaded image.
type SourceImage struct {
	Width  int
	Height int
}

func (s SourceImage) Ready() bool { return s.Width > 0 && s.Height > 0 }

// Frame is the on-screen print-frame viewport in display pixels. Its aspect
// ratio equals the wall's width/height ratio.
type Frame struct {
	Width  float64
	Height float64
}

// Pan is the offset of the image center from the frame center, in display
// pixels.
type Pan struct {
	X float64
	Y float64
}

// Rect is a rectangle in source-image pixel space.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SourceRect maps the user's pan/zoom over the displayed image to the exact
// source-pixel rectangle visible inside the print frame. What this returns is
// what gets printed; the UI shows the same mapping.
//
// The image is laid out with object-fit: cover semantics (scaled by the
// minimum factor that fully covers the frame), centered, then offset by pan.
// The result is clamped into the image bounds regardless of caller
// discipline, so a wild pan or an out-of-range zoom can never read outside
// the image.
func SourceRect(img SourceImage, frame Frame, pan Pan, zoom float64) (Rect, error) {
	if !img.Ready() {
		return Rect{}, ErrNotReady
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return Rect{}, ErrBadFrame
	}

	if zoom < 0.5 {
		zoom = 0.5
	} else if zoom > 2.0 {
		zoom = 2.0
	}

	natW := float64(img.Width)
	natH := float64(img.Height)

	coverScale := math.Max(frame.Width/natW, frame.Height/natH)
	displayScale := coverScale * zoom

	sourceW := frame.Width / displayScale
	sourceH := frame.Height / displayScale

	sourceX := natW/2 - sourceW/2 - pan.X/displayScale
	sourceY := natH/2 - sourceH/2 - pan.Y/displayScale

	// Clamp the origin into range, then the extent against the far edge.
	// The extent clamp only bites when zoom < 1 lets the visible area exceed
	// the image.
	sx := math.Max(0, math.Min(natW-sourceW, sourceX))
	sy := math.Max(0, math.Min(natH-sourceH, sourceY))
	sw := math.Min(sourceW, natW-sx)
	sh := math.Min(sourceH, natH-sy)

	return Rect{X: sx, Y: sy, Width: sw, Height: sh}, nil
}

// OutputSize scales a source rectangle so its longer edge is at most
// MaxOutputEdge, preserving aspect ratio. Rectangles already under the cap
// keep their native resolution.
func OutputSize(r Rect) (w, h int) {
	long := math.Max(r.Width, r.Height)
	k := 1.0
	if long > MaxOutputEdge {
		k = MaxOutputEdge / long
	}
	w = int(math.Round(r.Width * k))
	h = int(math.Round(r.Height * k))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
