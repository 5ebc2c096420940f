package crop

import (
	"bytes"
	"image"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Result is one rasterized print file.
type Result struct {
	Rect   Rect   // source-pixel rectangle that was printed
	Width  int    // output bitmap width
	Height int    // output bitmap height
	JPEG   []byte // encoded at JPEGQuality
}

// Rasterize cuts the visible source rectangle out of src and scales it to
// the output size, encoding the result as a JPEG print file.
func Rasterize(src image.Image, frame Frame, pan Pan, zoom float64) (Result, error) {
	b := src.Bounds()
	rect, err := SourceRect(SourceImage{Width: b.Dx(), Height: b.Dy()}, frame, pan, zoom)
	if err != nil {
		return Result{}, err
	}

	outW, outH := OutputSize(rect)

	srcRect := image.Rect(
		b.Min.X+int(math.Floor(rect.X)),
		b.Min.Y+int(math.Floor(rect.Y)),
		b.Min.X+int(math.Ceil(rect.X+rect.Width)),
		b.Min.Y+int(math.Ceil(rect.Y+rect.Height)),
	).Intersect(b)

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Result{}, err
	}

	return Result{Rect: rect, Width: outW, Height: outH, JPEG: buf.Bytes()}, nil
}
