package configurator

import (
	"github.com/shopspring/decimal"

	"github.com/ecoh04/paperwalls/internal/modules/pricing"
)

const (
	MinWallCount = 1
	MaxWallCount = 4

	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
)

// WallSpec is one physical wall to be papered, plus the pan/zoom state of its
// image inside the print frame.
type WallSpec struct {
	WidthM   decimal.Decimal `json:"width_m"`
	HeightM  decimal.Decimal `json:"height_m"`
	ImageRef string          `json:"image_ref,omitempty"`
	PanX     float64         `json:"pan_x"`
	PanY     float64         `json:"pan_y"`
	Zoom     float64         `json:"zoom"`
}

// Complete reports whether the wall has positive dimensions and an image.
func (w WallSpec) Complete() bool {
	return w.WidthM.IsPositive() && w.HeightM.IsPositive() && w.ImageRef != ""
}

func (w WallSpec) AreaSqm() decimal.Decimal {
	return w.WidthM.Mul(w.HeightM)
}

// EffectiveZoom clamps the zoom factor into its valid range. Zero (unset on
// the wire) means the default.
func (w WallSpec) EffectiveZoom() float64 {
	return ClampZoom(w.Zoom)
}

func ClampZoom(z float64) float64 {
	if z == 0 {
		return DefaultZoom
	}
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Layout is the tagged variant over "one spec for every wall" and "one spec
// per wall". Exactly Uniform and PerWall implement it.
type Layout interface {
	isLayout()
}

// Uniform applies one size and one image to every wall.
type Uniform struct {
	Wall WallSpec `json:"wall"`
}

// PerWall holds an entry per wall; len(Walls) must equal the wall count.
type PerWall struct {
	Walls []WallSpec `json:"walls"`
}

func (Uniform) isLayout() {}
func (PerWall) isLayout() {}

// Configuration is the order-in-progress: transient client state submitted
// as a value at quote and checkout time, never persisted in this shape.
type Configuration struct {
	WallCount   int                       `json:"wall_count"`
	Layout      Layout                    `json:"-"`
	Finish      pricing.Finish            `json:"finish"`
	Application pricing.ApplicationMethod `json:"application"`
}

// SetWallCount clamps n to [1,4] and reshapes a per-wall layout: excess
// entries beyond the new count are discarded, missing ones are padded with
// empty specs. Entries still addressable by index are always preserved.
// A count of one collapses to the uniform layout, keeping the first wall.
func (c *Configuration) SetWallCount(n int) {
	if n < MinWallCount {
		n = MinWallCount
	}
	if n > MaxWallCount {
		n = MaxWallCount
	}
	c.WallCount = n

	pw, ok := c.Layout.(PerWall)
	if !ok {
		return
	}
	if n == 1 {
		first := WallSpec{}
		if len(pw.Walls) > 0 {
			first = pw.Walls[0]
		}
		c.Layout = Uniform{Wall: first}
		return
	}
	walls := make([]WallSpec, n)
	copy(walls, pw.Walls)
	c.Layout = PerWall{Walls: walls}
}

// SetUniform switches to the uniform layout. The first per-wall entry (if
// any) becomes the shared spec.
func (c *Configuration) SetUniform() {
	if pw, ok := c.Layout.(PerWall); ok {
		first := WallSpec{}
		if len(pw.Walls) > 0 {
			first = pw.Walls[0]
		}
		c.Layout = Uniform{Wall: first}
		return
	}
	if c.Layout == nil {
		c.Layout = Uniform{}
	}
}

// SetPerWall switches to the per-wall layout with exactly WallCount entries.
// Already-entered walls are preserved by index; gaps start as zeroed specs so
// the quote only ever prices area the user actually typed in.
func (c *Configuration) SetPerWall() {
	count := c.WallCount
	if count < MinWallCount {
		count = MinWallCount
		c.WallCount = count
	}

	var existing []WallSpec
	if l, ok := c.Layout.(PerWall); ok {
		existing = l.Walls
	}

	walls := make([]WallSpec, count)
	for i := range walls {
		if i < len(existing) {
			walls[i] = existing[i]
		} else {
			walls[i] = WallSpec{Zoom: DefaultZoom}
		}
	}
	c.Layout = PerWall{Walls: walls}
}

// Walls returns the effective wall list: the shared spec repeated for a
// uniform layout, the entries themselves for per-wall.
func (c *Configuration) Walls() []WallSpec {
	count := c.WallCount
	if count < MinWallCount {
		count = MinWallCount
	}
	switch l := c.Layout.(type) {
	case PerWall:
		return l.Walls
	case Uniform:
		out := make([]WallSpec, count)
		for i := range out {
			out[i] = l.Wall
		}
		return out
	default:
		return nil
	}
}

// TotalSqm sums wall areas; a uniform layout multiplies one area by the
// wall count.
func (c *Configuration) TotalSqm() decimal.Decimal {
	count := int64(c.WallCount)
	if count < MinWallCount {
		count = MinWallCount
	}
	switch l := c.Layout.(type) {
	case PerWall:
		total := decimal.Zero
		for _, w := range l.Walls {
			total = total.Add(w.AreaSqm())
		}
		return total
	case Uniform:
		return l.Wall.AreaSqm().Mul(decimal.NewFromInt(count))
	default:
		return decimal.Zero
	}
}

// Complete reports whether the configuration can be priced for checkout:
// every wall has positive dimensions and an attached image, the layout shape
// matches the wall count, and finish/application are known values.
func (c *Configuration) Complete() bool {
	if c.WallCount < MinWallCount || c.WallCount > MaxWallCount {
		return false
	}
	if !c.Finish.Valid() || !c.Application.Valid() {
		return false
	}
	switch l := c.Layout.(type) {
	case PerWall:
		if len(l.Walls) != c.WallCount {
			return false
		}
		for _, w := range l.Walls {
			if !w.Complete() {
				return false
			}
		}
		return true
	case Uniform:
		return l.Wall.Complete()
	default:
		return false
	}
}
