package domain

import "math"

// coordinateScale is the resolution of the canvas grid. Every coordinate and
// extent is snapped to a multiple of 1/coordinateScale, which keeps sums and
// differences of canvas values exact in float64 so converting a child between
// absolute and parent-relative space never drifts.
const coordinateScale = 1024

// MaxCoordinate bounds every coordinate and extent on the canvas.
const MaxCoordinate = 1e9

// InBounds reports whether v is a finite value inside the canvas bound
func InBounds(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) <= MaxCoordinate
}

// Quantize snaps v to the canvas grid. NaN becomes 0 and values past the
// canvas bound are clamped to it.
func Quantize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-MaxCoordinate, math.Min(MaxCoordinate, v))
	return math.Round(v*coordinateScale) / coordinateScale
}

// Point is a position on the canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns a quantized point
func Pt(x, y float64) Point {
	return Point{X: Quantize(x), Y: Quantize(y)}
}

// Quantized returns p snapped to the canvas grid
func (p Point) Quantized() Point {
	return Pt(p.X, p.Y)
}

// InBounds reports whether both coordinates are inside the canvas bound
func (p Point) InBounds() bool {
	return InBounds(p.X) && InBounds(p.Y)
}

// Add returns p translated by q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is the extent of a node
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Quantized returns s snapped to the canvas grid
func (s Size) Quantized() Size {
	return Size{Width: Quantize(s.Width), Height: Quantize(s.Height)}
}

// Valid reports whether both extents are strictly positive and inside the
// canvas bound
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && InBounds(s.Width) && InBounds(s.Height)
}

// Rect is an axis-aligned rectangle given by its top-left and bottom-right corners
type Rect struct {
	Min Point
	Max Point
}

// RectAt returns the rectangle occupied by an element of size s at origin p
func RectAt(p Point, s Size) Rect {
	return Rect{Min: p, Max: Point{X: p.X + s.Width, Y: p.Y + s.Height}}
}

// Union returns the smallest rectangle containing r and o
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Pad grows r by margin on every side
func (r Rect) Pad(margin float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X - margin, Y: r.Min.Y - margin},
		Max: Point{X: r.Max.X + margin, Y: r.Max.Y + margin},
	}
}

// Size returns the extent of r
func (r Rect) Size() Size {
	return Size{Width: r.Max.X - r.Min.X, Height: r.Max.Y - r.Min.Y}
}
