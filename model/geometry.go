package model

import "math"

// NormalizedRect is a rectangle in the canonical coordinate convention:
// origin at the top-left corner, y increasing downward. All values are in
// the same linear units as the source page (typically publishing points).
type NormalizedRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect creates a rectangle from position and size.
func NewRect(x, y, width, height float64) NormalizedRect {
	return NormalizedRect{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate.
func (r NormalizedRect) Left() float64 {
	return r.X
}

// Right returns the right edge X coordinate.
func (r NormalizedRect) Right() float64 {
	return r.X + r.Width
}

// Top returns the top edge Y coordinate.
func (r NormalizedRect) Top() float64 {
	return r.Y
}

// Bottom returns the bottom edge Y coordinate.
func (r NormalizedRect) Bottom() float64 {
	return r.Y + r.Height
}

// Scale returns a new rectangle with all four fields multiplied by factor.
// The receiver is not modified.
func (r NormalizedRect) Scale(factor float64) NormalizedRect {
	return r.ScaleXY(factor, factor)
}

// ScaleXY returns a new rectangle scaled by independent per-axis factors:
// x and width by xFactor, y and height by yFactor. Page images can be
// rasterized at a resolution that diverges from the declared page aspect
// ratio, so the two axes scale independently.
func (r NormalizedRect) ScaleXY(xFactor, yFactor float64) NormalizedRect {
	return NormalizedRect{
		X:      r.X * xFactor,
		Y:      r.Y * yFactor,
		Width:  r.Width * xFactor,
		Height: r.Height * yFactor,
	}
}

// IsValid reports whether the rectangle has positive dimensions.
func (r NormalizedRect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Area returns the area of the rectangle.
func (r NormalizedRect) Area() float64 {
	return r.Width * r.Height
}

// Intersects reports whether two rectangles overlap.
func (r NormalizedRect) Intersects(other NormalizedRect) bool {
	return !(r.Right() < other.Left() ||
		r.Left() > other.Right() ||
		r.Bottom() < other.Top() ||
		r.Top() > other.Bottom())
}

// Union returns the smallest rectangle containing both rectangles.
func (r NormalizedRect) Union(other NormalizedRect) NormalizedRect {
	x := math.Min(r.Left(), other.Left())
	y := math.Min(r.Top(), other.Top())
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())

	return NormalizedRect{
		X:      x,
		Y:      y,
		Width:  right - x,
		Height: bottom - y,
	}
}
