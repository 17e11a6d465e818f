package boardfx

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication, when a backend needs it, happens at draw time.
type Color struct {
	R, G, B, A float64
}

// Common colors used as effect and layer defaults.
var (
	ColorWhite  = Color{1, 1, 1, 1}
	ColorBlack  = Color{0, 0, 0, 1}
	ColorGold   = Color{1, 0.84, 0, 1}
	ColorGreen  = Color{0.2, 0.8, 0.3, 1}
	ColorRed    = Color{0.9, 0.2, 0.2, 1}
	ColorYellow = Color{1, 1, 0.2, 1}
	ColorCyan   = Color{0.3, 0.9, 1, 1}
)

// IsZero reports whether c is the zero Color. Effect constructors treat the
// zero Color as "use the default for this kind".
func (c Color) IsZero() bool {
	return c == Color{}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// ToRGBA converts c to a straight-alpha color.RGBA, clamping each component.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

// ToNRGBA converts c to a color.NRGBA. Backends that take color.Color should
// use this, since color.RGBA is interpreted as premultiplied.
func (c Color) ToNRGBA() color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A),
	}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Inset returns r shrunk by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{r.X + d, r.Y + d, r.Width - 2*d, r.Height - 2*d}
}

// Range is a general-purpose min/max range.
// Used by the particle system for randomized spawn velocities.
type Range struct {
	Min, Max float64
}

// GridPos is a discrete cell on the board.
type GridPos struct {
	Col, Row int
}

// Grid maps board cells to surface coordinates.
type Grid struct {
	CellSize float64 `toml:"cell_size"`
	OriginX  float64 `toml:"origin_x"`
	OriginY  float64 `toml:"origin_y"`
}

// CellRect returns the surface rectangle covered by the given cell.
func (g Grid) CellRect(p GridPos) Rect {
	return Rect{
		X:      g.OriginX + float64(p.Col)*g.CellSize,
		Y:      g.OriginY + float64(p.Row)*g.CellSize,
		Width:  g.CellSize,
		Height: g.CellSize,
	}
}

// CellCenter returns the surface coordinates of the center of the given cell.
func (g Grid) CellCenter(p GridPos) Vec2 {
	return g.CellRect(p).Center()
}

// CellAt returns the cell containing the surface point (x, y). It reports
// false when the grid has no cell size.
func (g Grid) CellAt(x, y float64) (GridPos, bool) {
	if !(g.CellSize > 0) {
		return GridPos{}, false
	}
	return GridPos{
		Col: int(math.Floor((x - g.OriginX) / g.CellSize)),
		Row: int(math.Floor((y - g.OriginY) / g.CellSize)),
	}, true
}

// TextAlign controls horizontal text alignment relative to the anchor point.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // anchor is the left edge (default)
	TextAlignCenter                  // anchor is the horizontal center
	TextAlignRight                   // anchor is the right edge
)

// TextBaseline controls vertical text alignment relative to the anchor point.
type TextBaseline uint8

const (
	TextBaselineTop    TextBaseline = iota // anchor is the top of the line box
	TextBaselineMiddle                     // anchor is the vertical middle
	TextBaselineBottom                     // anchor is the bottom of the line box
)

// clamp01 clamps v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t. The two-product form
// returns exactly a at t=0 and exactly b at t=1.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
