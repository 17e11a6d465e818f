// Package termsurface renders a boardfx engine into a terminal through tcell.
//
// Each terminal cell stands for a cellW×cellH block of surface pixels. Shapes
// are rasterized by sampling cell centers; text lands on whole cells.
package termsurface

import (
	"image"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/boardfx"
)

// Surface is a boardfx.Surface backed by a cell buffer that Show copies to a
// tcell.Screen.
type Surface struct {
	boardfx.StateStack

	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int

	bg    []boardfx.Color
	fg    []boardfx.Color
	glyph []rune
}

// New creates a surface covering the whole screen. cellW and cellH are the
// pixel size of one terminal cell; 8×16 matches a typical font aspect.
func New(screen tcell.Screen, cellW, cellH float64) *Surface {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	s := &Surface{
		StateStack: boardfx.NewStateStack(),
		screen:     screen,
		cellW:      cellW,
		cellH:      cellH,
	}
	cols, rows := 0, 0
	if screen != nil {
		cols, rows = screen.Size()
	}
	s.allocate(cols, rows)
	return s
}

func (s *Surface) allocate(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	n := s.cols * s.rows
	s.bg = make([]boardfx.Color, n)
	s.fg = make([]boardfx.Color, n)
	s.glyph = make([]rune, n)
}

// Cells returns the buffer size in terminal cells.
func (s *Surface) Cells() (cols, rows int) {
	return s.cols, s.rows
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (int, int) {
	return int(float64(s.cols) * s.cellW), int(float64(s.rows) * s.cellH)
}

// Resize reallocates the cell buffer for a w×h pixel surface.
func (s *Surface) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	cols, rows := int(float64(w)/s.cellW), int(float64(h)/s.cellH)
	if cols == s.cols && rows == s.rows {
		return
	}
	s.allocate(cols, rows)
}

// Clear resets every cell to black with no glyph.
func (s *Surface) Clear() {
	for i := range s.bg {
		s.bg[i] = boardfx.ColorBlack
		s.fg[i] = boardfx.ColorWhite
		s.glyph[i] = 0
	}
}

// At returns the background color and glyph of a cell.
func (s *Surface) At(col, row int) (boardfx.Color, rune) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return boardfx.Color{}, 0
	}
	i := row*s.cols + col
	return s.bg[i], s.glyph[i]
}

// FillRect fills r.
func (s *Surface) FillRect(r boardfx.Rect, c boardfx.Color) {
	s.FillPolygon(boardfx.RectPoints(r), c)
}

// StrokeRect outlines r.
func (s *Surface) StrokeRect(r boardfx.Rect, width float64, c boardfx.Color) {
	s.strokePolygon(boardfx.RectPoints(r), width, c)
}

// FillCircle fills a circle.
func (s *Surface) FillCircle(cx, cy, radius float64, c boardfx.Color) {
	if radius <= 0 {
		return
	}
	s.FillPolygon(boardfx.CirclePoints(cx, cy, radius, 24), c)
}

// StrokeCircle outlines a circle.
func (s *Surface) StrokeCircle(cx, cy, radius, width float64, c boardfx.Color) {
	if radius <= 0 {
		return
	}
	s.strokePolygon(boardfx.CirclePoints(cx, cy, radius, 24), width, c)
}

// FillPolygon fills every cell whose center lies inside the polygon.
func (s *Surface) FillPolygon(points []boardfx.Vec2, c boardfx.Color) {
	if len(points) < 3 {
		return
	}
	pts := s.ApplyAll(points)
	s.eachCell(bounds(pts, 0), func(i int, x, y float64) {
		if inside(pts, x, y) {
			s.blend(i, c)
		}
	})
}

func (s *Surface) strokePolygon(points []boardfx.Vec2, width float64, c boardfx.Color) {
	if len(points) < 2 || width <= 0 {
		return
	}
	pts := s.ApplyAll(points)
	// A stroke thinner than a cell still has to light the cells it crosses.
	half := math.Max(width*s.Scale()/2, math.Max(s.cellW, s.cellH)/2)
	s.eachCell(bounds(pts, half), func(i int, x, y float64) {
		for j := range pts {
			a, b := pts[j], pts[(j+1)%len(pts)]
			if segmentDistance(a, b, x, y) <= half {
				s.blend(i, c)
				return
			}
		}
	})
}

// DrawText writes str into whole cells starting at the anchor's cell.
func (s *Surface) DrawText(str string, x, y float64, style boardfx.TextStyle) {
	runes := []rune(str)
	if len(runes) == 0 || s.Alpha()*style.Color.A < 0.25 {
		return
	}
	ax, ay := s.Apply(x, y)
	col := int(math.Floor(ax / s.cellW))
	switch style.Align {
	case boardfx.TextAlignCenter:
		col -= len(runes) / 2
	case boardfx.TextAlignRight:
		col -= len(runes)
	}
	row := int(math.Floor(ay / s.cellH))
	if style.Baseline == boardfx.TextBaselineBottom {
		row--
	}
	if row < 0 || row >= s.rows {
		return
	}
	for k, r := range runes {
		cc := col + k
		if cc < 0 || cc >= s.cols {
			continue
		}
		i := row*s.cols + cc
		s.glyph[i] = r
		s.fg[i] = style.Color
	}
}

// DrawImage samples img at every covered cell center.
func (s *Surface) DrawImage(img image.Image, dst boardfx.Rect) {
	if img == nil || dst.Width <= 0 || dst.Height <= 0 {
		return
	}
	pts := s.ApplyAll(boardfx.RectPoints(dst))
	box := bounds(pts, 0)
	ib := img.Bounds()
	if box.Width <= 0 || box.Height <= 0 || ib.Empty() {
		return
	}
	s.eachCell(box, func(i int, x, y float64) {
		u := (x - box.X) / box.Width
		v := (y - box.Y) / box.Height
		px := ib.Min.X + int(u*float64(ib.Dx()))
		py := ib.Min.Y + int(v*float64(ib.Dy()))
		r, g, b, a := img.At(px, py).RGBA()
		if a == 0 {
			return
		}
		// RGBA() is premultiplied; undo it before blending.
		fa := float64(a)
		s.blend(i, boardfx.Color{
			R: float64(r) / fa,
			G: float64(g) / fa,
			B: float64(b) / fa,
			A: fa / 0xffff,
		})
	})
}

// Show copies the cell buffer to the screen.
func (s *Surface) Show() {
	if s.screen == nil {
		return
	}
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			i := row*s.cols + col
			ch := s.glyph[i]
			if ch == 0 {
				ch = ' '
			}
			style := tcell.StyleDefault.
				Background(toTcell(s.bg[i])).
				Foreground(toTcell(s.fg[i]))
			s.screen.SetContent(col, row, ch, nil, style)
		}
	}
	s.screen.Show()
}

// eachCell calls fn for every cell whose center lies in box.
func (s *Surface) eachCell(box boardfx.Rect, fn func(i int, x, y float64)) {
	c0 := max(int(math.Floor(box.X/s.cellW)), 0)
	r0 := max(int(math.Floor(box.Y/s.cellH)), 0)
	c1 := min(int(math.Ceil((box.X+box.Width)/s.cellW)), s.cols-1)
	r1 := min(int(math.Ceil((box.Y+box.Height)/s.cellH)), s.rows-1)
	for row := r0; row <= r1; row++ {
		y := (float64(row) + 0.5) * s.cellH
		for col := c0; col <= c1; col++ {
			x := (float64(col) + 0.5) * s.cellW
			if box.Contains(x, y) {
				fn(row*s.cols+col, x, y)
			}
		}
	}
}

func (s *Surface) blend(i int, c boardfx.Color) {
	a := c.A * s.Alpha()
	if a <= 0 {
		return
	}
	d := s.bg[i]
	s.bg[i] = boardfx.Color{
		R: c.R*a + d.R*(1-a),
		G: c.G*a + d.G*(1-a),
		B: c.B*a + d.B*(1-a),
		A: 1,
	}
}

func toTcell(c boardfx.Color) tcell.Color {
	rgba := c.ToRGBA()
	return tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
}

// bounds returns the bounding box of pts grown by pad.
func bounds(pts []boardfx.Vec2, pad float64) boardfx.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return boardfx.Rect{
		X:      minX - pad,
		Y:      minY - pad,
		Width:  maxX - minX + 2*pad,
		Height: maxY - minY + 2*pad,
	}
}

// inside is the even-odd crossing test.
func inside(pts []boardfx.Vec2, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}

func segmentDistance(a, b boardfx.Vec2, x, y float64) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = math.Max(0, math.Min(1, ((x-a.X)*dx+(y-a.Y)*dy)/l2))
	}
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}
