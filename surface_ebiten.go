package boardfx

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// basicFontHeight is the line height of basicfont.Face7x13.
const basicFontHeight = 13

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// ensureWhiteImage returns a lazily-initialized white source image for
// untextured triangles. The 1px border keeps sampling inside white texels.
func ensureWhiteImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// EbitenSurface is a Surface backed by an offscreen ebiten.Image.
type EbitenSurface struct {
	StateStack

	img    *ebiten.Image
	face   text.Face
	font   *Font
	images map[image.Image]*ebiten.Image

	vs []ebiten.Vertex
	is []uint16
}

// NewEbitenSurface creates a surface with a w×h backing image.
func NewEbitenSurface(w, h int) *EbitenSurface {
	return &EbitenSurface{
		StateStack: NewStateStack(),
		img:        ebiten.NewImage(max(w, 1), max(h, 1)),
		face:       text.NewGoXFace(basicfont.Face7x13),
		images:     make(map[image.Image]*ebiten.Image),
	}
}

// Image returns the backing image. It changes after Resize.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// Size returns the backing image size.
func (s *EbitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the backing image. Contents are discarded; the next frame
// redraws them.
func (s *EbitenSurface) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if cw, ch := s.Size(); cw == w && ch == h {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(w, h)
}

// Clear clears the backing image to transparent.
func (s *EbitenSurface) Clear() {
	s.img.Clear()
}

// FillRect fills r.
func (s *EbitenSurface) FillRect(r Rect, c Color) {
	s.FillPolygon(RectPoints(r), c)
}

// StrokeRect outlines r.
func (s *EbitenSurface) StrokeRect(r Rect, width float64, c Color) {
	s.strokePolygon(RectPoints(r), width, c)
}

// FillCircle fills a circle.
func (s *EbitenSurface) FillCircle(cx, cy, radius float64, c Color) {
	if radius <= 0 {
		return
	}
	s.FillPolygon(CirclePoints(cx, cy, radius, circleSegments(radius*s.Scale())), c)
}

// StrokeCircle outlines a circle.
func (s *EbitenSurface) StrokeCircle(cx, cy, radius, width float64, c Color) {
	if radius <= 0 {
		return
	}
	s.strokePolygon(CirclePoints(cx, cy, radius, circleSegments(radius*s.Scale())), width, c)
}

// FillPolygon fills a closed polygon using the non-zero rule.
func (s *EbitenSurface) FillPolygon(points []Vec2, c Color) {
	if len(points) < 3 {
		return
	}
	path := s.path(points)
	s.vs, s.is = path.AppendVerticesAndIndicesForFilling(s.vs[:0], s.is[:0])
	s.drawTriangles(c, ebiten.FillRuleNonZero)
}

func (s *EbitenSurface) strokePolygon(points []Vec2, width float64, c Color) {
	if len(points) < 2 || width <= 0 {
		return
	}
	path := s.path(points)
	s.vs, s.is = path.AppendVerticesAndIndicesForStroke(s.vs[:0], s.is[:0], &vector.StrokeOptions{
		Width:    float32(width * s.Scale()),
		LineJoin: vector.LineJoinMiter,
	})
	s.drawTriangles(c, ebiten.FillRuleFillAll)
}

// path builds a closed vector path from local points mapped through the
// current transform.
func (s *EbitenSurface) path(points []Vec2) *vector.Path {
	var path vector.Path
	for i, p := range s.ApplyAll(points) {
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
			continue
		}
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()
	return &path
}

func (s *EbitenSurface) drawTriangles(c Color, rule ebiten.FillRule) {
	if len(s.is) == 0 {
		return
	}
	a := float32(c.A * s.Alpha())
	for i := range s.vs {
		v := &s.vs[i]
		v.SrcX, v.SrcY = 1, 1
		v.ColorR = float32(c.R)
		v.ColorG = float32(c.G)
		v.ColorB = float32(c.B)
		v.ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModeStraightAlpha,
		FillRule:       rule,
		AntiAlias:      true,
	}
	s.img.DrawTriangles(s.vs, s.is, ensureWhiteImage(), op)
}

// SetFont selects the font for DrawText. A nil font restores the built-in
// 7x13 bitmap face, scaled to the requested size.
func (s *EbitenSurface) SetFont(f *Font) {
	s.font = f
}

// textFace returns the face for size, the scale to draw it at and its line
// height.
func (s *EbitenSurface) textFace(size float64) (text.Face, float64, float64) {
	if size <= 0 {
		size = basicFontHeight
	}
	if s.font != nil {
		return s.font.Face(size), 1, s.font.LineHeight(size)
	}
	return s.face, size / basicFontHeight, basicFontHeight
}

// DrawText draws a single line of text anchored at (x, y).
func (s *EbitenSurface) DrawText(str string, x, y float64, style TextStyle) {
	if str == "" {
		return
	}
	face, k, lh := s.textFace(style.Size)

	op := &text.DrawOptions{}
	op.LineSpacing = lh
	switch style.Align {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	}
	switch style.Baseline {
	case TextBaselineMiddle:
		op.SecondaryAlign = text.AlignCenter
	case TextBaselineBottom:
		op.SecondaryAlign = text.AlignEnd
	}
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(x, y)
	op.GeoM.Concat(s.geoM())
	op.ColorScale.ScaleWithColor(style.Color.ToNRGBA())
	op.ColorScale.ScaleAlpha(float32(s.Alpha()))
	op.Filter = ebiten.FilterLinear
	text.Draw(s.img, str, face, op)
}

// DrawImage draws img scaled into dst. Non-ebiten images are uploaded once
// and cached by identity.
func (s *EbitenSurface) DrawImage(img image.Image, dst Rect) {
	if img == nil || dst.Width <= 0 || dst.Height <= 0 {
		return
	}
	eimg, ok := img.(*ebiten.Image)
	if !ok {
		eimg, ok = s.images[img]
		if !ok {
			eimg = ebiten.NewImageFromImage(img)
			s.images[img] = eimg
		}
	}
	b := eimg.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.Width/float64(b.Dx()), dst.Height/float64(b.Dy()))
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Concat(s.geoM())
	op.ColorScale.ScaleAlpha(float32(s.Alpha()))
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(eimg, op)
}

// geoM converts the current [6]float64 transform into an ebiten.GeoM.
func (s *EbitenSurface) geoM() ebiten.GeoM {
	t := s.Transform()
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}

// circleSegments picks a polygon resolution for a circle of radius r pixels.
func circleSegments(r float64) int {
	n := int(math.Ceil(r * 0.75))
	return min(max(n, 12), 96)
}
