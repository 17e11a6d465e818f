package boardfx

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font wraps a TrueType or OpenType face source for EbitenSurface text.
// Faces are created per size on demand.
type Font struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
}

// LoadFont parses raw TTF/OTF data.
func LoadFont(ttfData []byte) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("parse font data: %w", err)
	}
	return &Font{source: source, faces: make(map[float64]*text.GoTextFace)}, nil
}

// LoadFontFile reads and parses a TTF/OTF file.
func LoadFontFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := LoadFont(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Face returns the face at size pixels, creating it on first use.
func (f *Font) Face(size float64) *text.GoTextFace {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.source, Size: size}
	f.faces[size] = face
	return face
}

// LineHeight returns the distance between baselines at size.
func (f *Font) LineHeight(size float64) float64 {
	m := f.Face(size).Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// MeasureString returns the width and height of s rendered at size.
func (f *Font) MeasureString(s string, size float64) (width, height float64) {
	return text.Measure(s, f.Face(size), f.LineHeight(size))
}
