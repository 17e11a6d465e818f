package boardfx

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/png" // atlas pages
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// AtlasRegion describes a named sprite within an atlas page.
type AtlasRegion struct {
	Page          int // atlas page index
	X, Y          int // top-left corner of the packed rect on the page
	Width, Height int // sprite size as drawn, before any rotation on the page
	OriginalW     int // untrimmed sprite width as authored
	OriginalH     int // untrimmed sprite height as authored
	OffsetX       int // trim offset within the untrimmed sprite
	OffsetY       int
	Rotated       bool // stored 90 degrees clockwise on the page
}

// pageRect returns the rectangle the region occupies on its page.
func (r AtlasRegion) pageRect() image.Rectangle {
	if r.Rotated {
		return image.Rect(r.X, r.Y, r.X+r.Height, r.Y+r.Width)
	}
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// subImager is implemented by the standard image types and *ebiten.Image.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Atlas is a SpriteSource backed by TexturePacker sheets. Sprite ids are the
// frame names in the sheet.
type Atlas struct {
	// Pages contains the page images indexed by page number.
	Pages   []image.Image
	regions map[string]AtlasRegion
	cache   map[string]image.Image
}

// Region returns the region for name.
func (a *Atlas) Region(name string) (AtlasRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of named regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// Sprite implements SpriteSource. Unknown names, missing pages and pages
// that cannot be cut return nil so callers draw a placeholder. Trimmed
// sprites are padded back to their original size and rotated ones turned
// upright. Results are cached per name.
func (a *Atlas) Sprite(name string) image.Image {
	if img, ok := a.cache[name]; ok {
		return img
	}
	r, ok := a.regions[name]
	if !ok || r.Page < 0 || r.Page >= len(a.Pages) || a.Pages[r.Page] == nil {
		return nil
	}
	img := cutRegion(a.Pages[r.Page], r)
	if img != nil {
		a.cache[name] = img
	}
	return img
}

func cutRegion(page image.Image, r AtlasRegion) image.Image {
	sp, ok := page.(subImager)
	if !ok {
		return nil
	}
	rect := r.pageRect().Intersect(page.Bounds())
	if rect.Empty() {
		return nil
	}
	sub := sp.SubImage(rect)
	w, h := max(r.OriginalW, r.Width), max(r.OriginalH, r.Height)
	if !r.Rotated && r.OffsetX == 0 && r.OffsetY == 0 && w == r.Width && h == r.Height {
		return sub
	}

	if epage, ok := page.(*ebiten.Image); ok {
		dst := ebiten.NewImage(w, h)
		op := &ebiten.DrawImageOptions{}
		if r.Rotated {
			op.GeoM.Rotate(-math.Pi / 2)
			op.GeoM.Translate(0, float64(r.Height))
		}
		op.GeoM.Translate(float64(r.OffsetX), float64(r.OffsetY))
		dst.DrawImage(epage.SubImage(rect).(*ebiten.Image), op)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if !r.Rotated {
		xdraw.Copy(dst, image.Pt(r.OffsetX, r.OffsetY), sub, rect, xdraw.Src, nil)
		return dst
	}
	// Turn counter-clockwise: page (x, y) lands at (y, Height-x) in the
	// sprite, both relative to their rectangles.
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	s2d := f64.Aff3{
		0, 1, float64(r.OffsetX) - oy,
		-1, 0, ox + float64(r.Height+r.OffsetY),
	}
	xdraw.NearestNeighbor.Transform(dst, s2d, sub, rect, xdraw.Src, nil)
	return dst
}

// LoadAtlas parses TexturePacker JSON data and associates the given page
// images. Both the hash format (a single "frames" object) and the array
// format (a "textures" array with per-page frame lists) are supported.
func LoadAtlas(jsonData []byte, pages []image.Image) (*Atlas, error) {
	sheet, err := parseAtlasJSON(jsonData)
	if err != nil {
		return nil, err
	}
	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]AtlasRegion),
		cache:   make(map[string]image.Image),
	}
	for i, page := range sheet {
		for name, f := range page.Frames {
			atlas.regions[name] = frameToRegion(f, i)
		}
	}
	return atlas, nil
}

// LoadAtlasFile reads a TexturePacker JSON file and decodes the page images
// it names, relative to the JSON file.
func LoadAtlasFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atlas: %w", err)
	}
	sheet, err := parseAtlasJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pages := make([]image.Image, len(sheet))
	for i, page := range sheet {
		if page.Image == "" {
			return nil, fmt.Errorf("%s: atlas page %d names no image", path, i)
		}
		img, err := decodeImageFile(filepath.Join(filepath.Dir(path), page.Image))
		if err != nil {
			return nil, err
		}
		pages[i] = img
	}
	return LoadAtlas(data, pages)
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open atlas page: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode atlas page %s: %w", path, err)
	}
	return img, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseAtlasJSON normalizes both sheet formats to a list of pages.
func parseAtlasJSON(data []byte) ([]jsonTexturePage, error) {
	var probe struct {
		Frames   json.RawMessage   `json:"frames"`
		Textures []jsonTexturePage `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse atlas JSON: %w", err)
	}
	switch {
	case probe.Textures != nil:
		return probe.Textures, nil
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("parse atlas frames: %w", err)
		}
		return []jsonTexturePage{{Image: probe.Meta.Image, Frames: frames}}, nil
	default:
		return nil, fmt.Errorf("atlas JSON has neither \"frames\" nor \"textures\" key")
	}
}

func frameToRegion(f jsonFrame, page int) AtlasRegion {
	r := AtlasRegion{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		Rotated:   f.Rotated,
	}
	if f.Trimmed {
		r.OffsetX = f.SpriteSourceSize.X
		r.OffsetY = f.SpriteSourceSize.Y
	}
	if r.OriginalW == 0 {
		r.OriginalW = r.Width
	}
	if r.OriginalH == 0 {
		r.OriginalH = r.Height
	}
	return r
}
