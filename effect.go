package boardfx

import (
	"fmt"
	"math"
	"sort"
)

// EffectKind selects how an Effect is rendered.
type EffectKind uint8

const (
	EffectGlow    EffectKind = iota // expanding, fading filled disc
	EffectPulse                     // oscillating stroked ring
	EffectSparkle                   // rotating five-pointed star
)

func (k EffectKind) String() string {
	switch k {
	case EffectGlow:
		return "glow"
	case EffectPulse:
		return "pulse"
	case EffectSparkle:
		return "sparkle"
	default:
		return fmt.Sprintf("EffectKind(%d)", uint8(k))
	}
}

// Default effect durations in milliseconds.
const (
	DefaultSparkleDuration = 500.0
	DefaultPulseDuration   = 800.0
	DefaultGlowDuration    = 1000.0
)

// Effect is a short-lived parametric visual. Rendering depends only on
// Elapsed/Duration, so an effect can be redrawn at any point of its life.
type Effect struct {
	ID       string
	Kind     EffectKind
	Pos      Vec2
	Duration float64 // ms
	Elapsed  float64 // ms
	Color    Color
	Size     float64 // base radius in pixels
}

// Progress returns Elapsed/Duration clamped to [0, 1].
func (e Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return clamp01(e.Elapsed / e.Duration)
}

// Highlight marks a grid cell until it is removed.
type Highlight struct {
	Color       Color
	StrokeWidth float64
	Opacity     float64
	// Animated adds a breathing glow fill driven by the frame clock.
	Animated bool
}

// EffectConfig holds the default durations and sizes for generated effects.
type EffectConfig struct {
	SparkleDuration float64 `toml:"sparkle_ms"`
	PulseDuration   float64 `toml:"pulse_ms"`
	GlowDuration    float64 `toml:"glow_ms"`
	Size            float64 `toml:"size"`
}

// DefaultEffectConfig returns the built-in effect tuning.
func DefaultEffectConfig() EffectConfig {
	return EffectConfig{
		SparkleDuration: DefaultSparkleDuration,
		PulseDuration:   DefaultPulseDuration,
		GlowDuration:    DefaultGlowDuration,
		Size:            20,
	}
}

// EffectSystem advances time-bounded effects and holds persistent
// position-keyed highlights.
type EffectSystem struct {
	config     EffectConfig
	effects    []Effect
	highlights map[GridPos]Highlight
	nextID     uint64
}

// NewEffectSystem creates an empty effect system. Zero fields in cfg fall
// back to DefaultEffectConfig.
func NewEffectSystem(cfg EffectConfig) *EffectSystem {
	def := DefaultEffectConfig()
	if cfg.SparkleDuration <= 0 {
		cfg.SparkleDuration = def.SparkleDuration
	}
	if cfg.PulseDuration <= 0 {
		cfg.PulseDuration = def.PulseDuration
	}
	if cfg.GlowDuration <= 0 {
		cfg.GlowDuration = def.GlowDuration
	}
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	return &EffectSystem{
		config:     cfg,
		highlights: make(map[GridPos]Highlight),
	}
}

// Config returns the system's configuration.
func (es *EffectSystem) Config() EffectConfig {
	return es.config
}

// Add enqueues an arbitrary effect. An empty ID is replaced with a generated
// one; the ID is returned.
func (es *EffectSystem) Add(e Effect) string {
	if e.ID == "" {
		es.nextID++
		e.ID = fmt.Sprintf("%s-%d", e.Kind, es.nextID)
	}
	if e.Size <= 0 {
		e.Size = es.config.Size
	}
	e.Elapsed = 0
	es.effects = append(es.effects, e)
	return e.ID
}

// CreateSparkle enqueues a sparkle at (x, y). A zero color selects gold.
func (es *EffectSystem) CreateSparkle(x, y float64, c Color) string {
	if c.IsZero() {
		c = ColorGold
	}
	return es.Add(Effect{Kind: EffectSparkle, Pos: Vec2{x, y}, Duration: es.config.SparkleDuration, Color: c})
}

// CreateGlow enqueues a glow at (x, y). A zero color selects yellow.
func (es *EffectSystem) CreateGlow(x, y float64, c Color) string {
	if c.IsZero() {
		c = ColorYellow
	}
	return es.Add(Effect{Kind: EffectGlow, Pos: Vec2{x, y}, Duration: es.config.GlowDuration, Color: c})
}

// CreatePulse enqueues a pulsing ring at (x, y). A zero color selects cyan.
func (es *EffectSystem) CreatePulse(x, y float64, c Color) string {
	if c.IsZero() {
		c = ColorCyan
	}
	return es.Add(Effect{Kind: EffectPulse, Pos: Vec2{x, y}, Duration: es.config.PulseDuration, Color: c})
}

// Remove deletes an effect by id. Unknown ids are ignored.
func (es *EffectSystem) Remove(id string) {
	for i := range es.effects {
		if es.effects[i].ID == id {
			es.effects = append(es.effects[:i], es.effects[i+1:]...)
			return
		}
	}
}

// Count returns the number of live effects. Highlights are not counted.
func (es *EffectSystem) Count() int {
	return len(es.effects)
}

// Effects returns the live effects in creation order. The returned slice
// MUST NOT be mutated.
func (es *EffectSystem) Effects() []Effect {
	return es.effects
}

// Advance moves every effect forward by dt milliseconds and removes effects
// whose elapsed time has reached their duration. Highlights are untouched.
func (es *EffectSystem) Advance(dt float64) {
	live := es.effects[:0]
	for _, e := range es.effects {
		e.Elapsed += dt
		if e.Elapsed >= e.Duration {
			continue
		}
		live = append(live, e)
	}
	// Zero the tail so removed effects do not linger in the backing array.
	for i := len(live); i < len(es.effects); i++ {
		es.effects[i] = Effect{}
	}
	es.effects = live
}

// SetHighlight places or replaces the highlight at pos.
func (es *EffectSystem) SetHighlight(pos GridPos, h Highlight) {
	if h.StrokeWidth <= 0 {
		h.StrokeWidth = 2
	}
	if h.Opacity <= 0 {
		h.Opacity = 1
	}
	if h.Color.IsZero() {
		h.Color = ColorYellow
	}
	es.highlights[pos] = h
}

// RemoveHighlight deletes the highlight at pos, if any.
func (es *EffectSystem) RemoveHighlight(pos GridPos) {
	delete(es.highlights, pos)
}

// ClearHighlights deletes every highlight.
func (es *EffectSystem) ClearHighlights() {
	clear(es.highlights)
}

// Highlight returns the highlight at pos.
func (es *EffectSystem) Highlight(pos GridPos) (Highlight, bool) {
	h, ok := es.highlights[pos]
	return h, ok
}

// HighlightCount returns the number of highlighted cells.
func (es *EffectSystem) HighlightCount() int {
	return len(es.highlights)
}

// Draw renders highlights first, then effects in creation order. clock is
// the frame timestamp in milliseconds and only drives animated highlights.
func (es *EffectSystem) Draw(s Surface, grid Grid, clock float64) {
	if s == nil {
		return
	}
	es.drawHighlights(s, grid, clock)
	for i := range es.effects {
		drawEffect(s, &es.effects[i])
	}
}

func (es *EffectSystem) drawHighlights(s Surface, grid Grid, clock float64) {
	if len(es.highlights) == 0 {
		return
	}
	// Map order is random; sort for stable overdraw.
	cells := make([]GridPos, 0, len(es.highlights))
	for pos := range es.highlights {
		cells = append(cells, pos)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	for _, pos := range cells {
		h := es.highlights[pos]
		r := grid.CellRect(pos)
		s.Save()
		s.SetAlpha(h.Opacity)
		if h.Animated {
			breath := 0.5 + 0.5*math.Sin(clock/1000*2*math.Pi)
			s.FillRect(r, h.Color.WithAlpha(0.15+0.25*breath))
		}
		s.StrokeRect(r, h.StrokeWidth, h.Color)
		s.Restore()
	}
}

// drawEffect renders one effect as a pure function of its progress.
func drawEffect(s Surface, e *Effect) {
	p := e.Progress()
	s.Save()
	defer s.Restore()
	switch e.Kind {
	case EffectGlow:
		s.SetAlpha(1 - p)
		s.FillCircle(e.Pos.X, e.Pos.Y, e.Size*(0.5+p), e.Color.WithAlpha(0.6))
	case EffectPulse:
		r := e.Size * (1 + 0.25*math.Sin(p*4*math.Pi))
		s.SetAlpha(1 - p*0.5)
		s.StrokeCircle(e.Pos.X, e.Pos.Y, r, 3, e.Color)
	case EffectSparkle:
		s.SetAlpha(1 - p)
		s.Translate(e.Pos.X, e.Pos.Y)
		s.Rotate(p * 2 * math.Pi)
		s.FillPolygon(StarPoints(5, e.Size/2, e.Size/5), e.Color)
	}
}
