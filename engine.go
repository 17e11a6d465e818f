package boardfx

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

var (
	// ErrNilSurface is returned by NewEngine when no drawing surface is given.
	ErrNilSurface = errors.New("boardfx: nil drawing surface")
	// ErrNilScheduler is returned by NewEngine when no frame scheduler is given.
	ErrNilScheduler = errors.New("boardfx: nil frame scheduler")
)

// SpriteSource resolves sprite ids to images. A nil image means the sprite
// is unknown or not loaded yet; the engine draws a placeholder instead.
type SpriteSource interface {
	Sprite(id string) image.Image
}

// SpriteFunc adapts a function to SpriteSource.
type SpriteFunc func(id string) image.Image

// Sprite calls f(id).
func (f SpriteFunc) Sprite(id string) image.Image { return f(id) }

// Building is a static board structure drawn on the buildings layer.
type Building struct {
	ID       string
	Name     string
	Pos      GridPos
	Width    int // cells; zero means 1
	Height   int // cells; zero means 1
	SpriteID string
	Color    Color
}

// Board is the static map drawn on the map and buildings layers.
type Board struct {
	Cols, Rows int
	Background Color
	TileA      Color
	TileB      Color
	Buildings  []Building
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSprites sets the sprite source used by the building and player layers.
func WithSprites(src SpriteSource) Option {
	return func(e *Engine) { e.sprites = src }
}

// WithLayerRenderer replaces the default renderer of a layer.
func WithLayerRenderer(name string, r LayerRenderer) Option {
	return func(e *Engine) { e.renderers[name] = r }
}

// cashReadout is a HUD cash value rolling toward its latest target.
type cashReadout struct {
	value  float64
	target int
	tween  *gween.Tween
}

// Engine owns the frame loop and drives the tween scheduler, player glides,
// animation player, particle system and effect system once per frame, then
// composites the layers onto its Surface.
//
// Engine is single-threaded: every method must be called from the goroutine
// that runs the frame callbacks.
type Engine struct {
	cfg     Config
	surface Surface
	sched   FrameScheduler
	sprites SpriteSource
	log     *zap.Logger

	tweens     *TweenScheduler
	glides     *TweenScheduler
	animations *AnimationPlayer
	particles  *ParticleSystem
	effects    *EffectSystem
	detector   *ChangeDetector

	renderers map[string]LayerRenderer
	layers    *compositor

	world World
	board Board
	cash  map[string]*cashReadout

	running bool
	handle  FrameHandle
	last    float64 // timestamp of the previous tick
	clock   float64 // accumulated running time in ms; frozen while stopped
	stats   Stats
	fps     fpsMeter
}

// NewEngine builds an engine rendering onto surface and ticking on sched.
// A nil cfg selects DefaultConfig. Missing surface or scheduler is a
// configuration error.
func NewEngine(surface Surface, sched FrameScheduler, cfg *Config, opts ...Option) (*Engine, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        *cfg,
		surface:    surface,
		sched:      sched,
		log:        zap.NewNop(),
		tweens:     NewTweenScheduler(),
		glides:     NewTweenScheduler(),
		animations: NewAnimationPlayer(),
		particles:  NewParticleSystem(cfg.Particles),
		effects:    NewEffectSystem(cfg.Effects),
		renderers:  defaultRenderers(),
		cash:       make(map[string]*cashReadout),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.detector = NewChangeDetector(engineHandler{e}, e.log)
	e.layers = newCompositor(e.renderers, e.log)
	for _, name := range cfg.Layers.Hidden {
		e.SetLayerVisible(name, false)
	}
	// A surface that already has a size (a window, a terminal) wins over
	// the configured one.
	if w, h := surface.Size(); w > 0 && h > 0 {
		e.cfg.Width, e.cfg.Height = w, h
	} else {
		surface.Resize(cfg.Width, cfg.Height)
	}
	return e, nil
}

// Start begins the frame loop. It is a no-op while running. Timers resume
// from where Stop froze them; only the wall-clock baseline is re-taken.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.last = e.sched.Now()
	e.handle = e.sched.RequestFrame(e.tick)
	e.log.Debug("frame loop started", zap.Float64("baseline", e.last))
}

// Stop cancels the pending frame and freezes all timers. Stopping a stopped
// engine is a no-op.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	e.sched.CancelFrame(e.handle)
	e.handle = 0
	e.log.Debug("frame loop stopped", zap.Uint64("frames", e.stats.Frames))
}

// Running reports whether the frame loop is active.
func (e *Engine) Running() bool {
	return e.running
}

// tick is the per-frame callback.
func (e *Engine) tick(ts float64) {
	if !e.running {
		return
	}
	// This request has fired. A callback that restarts the loop requests its
	// own frame, and the tick must not add a second one.
	e.handle = 0
	defer func() {
		if e.running && e.handle == 0 {
			e.handle = e.sched.RequestFrame(e.tick)
		}
	}()

	dt := ts - e.last
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	e.last = ts
	e.fps.add(dt)

	var t0 time.Time
	if e.cfg.Debug {
		t0 = time.Now()
	}
	e.advance(dt)
	if e.cfg.Debug {
		e.stats.AdvanceTime = time.Since(t0)
		t0 = time.Now()
	}
	e.safely("render", e.render)
	if e.cfg.Debug {
		e.stats.RenderTime = time.Since(t0)
	}
	e.stats.Frames++
	e.stats.LastDelta = dt
	e.debugLog()
}

// advance moves every time-based component forward by dt milliseconds, in a
// fixed order. A panicking user callback only cuts short its own component.
func (e *Engine) advance(dt float64) {
	e.clock += dt
	e.safely("tweens", func() { e.tweens.Advance(dt) })
	e.safely("glides", func() { e.glides.Advance(dt) })
	e.safely("animations", func() { e.animations.Advance(dt) })
	e.particles.Advance(dt)
	e.effects.Advance(dt)
	e.advanceCash(dt)
}

func (e *Engine) render() {
	e.surface.Clear()
	e.stats.LayersDrawn = e.layers.render(e, e.surface)
}

// safely runs fn and logs instead of propagating a panic, so a single bad
// callback never ends the frame loop.
func (e *Engine) safely(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("frame stage panicked",
				zap.String("stage", stage),
				zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	fn()
}

// Resize changes the surface dimensions. In-flight tweens, animations,
// particles and effects are untouched.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.cfg.Width, e.cfg.Height = width, height
	e.surface.Resize(width, height)
}

// OnGameStateChange records w as the current world and runs change
// detection against the previous state. Detection errors are logged and
// returned; they never stop the frame loop.
func (e *Engine) OnGameStateChange(w World) error {
	if w != nil {
		e.world = w
	}
	if err := e.detector.Observe(w); err != nil {
		return err
	}
	e.syncCash()
	return nil
}

// GlidePlayer moves a player's token toward the center of cell to over the
// configured glide duration. A glide already in flight is retargeted from
// its current point; otherwise the glide starts at the center of from.
func (e *Engine) GlidePlayer(id string, from, to GridPos) {
	target := e.cfg.Grid.CellCenter(to)
	start, ok := e.glides.Point(id)
	if !ok {
		start = e.cfg.Grid.CellCenter(from)
	}
	e.glides.Create(id, start, target, e.cfg.Motion.GlideDuration, EaseOutQuad, nil, nil)
}

// PlayerPosition returns the surface position at which a player's token is
// drawn: the glide point while gliding, otherwise the center of the
// player's authoritative cell.
func (e *Engine) PlayerPosition(id string) (Vec2, bool) {
	if p, ok := e.glides.Point(id); ok {
		return p, true
	}
	if snap, ok := e.detector.Previous(); ok {
		if p, ok := snap.Player(id); ok {
			return e.cfg.Grid.CellCenter(p.Pos), true
		}
	}
	return Vec2{}, false
}

// IsGliding reports whether a player's token is mid-glide.
func (e *Engine) IsGliding(id string) bool {
	return e.glides.IsTweening(id)
}

// CashDisplay returns the HUD cash value for a player, which rolls toward the
// latest cash amount after each change.
func (e *Engine) CashDisplay(id string) (float64, bool) {
	r, ok := e.cash[id]
	if !ok {
		return 0, false
	}
	return r.value, true
}

func (e *Engine) rollCash(id string, before, after int) {
	r, ok := e.cash[id]
	if !ok {
		r = &cashReadout{value: float64(before)}
		e.cash[id] = r
	}
	r.target = after
	r.tween = gween.New(float32(r.value), float32(after), float32(e.cfg.Motion.CashRollDuration), ease.OutQuad)
}

func (e *Engine) advanceCash(dt float64) {
	for _, r := range e.cash {
		if r.tween == nil {
			continue
		}
		v, done := r.tween.Update(float32(dt))
		r.value = float64(v)
		if done {
			r.value = float64(r.target)
			r.tween = nil
		}
	}
}

// syncCash creates readouts for players seen for the first time and drops
// readouts for players that left.
func (e *Engine) syncCash() {
	snap, ok := e.detector.Previous()
	if !ok {
		return
	}
	seen := make(map[string]bool, len(snap.Players))
	for _, p := range snap.Players {
		seen[p.ID] = true
		if _, ok := e.cash[p.ID]; !ok {
			e.cash[p.ID] = &cashReadout{value: float64(p.Cash), target: p.Cash}
		}
	}
	for id := range e.cash {
		if !seen[id] {
			delete(e.cash, id)
		}
	}
}

// SetBoard replaces the static map.
func (e *Engine) SetBoard(b Board) {
	e.board = b
}

// Board returns the static map.
func (e *Engine) Board() Board { return e.board }

// World returns the most recent world passed to OnGameStateChange.
func (e *Engine) World() World { return e.world }

// Grid returns the cell-to-surface mapping.
func (e *Engine) Grid() Grid { return e.cfg.Grid }

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Surface returns the drawing surface.
func (e *Engine) Surface() Surface { return e.surface }

// Sprites returns the sprite source, which may be nil.
func (e *Engine) Sprites() SpriteSource { return e.sprites }

// Clock returns the accumulated running time in milliseconds.
func (e *Engine) Clock() float64 { return e.clock }

// Tweens returns the general-purpose tween scheduler.
func (e *Engine) Tweens() *TweenScheduler { return e.tweens }

// Animations returns the sprite animation player.
func (e *Engine) Animations() *AnimationPlayer { return e.animations }

// Particles returns the particle system.
func (e *Engine) Particles() *ParticleSystem { return e.particles }

// Effects returns the effect system.
func (e *Engine) Effects() *EffectSystem { return e.effects }

// Detector returns the change detector.
func (e *Engine) Detector() *ChangeDetector { return e.detector }

// SetLayerVisible shows or hides a layer. It reports false for unknown
// layer names.
func (e *Engine) SetLayerVisible(name string, visible bool) bool {
	l := e.layers.find(name)
	if l == nil {
		return false
	}
	l.Visible = visible
	return true
}

// SetLayerRenderer replaces the renderer of a layer. A nil renderer leaves
// the layer empty. It reports false for unknown layer names.
func (e *Engine) SetLayerRenderer(name string, r LayerRenderer) bool {
	l := e.layers.find(name)
	if l == nil {
		return false
	}
	l.render = r
	return true
}

// Layers returns the layer configuration in z-order.
func (e *Engine) Layers() []RenderLayer {
	out := make([]RenderLayer, len(e.layers.layers))
	for i, l := range e.layers.layers {
		out[i] = l.RenderLayer
	}
	return out
}

// engineHandler turns change-detector requests into engine effects.
type engineHandler struct {
	e *Engine
}

func (h engineHandler) PlayerMoved(id string, from, to GridPos) {
	h.e.GlidePlayer(id, from, to)
}

func (h engineHandler) CashChanged(id string, at GridPos, before, after int) {
	p, ok := h.e.glides.Point(id)
	if !ok {
		p = h.e.cfg.Grid.CellCenter(at)
	}
	delta := after - before
	h.e.particles.CreateMoneyEffect(p.X, p.Y-h.e.cfg.Grid.CellSize/2, delta, delta > 0)
	h.e.rollCash(id, before, after)
}

func (h engineHandler) StatChanged(id string, at GridPos, stat Stat, delta int) {
	p, ok := h.e.glides.Point(id)
	if !ok {
		p = h.e.cfg.Grid.CellCenter(at)
	}
	h.e.effects.CreateSparkle(p.X, p.Y, statColor(stat))
}

func statColor(s Stat) Color {
	switch s {
	case StatHealth:
		return ColorRed
	case StatHappiness:
		return ColorYellow
	case StatEducation:
		return ColorCyan
	default:
		return ColorGold
	}
}
