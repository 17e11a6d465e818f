package boardfx

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// EbitenHost adapts an Engine to ebiten's game loop. It is the engine's
// FrameScheduler: pending frame callbacks fire from Update with the number
// of milliseconds since the host was created. Update also polls the mouse
// and touch screen into cell clicks and hovers. Draw copies the offscreen
// surface to the screen.
type EbitenHost struct {
	*ManualScheduler

	surface *EbitenSurface
	engine  *Engine
	input   *PointerInput
	script  *ScriptRunner
	start   time.Time
	width   int
	height  int

	touching    bool
	touchX      float64
	touchY      float64
	screenshots []string
}

// NewEbitenHost creates a host with a w×h offscreen surface.
func NewEbitenHost(w, h int) *EbitenHost {
	return &EbitenHost{
		ManualScheduler: NewManualScheduler(),
		surface:         NewEbitenSurface(w, h),
		input:           NewPointerInput(nil),
		start:           time.Now(),
		width:           w,
		height:          h,
	}
}

// Surface returns the surface the engine should render onto.
func (h *EbitenHost) Surface() *EbitenSurface {
	return h.surface
}

// Attach binds the engine that receives Layout size changes and resolves
// pointer positions to board cells.
func (h *EbitenHost) Attach(e *Engine) {
	h.engine = e
	h.input.SetLocator(e.Locate)
}

// Input returns the host's pointer input.
func (h *EbitenHost) Input() *PointerInput {
	return h.input
}

// OnCellClick registers fn for clicks on board cells.
func (h *EbitenHost) OnCellClick(fn func(CellEvent)) CallbackHandle {
	return h.input.OnCellClick(fn)
}

// OnCellHover registers fn for pointer moves between cells.
func (h *EbitenHost) OnCellHover(fn func(CellEvent)) CallbackHandle {
	return h.input.OnCellHover(fn)
}

// SetScript attaches an input script that is stepped once per Update. A nil
// runner detaches the current one.
func (h *EbitenHost) SetScript(r *ScriptRunner) {
	h.script = r
}

// Now returns milliseconds since the host was created.
func (h *EbitenHost) Now() float64 {
	return float64(time.Since(h.start).Microseconds()) / 1000
}

// Update implements ebiten.Game.
func (h *EbitenHost) Update() error {
	if h.script != nil {
		h.script.Step(h)
	}
	x, y, pressed := h.pointer()
	h.input.Update(x, y, pressed)
	h.Step(h.Now())
	return nil
}

// pointer samples the first active touch, falling back to the mouse. A touch
// that just ended releases where it was last seen.
func (h *EbitenHost) pointer() (x, y float64, pressed bool) {
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		tx, ty := ebiten.TouchPosition(ids[0])
		h.touching = true
		h.touchX, h.touchY = float64(tx), float64(ty)
		return h.touchX, h.touchY, true
	}
	if h.touching {
		h.touching = false
		return h.touchX, h.touchY, false
	}
	cx, cy := ebiten.CursorPosition()
	return float64(cx), float64(cy), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// Draw implements ebiten.Game.
func (h *EbitenHost) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.surface.Image(), nil)
	h.flushScreenshots(h.surface.Image())
	if h.engine != nil && h.engine.cfg.Debug {
		// Ebiten's own rates, under the engine's FPS readout.
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.1f  FPS: %.1f", ebiten.ActualTPS(), ebiten.ActualFPS()), 4, 56)
	}
}

// Layout implements ebiten.Game. A change of the outside size resizes the
// engine without disturbing its animation state.
func (h *EbitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		if h.engine != nil {
			h.engine.Resize(outsideWidth, outsideHeight)
		} else {
			h.surface.Resize(outsideWidth, outsideHeight)
		}
	}
	return h.width, h.height
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// Run opens a window and runs game until the window is closed. game is
// usually an *EbitenHost, or a type embedding one that adds input handling.
// The attached engine should already be started.
func Run(game ebiten.Game, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(game)
}
