package boardfx

import "fmt"

const fpsRefreshInterval = 500.0 // ms

// fpsMeter averages the frame rate over a refresh window so the readout is
// steady enough to read.
type fpsMeter struct {
	frames  int
	elapsed float64
	fps     float64
}

// add records one frame of dt milliseconds. The reading is refreshed once
// the window fills.
func (m *fpsMeter) add(dt float64) {
	m.frames++
	m.elapsed += dt
	if m.elapsed < fpsRefreshInterval {
		return
	}
	m.fps = float64(m.frames) * 1000 / m.elapsed
	m.frames = 0
	m.elapsed = 0
}

// FPS returns the measured frame rate, refreshed about twice a second. It is
// zero until the first half second of running time has passed.
func (e *Engine) FPS() float64 {
	return e.fps.fps
}

// drawFPS renders the frame rate readout below the HUD bar.
func drawFPS(e *Engine, s Surface) {
	box := Rect{X: 4, Y: 36, Width: 84, Height: 18}
	s.FillRect(box, ColorBlack.WithAlpha(0.5))
	s.DrawText(fmt.Sprintf("FPS: %.1f", e.FPS()), box.X+4, box.Y+box.Height/2, TextStyle{
		Size: 12, Color: ColorWhite, Baseline: TextBaselineMiddle,
	})
}
