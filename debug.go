package boardfx

import (
	"time"

	"go.uber.org/zap"
)

// Stats holds per-frame counters. Timings are only measured when
// Config.Debug is set.
type Stats struct {
	Frames      uint64
	LastDelta   float64 // ms
	LayersDrawn int
	AdvanceTime time.Duration
	RenderTime  time.Duration
}

// Stats returns the counters of the most recent frame.
func (e *Engine) Stats() Stats {
	return e.stats
}

// debugLog logs timing and live-object counts at debug level.
func (e *Engine) debugLog() {
	if !e.cfg.Debug {
		return
	}
	e.log.Debug("frame",
		zap.Uint64("frame", e.stats.Frames),
		zap.Float64("dt_ms", e.stats.LastDelta),
		zap.Duration("advance", e.stats.AdvanceTime),
		zap.Duration("render", e.stats.RenderTime),
		zap.Int("layers", e.stats.LayersDrawn),
		zap.Int("tweens", e.tweens.Count()),
		zap.Int("glides", e.glides.Count()),
		zap.Int("animations", e.animations.Count()),
		zap.Int("particles", e.particles.Count()),
		zap.Int("effects", e.effects.Count()),
		zap.Int("highlights", e.effects.HighlightCount()),
	)
}
