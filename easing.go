package boardfx

import "github.com/tanema/gween/ease"

// Easing maps normalized progress in [0, 1] to eased progress. Easings
// returned by this package clamp their input and return exactly 0 and 1 at
// the endpoints.
type Easing func(t float64) float64

// FromTweenFunc adapts a gween (t, begin, change, duration) easing function
// to a normalized Easing.
func FromTweenFunc(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		if t <= 0 || t != t {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

var (
	Linear         = FromTweenFunc(ease.Linear)
	EaseInQuad     = FromTweenFunc(ease.InQuad)
	EaseOutQuad    = FromTweenFunc(ease.OutQuad)
	EaseInOutQuad  = FromTweenFunc(ease.InOutQuad)
	EaseOutCubic   = FromTweenFunc(ease.OutCubic)
	EaseInOutCubic = FromTweenFunc(ease.InOutCubic)
	EaseOutBack    = FromTweenFunc(ease.OutBack)
	EaseOutBounce  = FromTweenFunc(ease.OutBounce)
)

// DefaultEasing is used by TweenScheduler.Create when no easing is given.
var DefaultEasing = EaseInOutQuad
