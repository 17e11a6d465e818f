package boardfx

// tween is a point-to-point interpolation owned by a TweenScheduler.
type tween struct {
	from, to   Vec2
	duration   float64
	elapsed    float64
	easing     Easing
	point      Vec2
	onUpdate   func(Vec2)
	onComplete func()
	done       bool
}

// TweenScheduler advances point-to-point interpolations keyed by id. Callers
// drive it with Advance once per frame; there is no global manager.
type TweenScheduler struct {
	tweens map[string]*tween
	order  []string // creation order, for deterministic advancement
}

// NewTweenScheduler creates an empty scheduler.
func NewTweenScheduler() *TweenScheduler {
	return &TweenScheduler{tweens: make(map[string]*tween)}
}

// Create registers a tween from one point to another over duration
// milliseconds. Reusing an id replaces the previous tween and drops its
// callbacks. A nil easing selects DefaultEasing. Creation performs no
// advancement: a duration of zero or less completes on the next Advance.
func (s *TweenScheduler) Create(id string, from, to Vec2, duration float64, easing Easing, onUpdate func(Vec2), onComplete func()) {
	if easing == nil {
		easing = DefaultEasing
	}
	if old, ok := s.tweens[id]; ok {
		// Mark the replaced tween so an in-progress Advance pass skips it.
		old.done = true
	} else {
		s.order = append(s.order, id)
	}
	s.tweens[id] = &tween{
		from:       from,
		to:         to,
		duration:   duration,
		easing:     easing,
		point:      from,
		onUpdate:   onUpdate,
		onComplete: onComplete,
	}
}

// Cancel removes the tween with the given id. Unknown ids are ignored.
func (s *TweenScheduler) Cancel(id string) {
	tw, ok := s.tweens[id]
	if !ok {
		return
	}
	tw.done = true
	delete(s.tweens, id)
	s.removeOrder(id)
}

// IsTweening reports whether a tween with the given id is live.
func (s *TweenScheduler) IsTweening(id string) bool {
	_, ok := s.tweens[id]
	return ok
}

// Count returns the number of live tweens.
func (s *TweenScheduler) Count() int {
	return len(s.tweens)
}

// Point returns the most recently interpolated point of a live tween. Before
// the first Advance this is the start point.
func (s *TweenScheduler) Point(id string) (Vec2, bool) {
	tw, ok := s.tweens[id]
	if !ok {
		return Vec2{}, false
	}
	return tw.point, true
}

// Target returns the end point of a live tween.
func (s *TweenScheduler) Target(id string) (Vec2, bool) {
	tw, ok := s.tweens[id]
	if !ok {
		return Vec2{}, false
	}
	return tw.to, true
}

// Progress returns the linear (un-eased) progress of a live tween in [0, 1].
func (s *TweenScheduler) Progress(id string) (float64, bool) {
	tw, ok := s.tweens[id]
	if !ok {
		return 0, false
	}
	return tw.progress(), true
}

func (tw *tween) progress() float64 {
	if tw.duration <= 0 {
		return 1
	}
	return clamp01(tw.elapsed / tw.duration)
}

// Advance moves every live tween forward by dt milliseconds. Each tween's
// onUpdate fires with the interpolated point, including on the final tick;
// onComplete fires exactly once when progress reaches 1. Finished tweens are
// removed when the pass ends, even if a callback panics.
func (s *TweenScheduler) Advance(dt float64) {
	if len(s.order) == 0 {
		return
	}
	// Snapshot the live tweens so callbacks that create, replace or cancel
	// tweens do not disturb this pass. Tweens created during the pass start
	// on the next tick; cancelled or replaced ones are marked done.
	live := make([]*tween, len(s.order))
	for i, id := range s.order {
		live[i] = s.tweens[id]
	}
	ids := append([]string(nil), s.order...)

	var finished []int
	defer func() {
		for _, i := range finished {
			id := ids[i]
			if s.tweens[id] == live[i] {
				delete(s.tweens, id)
				s.removeOrder(id)
			}
		}
	}()
	for i, tw := range live {
		if tw.done {
			continue
		}
		tw.elapsed += dt
		p := tw.progress()
		e := tw.easing(p)
		if p >= 1 {
			e = 1
			finished = append(finished, i)
		}
		tw.point = Vec2{lerp(tw.from.X, tw.to.X, e), lerp(tw.from.Y, tw.to.Y, e)}
		if tw.onUpdate != nil {
			tw.onUpdate(tw.point)
		}
		if p >= 1 && !tw.done {
			tw.done = true
			if tw.onComplete != nil {
				tw.onComplete()
			}
		}
	}
}

func (s *TweenScheduler) removeOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
