package boardfx

import "sort"

// Frame is one step of a sprite animation.
type Frame struct {
	// SpriteID is resolved through a SpriteSource at render time.
	SpriteID string
	// Duration is how long the frame is shown, in milliseconds.
	Duration float64
	// OffsetX and OffsetY shift the sprite relative to its anchor.
	OffsetX, OffsetY float64
	// Scale multiplies the sprite size. Zero means 1.
	Scale float64
	// Opacity multiplies the sprite alpha. Zero means 1.
	Opacity float64
	// Rotation in radians.
	Rotation float64
}

// EffectiveScale returns Scale, or 1 when unset.
func (f Frame) EffectiveScale() float64 {
	if f.Scale == 0 {
		return 1
	}
	return f.Scale
}

// EffectiveOpacity returns Opacity, or 1 when unset.
func (f Frame) EffectiveOpacity() float64 {
	if f.Opacity == 0 {
		return 1
	}
	return f.Opacity
}

// Animation is a named sequence of frames.
type Animation struct {
	ID     string
	Frames []Frame
	Loop   bool
	// OnComplete fires once when a non-looping animation runs past its last
	// frame. The animation is removed from the player afterwards.
	OnComplete func()
}

// AnimationState is the playback state kept alongside each Animation.
type AnimationState struct {
	Frame   int
	Elapsed float64 // milliseconds spent in the current frame
	Playing bool
}

type animEntry struct {
	anim    Animation
	state   AnimationState
	removed bool
}

// AnimationPlayer advances frame indices of named sprite animations.
//
// A single Advance moves an animation forward by at most one frame, however
// large dt is. Long frame hitches therefore under-advance; callers that need
// catch-up should advance in smaller steps.
type AnimationPlayer struct {
	entries map[string]*animEntry
}

// NewAnimationPlayer creates an empty player.
func NewAnimationPlayer() *AnimationPlayer {
	return &AnimationPlayer{entries: make(map[string]*animEntry)}
}

// Add registers an animation, replacing any animation with the same ID, and
// starts it from frame 0.
func (p *AnimationPlayer) Add(anim Animation) {
	if old, ok := p.entries[anim.ID]; ok {
		old.removed = true
	}
	anim.Frames = append([]Frame(nil), anim.Frames...)
	p.entries[anim.ID] = &animEntry{
		anim:  anim,
		state: AnimationState{Playing: true},
	}
}

// Remove deletes an animation and its state. Unknown ids are ignored.
func (p *AnimationPlayer) Remove(id string) {
	if e, ok := p.entries[id]; ok {
		e.removed = true
		delete(p.entries, id)
	}
}

// Pause stops advancing an animation without resetting it.
func (p *AnimationPlayer) Pause(id string) {
	if e, ok := p.entries[id]; ok {
		e.state.Playing = false
	}
}

// Resume continues a paused animation.
func (p *AnimationPlayer) Resume(id string) {
	if e, ok := p.entries[id]; ok {
		e.state.Playing = true
	}
}

// Has reports whether an animation with the given id is registered.
func (p *AnimationPlayer) Has(id string) bool {
	_, ok := p.entries[id]
	return ok
}

// Count returns the number of registered animations.
func (p *AnimationPlayer) Count() int {
	return len(p.entries)
}

// IDs returns the registered animation ids in sorted order.
func (p *AnimationPlayer) IDs() []string {
	ids := make([]string, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// State returns a copy of an animation's playback state.
func (p *AnimationPlayer) State(id string) (AnimationState, bool) {
	e, ok := p.entries[id]
	if !ok {
		return AnimationState{}, false
	}
	return e.state, true
}

// CurrentFrame returns the frame currently shown by an animation. It reports
// false for unknown ids and for animations with no frames.
func (p *AnimationPlayer) CurrentFrame(id string) (Frame, bool) {
	e, ok := p.entries[id]
	if !ok || len(e.anim.Frames) == 0 {
		return Frame{}, false
	}
	return e.anim.Frames[e.state.Frame], true
}

// Advance moves every playing animation forward by dt milliseconds.
// Non-looping animations that run past their last frame stop, fire
// OnComplete once, and are removed at the end of the pass, even if a
// callback panics.
func (p *AnimationPlayer) Advance(dt float64) {
	if len(p.entries) == 0 {
		return
	}
	ids := p.IDs()
	entries := make([]*animEntry, len(ids))
	for i, id := range ids {
		entries[i] = p.entries[id]
	}

	var completed []int
	defer func() {
		for _, i := range completed {
			e := entries[i]
			if p.entries[ids[i]] == e {
				e.removed = true
				delete(p.entries, ids[i])
			}
		}
	}()
	for i, e := range entries {
		if e.removed || !e.state.Playing || len(e.anim.Frames) == 0 {
			continue
		}
		e.state.Elapsed += dt
		if e.state.Elapsed < e.anim.Frames[e.state.Frame].Duration {
			continue
		}
		e.state.Elapsed = 0
		e.state.Frame++
		if e.state.Frame < len(e.anim.Frames) {
			continue
		}
		if e.anim.Loop {
			e.state.Frame = 0
			continue
		}
		// Keep the index valid while the entry is still reachable.
		e.state.Frame = len(e.anim.Frames) - 1
		e.state.Playing = false
		completed = append(completed, i)
	}

	for _, i := range completed {
		e := entries[i]
		if e.removed {
			continue
		}
		if e.anim.OnComplete != nil {
			e.anim.OnComplete()
		}
	}
}
