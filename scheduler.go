package boardfx

// FrameHandle identifies a pending frame request.
type FrameHandle uint64

// FrameScheduler is the host's display-refresh scheduler. RequestFrame
// registers a one-shot callback for the next frame; the callback receives
// the frame timestamp in milliseconds. Now returns the current timestamp on
// the same clock.
type FrameScheduler interface {
	Now() float64
	RequestFrame(fn func(ts float64)) FrameHandle
	CancelFrame(h FrameHandle)
}

type frameRequest struct {
	handle FrameHandle
	fn     func(ts float64)
}

// ManualScheduler is a FrameScheduler driven explicitly by Step. It is used
// by headless hosts and tests, and embedded by EbitenHost.
type ManualScheduler struct {
	now     float64
	next    FrameHandle
	pending []frameRequest
	firing  []frameRequest
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Now returns the timestamp of the most recent Step, or the value set with
// SetNow.
func (m *ManualScheduler) Now() float64 {
	return m.now
}

// SetNow moves the clock without firing callbacks.
func (m *ManualScheduler) SetNow(ts float64) {
	m.now = ts
}

// RequestFrame queues fn for the next Step.
func (m *ManualScheduler) RequestFrame(fn func(ts float64)) FrameHandle {
	m.next++
	m.pending = append(m.pending, frameRequest{handle: m.next, fn: fn})
	return m.next
}

// CancelFrame drops a pending request. Unknown or already fired handles are
// ignored.
func (m *ManualScheduler) CancelFrame(h FrameHandle) {
	for i, r := range m.pending {
		if r.handle == h {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
	// Cancelled by an earlier callback in the batch currently firing.
	for i := range m.firing {
		if m.firing[i].handle == h {
			m.firing[i].fn = nil
			return
		}
	}
}

// Pending returns the number of queued frame requests.
func (m *ManualScheduler) Pending() int {
	return len(m.pending)
}

// Step sets the clock to ts and fires every request queued before the call.
// Requests made by the callbacks wait for the next Step. It returns the
// number of callbacks fired.
func (m *ManualScheduler) Step(ts float64) int {
	m.now = ts
	m.firing = m.pending
	m.pending = nil
	fired := 0
	for i := range m.firing {
		fn := m.firing[i].fn
		if fn == nil {
			continue
		}
		m.firing[i].fn = nil
		fn(ts)
		fired++
	}
	m.firing = nil
	return fired
}

// Advance steps the clock forward by dt milliseconds.
func (m *ManualScheduler) Advance(dt float64) int {
	return m.Step(m.now + dt)
}
