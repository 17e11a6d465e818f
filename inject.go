package boardfx

// syntheticPointerEvent is a single injected pointer sample in surface
// coordinates, processed exactly like real pointer input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a pointer press at (x, y). The event is consumed by the
// next Update.
func (in *PointerInput) InjectPress(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move at (x, y) with the button held down. Use
// it between InjectPress and InjectRelease to simulate a drag.
func (in *PointerInput) InjectMove(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a pointer release at (x, y).
func (in *PointerInput) InjectRelease(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (in *PointerInput) InjectClick(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// frames frames; the minimum is 2.
func (in *PointerInput) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	in.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	in.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (in *PointerInput) Pending() int {
	return len(in.injectQueue)
}

// processInjectedInput pops one synthetic event and processes it. It reports
// whether an event was consumed.
func (in *PointerInput) processInjectedInput() bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	in.processPointer(evt.x, evt.y, evt.pressed)
	return true
}
