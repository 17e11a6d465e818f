package boardfx

import "math"

const defaultDragDeadZone = 4.0 // pixels

// CellEvent describes a pointer interaction with the board.
type CellEvent struct {
	// X and Y are surface coordinates.
	X, Y float64
	Cell GridPos
	// OnBoard is false when the pointer is outside the board's rows and
	// columns. Cell still holds the grid cell under the pointer.
	OnBoard bool
}

// Locator maps a surface point to the board cell under it.
type Locator func(x, y float64) CellEvent

// Locate returns the CellEvent for a surface point on the engine's grid and
// board.
func (e *Engine) Locate(x, y float64) CellEvent {
	ev := CellEvent{X: x, Y: y}
	cell, ok := e.cfg.Grid.CellAt(x, y)
	if !ok {
		return ev
	}
	ev.Cell = cell
	ev.OnBoard = cell.Col >= 0 && cell.Row >= 0 && cell.Col < e.board.Cols && cell.Row < e.board.Rows
	return ev
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	pressed  CellEvent
	dragging bool
	hover    CellEvent
	hovering bool
}

// --- Handler registry ---

type cellHandler struct {
	id uint32
	fn func(CellEvent)
}

type handlerRegistry struct {
	nextID uint32
	click  []cellHandler
	hover  []cellHandler
}

// CallbackHandle allows removing a registered input callback.
type CallbackHandle struct {
	id   uint32
	list *[]cellHandler
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.list == nil {
		return
	}
	s := *h.list
	for i := range s {
		if s[i].id == h.id {
			*h.list = append(s[:i], s[i+1:]...)
			return
		}
	}
}

func (r *handlerRegistry) add(list *[]cellHandler, fn func(CellEvent)) CallbackHandle {
	r.nextID++
	*list = append(*list, cellHandler{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, list: list}
}

func fire(handlers []cellHandler, ev CellEvent) {
	// Copy so handlers can remove themselves.
	for _, h := range append([]cellHandler(nil), handlers...) {
		h.fn(ev)
	}
}

// PointerInput turns raw pointer samples into cell clicks and hovers. Hosts
// feed it once per frame with Update; synthetic events queued with the
// Inject methods take precedence over the real pointer.
type PointerInput struct {
	locate Locator
	// DragDeadZone is the distance in pixels a pressed pointer may move
	// before the press becomes a drag and no longer clicks.
	DragDeadZone float64

	ptr         pointerState
	handlers    handlerRegistry
	injectQueue []syntheticPointerEvent
}

// NewPointerInput creates an input tracker that resolves cells with locate.
// A nil locate reports every point as off the board.
func NewPointerInput(locate Locator) *PointerInput {
	return &PointerInput{locate: locate, DragDeadZone: defaultDragDeadZone}
}

// SetLocator replaces the cell resolver.
func (in *PointerInput) SetLocator(locate Locator) {
	in.locate = locate
}

// OnCellClick registers fn for clicks: a press and release over the same
// board cell without dragging.
func (in *PointerInput) OnCellClick(fn func(CellEvent)) CallbackHandle {
	return in.handlers.add(&in.handlers.click, fn)
}

// OnCellHover registers fn for hover changes. It fires when the pointer
// enters a different cell, including moving off the board.
func (in *PointerInput) OnCellHover(fn func(CellEvent)) CallbackHandle {
	return in.handlers.add(&in.handlers.hover, fn)
}

// Hover returns the cell under the pointer, if it has been seen.
func (in *PointerInput) Hover() (CellEvent, bool) {
	return in.ptr.hover, in.ptr.hovering
}

// Update feeds one pointer sample. When synthetic events are queued, one of
// them is consumed instead and the real sample is ignored.
func (in *PointerInput) Update(x, y float64, pressed bool) {
	if in.processInjectedInput() {
		return
	}
	in.processPointer(x, y, pressed)
}

func (in *PointerInput) cellAt(x, y float64) CellEvent {
	if in.locate == nil {
		return CellEvent{X: x, Y: y}
	}
	return in.locate(x, y)
}

func (in *PointerInput) processPointer(x, y float64, pressed bool) {
	ps := &in.ptr
	target := in.cellAt(x, y)

	if !ps.hovering || target.Cell != ps.hover.Cell || target.OnBoard != ps.hover.OnBoard {
		ps.hover = target
		ps.hovering = true
		fire(in.handlers.hover, target)
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.pressed = target
		ps.dragging = false
	case !pressed && ps.down:
		if !ps.dragging && target.OnBoard && ps.pressed.OnBoard && target.Cell == ps.pressed.Cell {
			fire(in.handlers.click, target)
		}
		ps.down = false
		ps.dragging = false
	case pressed && ps.down:
		if !ps.dragging && math.Hypot(x-ps.startX, y-ps.startY) > in.DragDeadZone {
			ps.dragging = true
		}
		ps.lastX, ps.lastY = x, y
	}
}
