package ecs

import (
	"github.com/phanxgames/boardfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChangeEventType is the Donburi event type for board changes: moves, cash
// and stat changes found by the engine's change detector.
var ChangeEventType = events.NewEventType[boardfx.Change]()

// CellClickEventType is the Donburi event type for clicks on board cells.
var CellClickEventType = events.NewEventType[boardfx.CellEvent]()

// Bridge publishes boardfx events into a Donburi world. Events are queued
// and delivered when the world's systems call ProcessEvents.
type Bridge struct {
	world donburi.World
}

// NewBridge creates a bridge publishing into world.
func NewBridge(world donburi.World) *Bridge {
	return &Bridge{world: world}
}

// PublishChange queues a board change.
func (b *Bridge) PublishChange(c boardfx.Change) {
	ChangeEventType.Publish(b.world, c)
}

// PublishClick queues a cell click.
func (b *Bridge) PublishClick(ev boardfx.CellEvent) {
	CellClickEventType.Publish(b.world, ev)
}

// Attach forwards every change the engine detects and, when in is non-nil,
// every cell click. Remove the returned handle to stop forwarding clicks.
func (b *Bridge) Attach(e *boardfx.Engine, in *boardfx.PointerInput) boardfx.CallbackHandle {
	e.Detector().OnChange(b.PublishChange)
	if in == nil {
		return boardfx.CallbackHandle{}
	}
	return in.OnCellClick(b.PublishClick)
}
