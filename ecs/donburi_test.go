package ecs

import (
	"testing"

	"github.com/phanxgames/boardfx"
	"github.com/phanxgames/boardfx/termsurface"

	"github.com/yohamta/donburi"
)

type world struct {
	players []boardfx.PlayerView
}

func (w *world) Week() int                     { return 1 }
func (w *world) TimeRemaining() float64        { return 60 }
func (w *world) Players() []boardfx.PlayerView { return append([]boardfx.PlayerView(nil), w.players...) }

func TestNewBridge(t *testing.T) {
	if NewBridge(donburi.NewWorld()) == nil {
		t.Fatal("NewBridge returned nil")
	}
}

func TestBridgePublish(t *testing.T) {
	w := donburi.NewWorld()
	b := NewBridge(w)

	var changes []boardfx.Change
	var clicks []boardfx.CellEvent
	ChangeEventType.Subscribe(w, func(_ donburi.World, c boardfx.Change) {
		changes = append(changes, c)
	})
	CellClickEventType.Subscribe(w, func(_ donburi.World, ev boardfx.CellEvent) {
		clicks = append(clicks, ev)
	})

	b.PublishChange(boardfx.Change{Kind: boardfx.ChangeCash, PlayerID: "p1", Before: 10, After: 20})
	b.PublishClick(boardfx.CellEvent{Cell: boardfx.GridPos{Col: 2, Row: 3}, OnBoard: true})

	// Events are queued until processed.
	if len(changes) != 0 || len(clicks) != 0 {
		t.Fatal("events delivered before ProcessEvents")
	}
	ChangeEventType.ProcessEvents(w)
	CellClickEventType.ProcessEvents(w)

	if len(changes) != 1 || changes[0].PlayerID != "p1" || changes[0].After != 20 {
		t.Errorf("changes = %+v", changes)
	}
	if len(clicks) != 1 || clicks[0].Cell != (boardfx.GridPos{Col: 2, Row: 3}) {
		t.Errorf("clicks = %+v", clicks)
	}
}

func TestBridgeAttach(t *testing.T) {
	e, err := boardfx.NewEngine(termsurface.New(nil, 8, 16), boardfx.NewManualScheduler(), nil)
	if err != nil {
		t.Fatal(err)
	}
	e.SetBoard(boardfx.Board{Cols: 4, Rows: 4})
	in := boardfx.NewPointerInput(e.Locate)

	w := donburi.NewWorld()
	h := NewBridge(w).Attach(e, in)

	var changes []boardfx.Change
	var clicks []boardfx.CellEvent
	ChangeEventType.Subscribe(w, func(_ donburi.World, c boardfx.Change) {
		changes = append(changes, c)
	})
	CellClickEventType.Subscribe(w, func(_ donburi.World, ev boardfx.CellEvent) {
		clicks = append(clicks, ev)
	})

	gw := &world{players: []boardfx.PlayerView{{ID: "ada", Cash: 100, Pos: boardfx.GridPos{}}}}
	if err := e.OnGameStateChange(gw); err != nil {
		t.Fatal(err)
	}
	gw.players[0].Pos = boardfx.GridPos{Col: 1}
	if err := e.OnGameStateChange(gw); err != nil {
		t.Fatal(err)
	}

	c := e.Grid().CellCenter(boardfx.GridPos{Col: 1, Row: 2})
	in.InjectClick(c.X, c.Y)
	in.Update(0, 0, false)
	in.Update(0, 0, false)

	ChangeEventType.ProcessEvents(w)
	CellClickEventType.ProcessEvents(w)

	if len(changes) != 1 || changes[0].Kind != boardfx.ChangeMoved || changes[0].To != (boardfx.GridPos{Col: 1}) {
		t.Errorf("changes = %+v, want ada's move", changes)
	}
	if len(clicks) != 1 || clicks[0].Cell != (boardfx.GridPos{Col: 1, Row: 2}) {
		t.Errorf("clicks = %+v", clicks)
	}

	// Detached clicks stop flowing.
	h.Remove()
	in.InjectClick(c.X, c.Y)
	in.Update(0, 0, false)
	in.Update(0, 0, false)
	CellClickEventType.ProcessEvents(w)
	if len(clicks) != 1 {
		t.Errorf("clicks = %d after Remove", len(clicks))
	}
}

func TestBridgeAttachWithoutInput(t *testing.T) {
	e, err := boardfx.NewEngine(termsurface.New(nil, 8, 16), boardfx.NewManualScheduler(), nil)
	if err != nil {
		t.Fatal(err)
	}
	h := NewBridge(donburi.NewWorld()).Attach(e, nil)
	h.Remove()
}
