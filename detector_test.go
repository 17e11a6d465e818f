package boardfx

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeWorld is a mutable World for tests.
type fakeWorld struct {
	week    int
	time    float64
	players []PlayerView
	panics  bool
}

func (w *fakeWorld) Week() int              { return w.week }
func (w *fakeWorld) TimeRemaining() float64 { return w.time }
func (w *fakeWorld) Players() []PlayerView {
	if w.panics {
		panic("players unavailable")
	}
	return append([]PlayerView(nil), w.players...)
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		week: 1,
		time: 60,
		players: []PlayerView{
			{ID: "p1", Name: "Ada", Cash: 1000, Health: 50, Happiness: 50, Education: 10, Pos: GridPos{1, 1}},
			{ID: "p2", Name: "Bo", Cash: 500, Health: 40, Happiness: 40, Education: 5, Pos: GridPos{2, 2}},
		},
	}
}

// recordHandler collects dispatched changes in order.
type recordHandler struct {
	moves []Change
	cash  []Change
	stats []Change
	order []ChangeKind
	panic bool
}

func (h *recordHandler) PlayerMoved(id string, from, to GridPos) {
	if h.panic {
		panic("boom")
	}
	h.moves = append(h.moves, Change{Kind: ChangeMoved, PlayerID: id, From: from, To: to})
	h.order = append(h.order, ChangeMoved)
}

func (h *recordHandler) CashChanged(id string, at GridPos, before, after int) {
	h.cash = append(h.cash, Change{Kind: ChangeCash, PlayerID: id, To: at, Before: before, After: after})
	h.order = append(h.order, ChangeCash)
}

func (h *recordHandler) StatChanged(id string, at GridPos, stat Stat, delta int) {
	h.stats = append(h.stats, Change{Kind: ChangeStat, PlayerID: id, To: at, Stat: stat, After: delta})
	h.order = append(h.order, ChangeStat)
}

func TestDetectorCashOnly(t *testing.T) {
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)

	if err := d.Observe(w); err != nil {
		t.Fatal(err)
	}
	w.players[0].Cash = 900
	if err := d.Observe(w); err != nil {
		t.Fatal(err)
	}

	if len(h.cash) != 1 || len(h.moves) != 0 || len(h.stats) != 0 {
		t.Fatalf("moves=%d cash=%d stats=%d, want 0/1/0", len(h.moves), len(h.cash), len(h.stats))
	}
	c := h.cash[0]
	if c.PlayerID != "p1" || c.Before != 1000 || c.After != 900 || c.To != (GridPos{1, 1}) {
		t.Errorf("cash change = %+v", c)
	}
}

func TestDetectorFirstObserveOnlyRecords(t *testing.T) {
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)
	if _, ok := d.Previous(); ok {
		t.Fatal("Previous before any Observe")
	}
	if err := d.Observe(newFakeWorld()); err != nil {
		t.Fatal(err)
	}
	if len(h.order) != 0 {
		t.Errorf("first Observe dispatched %v", h.order)
	}
	if prev, ok := d.Previous(); !ok || len(prev.Players) != 2 {
		t.Errorf("Previous = %+v, %v", prev, ok)
	}
}

func TestDetectorOrderPerPlayer(t *testing.T) {
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)
	_ = d.Observe(w)

	w.players[0].Education += 2
	w.players[0].Health -= 5
	w.players[0].Cash += 10
	w.players[0].Pos = GridPos{4, 4}
	_ = d.Observe(w)

	want := []ChangeKind{ChangeMoved, ChangeCash, ChangeStat, ChangeStat}
	if len(h.order) != len(want) {
		t.Fatalf("order = %v, want %v", h.order, want)
	}
	for i := range want {
		if h.order[i] != want[i] {
			t.Fatalf("order = %v, want %v", h.order, want)
		}
	}
	if h.stats[0].Stat != StatHealth || h.stats[0].After != -5 {
		t.Errorf("first stat = %+v, want health -5", h.stats[0])
	}
	if h.stats[1].Stat != StatEducation || h.stats[1].After != 2 {
		t.Errorf("second stat = %+v, want education +2", h.stats[1])
	}
	// Cash and stat changes are reported at the new position.
	if h.cash[0].To != (GridPos{4, 4}) {
		t.Errorf("cash at %v, want new position", h.cash[0].To)
	}
}

func TestDetectorIgnoresNewAndRemovedPlayers(t *testing.T) {
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)
	_ = d.Observe(w)

	w.players = append(w.players[1:], PlayerView{ID: "p3", Cash: 1, Pos: GridPos{9, 9}})
	_ = d.Observe(w)
	if len(h.order) != 0 {
		t.Errorf("dispatched %v for join/leave", h.order)
	}
}

func TestDetectorMalformedKeepsPrevious(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, zap.New(core))
	_ = d.Observe(w)

	bad := newFakeWorld()
	bad.players[1].ID = "p1"
	err := d.Observe(bad)
	if !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("err = %v, want ErrMalformedSnapshot", err)
	}
	if logs.FilterMessage("change detection skipped").Len() != 1 {
		t.Errorf("malformed snapshot not logged: %v", logs.All())
	}

	// The next good snapshot diffs against the last good one.
	w.players[1].Cash = 400
	if err := d.Observe(w); err != nil {
		t.Fatal(err)
	}
	if len(h.cash) != 1 || h.cash[0].Before != 500 {
		t.Errorf("cash = %+v", h.cash)
	}
}

func TestTakeSnapshotErrors(t *testing.T) {
	tests := []struct {
		name  string
		world World
	}{
		{"nil world", nil},
		{"NaN time", &fakeWorld{time: math.NaN()}},
		{"infinite time", &fakeWorld{time: math.Inf(1)}},
		{"empty id", &fakeWorld{players: []PlayerView{{ID: ""}}}},
		{"duplicate id", &fakeWorld{players: []PlayerView{{ID: "a"}, {ID: "a"}}}},
		{"panicking view", &fakeWorld{panics: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TakeSnapshot(tt.world); !errors.Is(err, ErrMalformedSnapshot) {
				t.Errorf("err = %v, want ErrMalformedSnapshot", err)
			}
		})
	}
}

func TestTakeSnapshotCopies(t *testing.T) {
	w := newFakeWorld()
	snap, err := TakeSnapshot(w)
	if err != nil {
		t.Fatal(err)
	}
	w.players[0].Cash = 0
	if p, _ := snap.Player("p1"); p.Cash != 1000 {
		t.Errorf("snapshot aliased world state: cash = %d", p.Cash)
	}
	if snap.Week != 1 || snap.TimeRemaining != 60 {
		t.Errorf("snap = %+v", snap)
	}
}

func TestDetectorHandlerPanicRecovered(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	w := newFakeWorld()
	h := &recordHandler{panic: true}
	d := NewChangeDetector(h, zap.New(core))
	_ = d.Observe(w)

	w.players[0].Pos = GridPos{3, 3}
	if err := d.Observe(w); err == nil {
		t.Fatal("expected handler panic to surface as an error")
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
	// The panicking snapshot was still accepted.
	if prev, _ := d.Previous(); prev.Players[0].Pos != (GridPos{3, 3}) {
		t.Errorf("previous pos = %v, want {3 3}", prev.Players[0].Pos)
	}

	h.panic = false
	if err := d.Observe(w); err != nil || len(h.order) != 0 {
		t.Errorf("unchanged world dispatched %v (err %v)", h.order, err)
	}
}

func TestDetectorPanicDropsOnlyThatChange(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	w := newFakeWorld()
	h := &recordHandler{panic: true}
	d := NewChangeDetector(h, zap.New(core))
	var seen []ChangeKind
	d.OnChange(func(c Change) { seen = append(seen, c.Kind) })
	_ = d.Observe(w)

	w.players[0].Pos = GridPos{3, 3}
	w.players[0].Cash = 1200
	w.players[1].Health = 45
	if err := d.Observe(w); err == nil {
		t.Fatal("expected handler panic to surface as an error")
	}
	if len(h.cash) != 1 || h.cash[0].After != 1200 {
		t.Errorf("cash after panicking move = %+v", h.cash)
	}
	if len(h.stats) != 1 || h.stats[0].PlayerID != "p2" {
		t.Errorf("stats after panicking move = %+v", h.stats)
	}
	want := []ChangeKind{ChangeMoved, ChangeCash, ChangeStat}
	if len(seen) != len(want) {
		t.Fatalf("listener saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("listener[%d] = %v, want %v", i, seen[i], want[i])
		}
	}
	if logs.Len() != 1 {
		t.Errorf("logged %d entries, want 1", logs.Len())
	}
}

func TestDetectorReset(t *testing.T) {
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)
	_ = d.Observe(w)
	d.Reset()
	w.players[0].Cash = 1
	_ = d.Observe(w)
	if len(h.order) != 0 {
		t.Errorf("Observe after Reset dispatched %v", h.order)
	}
}

func TestDiffNoChanges(t *testing.T) {
	snap, _ := TakeSnapshot(newFakeWorld())
	if got := Diff(snap, snap); len(got) != 0 {
		t.Errorf("Diff of identical snapshots = %v", got)
	}
	if got := Diff(WorldSnapshot{}, snap); len(got) != 0 {
		t.Errorf("Diff from empty = %v", got)
	}
}

func TestChangeDelta(t *testing.T) {
	if d := (Change{Before: 1000, After: 900}).Delta(); d != -100 {
		t.Errorf("Delta = %d, want -100", d)
	}
	if StatHappiness.String() != "happiness" {
		t.Error("Stat name mismatch")
	}
}

func TestDetectorOnChangeListeners(t *testing.T) {
	w := newFakeWorld()
	h := &recordHandler{}
	d := NewChangeDetector(h, nil)
	var seen []Change
	d.OnChange(func(c Change) {
		// The handler has already been told about this change.
		if len(h.order) == 0 {
			t.Error("listener ran before the handler")
		}
		seen = append(seen, c)
	})

	_ = d.Observe(w)
	w.players[1].Pos = GridPos{3, 2}
	w.players[1].Cash = 700
	if err := d.Observe(w); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0].Kind != ChangeMoved || seen[1].Kind != ChangeCash {
		t.Fatalf("seen = %+v, want a move then a cash change", seen)
	}
	if seen[1].Before != 500 || seen[1].After != 700 || seen[1].PlayerID != "p2" {
		t.Errorf("cash change = %+v", seen[1])
	}
}

func TestDetectorListenerWithoutHandler(t *testing.T) {
	w := newFakeWorld()
	d := NewChangeDetector(nil, nil)
	var n int
	d.OnChange(func(Change) { n++ })

	_ = d.Observe(w)
	w.players[0].Health = 60
	if err := d.Observe(w); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("listener calls = %d, want 1", n)
	}
}
