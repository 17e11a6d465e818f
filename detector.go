package boardfx

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ErrMalformedSnapshot is returned (wrapped) when a world view cannot be
// turned into a consistent snapshot.
var ErrMalformedSnapshot = errors.New("boardfx: malformed world snapshot")

// PlayerView is the read-only per-player projection of the game state.
type PlayerView struct {
	ID        string
	Name      string
	Cash      int
	Health    int
	Happiness int
	Education int
	Career    string
	Pos       GridPos
}

// World is the read-only view of externally owned game state.
type World interface {
	Week() int
	TimeRemaining() float64
	Players() []PlayerView
}

// PlayerSnapshot is the immutable per-player part of a WorldSnapshot.
type PlayerSnapshot struct {
	ID        string
	Cash      int
	Health    int
	Happiness int
	Education int
	Career    string
	Pos       GridPos
}

// WorldSnapshot is an order-preserving copy of a World taken at one instant.
type WorldSnapshot struct {
	Week          int
	TimeRemaining float64
	Players       []PlayerSnapshot
}

// Player returns the snapshot of the player with the given id.
func (ws WorldSnapshot) Player(id string) (PlayerSnapshot, bool) {
	for _, p := range ws.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSnapshot{}, false
}

// TakeSnapshot copies w into a WorldSnapshot. A nil world, an empty or
// duplicate player id, a non-finite time value, or a panic inside the view
// all yield an error wrapping ErrMalformedSnapshot.
func TakeSnapshot(w World) (snap WorldSnapshot, err error) {
	if w == nil {
		return WorldSnapshot{}, fmt.Errorf("%w: nil world", ErrMalformedSnapshot)
	}
	defer func() {
		if r := recover(); r != nil {
			snap = WorldSnapshot{}
			err = fmt.Errorf("%w: world view panicked: %v", ErrMalformedSnapshot, r)
		}
	}()

	snap.Week = w.Week()
	snap.TimeRemaining = w.TimeRemaining()
	if math.IsNaN(snap.TimeRemaining) || math.IsInf(snap.TimeRemaining, 0) {
		return WorldSnapshot{}, fmt.Errorf("%w: time remaining is %v", ErrMalformedSnapshot, snap.TimeRemaining)
	}

	players := w.Players()
	snap.Players = make([]PlayerSnapshot, 0, len(players))
	seen := make(map[string]struct{}, len(players))
	for i, p := range players {
		if p.ID == "" {
			return WorldSnapshot{}, fmt.Errorf("%w: player %d has no id", ErrMalformedSnapshot, i)
		}
		if _, dup := seen[p.ID]; dup {
			return WorldSnapshot{}, fmt.Errorf("%w: duplicate player id %q", ErrMalformedSnapshot, p.ID)
		}
		seen[p.ID] = struct{}{}
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:        p.ID,
			Cash:      p.Cash,
			Health:    p.Health,
			Happiness: p.Happiness,
			Education: p.Education,
			Career:    p.Career,
			Pos:       p.Pos,
		})
	}
	return snap, nil
}

// Stat names a sparkle-worthy player attribute.
type Stat uint8

const (
	StatHealth Stat = iota
	StatHappiness
	StatEducation
)

func (s Stat) String() string {
	switch s {
	case StatHealth:
		return "health"
	case StatHappiness:
		return "happiness"
	case StatEducation:
		return "education"
	default:
		return fmt.Sprintf("Stat(%d)", uint8(s))
	}
}

// ChangeKind identifies what a Change describes.
type ChangeKind uint8

const (
	ChangeMoved ChangeKind = iota // grid position changed
	ChangeCash                    // cash changed
	ChangeStat                    // health, happiness or education changed
)

// Change is one difference between two consecutive snapshots.
type Change struct {
	Kind     ChangeKind
	PlayerID string
	// From and To are the old and new grid positions. For cash and stat
	// changes both hold the player's current position.
	From, To GridPos
	Stat     Stat
	// Before and After hold the old and new cash or stat values.
	Before, After int
}

// Delta returns After - Before.
func (c Change) Delta() int {
	return c.After - c.Before
}

// Diff compares two snapshots field by field. Players are matched by id;
// players missing from either side produce no changes. For each player the
// order is move, cash, then health, happiness, education.
func Diff(prev, cur WorldSnapshot) []Change {
	var changes []Change
	for _, p := range cur.Players {
		old, ok := prev.Player(p.ID)
		if !ok {
			continue
		}
		if old.Pos != p.Pos {
			changes = append(changes, Change{Kind: ChangeMoved, PlayerID: p.ID, From: old.Pos, To: p.Pos})
		}
		if old.Cash != p.Cash {
			changes = append(changes, Change{Kind: ChangeCash, PlayerID: p.ID, From: p.Pos, To: p.Pos, Before: old.Cash, After: p.Cash})
		}
		stats := [...]struct {
			stat          Stat
			before, after int
		}{
			{StatHealth, old.Health, p.Health},
			{StatHappiness, old.Happiness, p.Happiness},
			{StatEducation, old.Education, p.Education},
		}
		for _, st := range stats {
			if st.before != st.after {
				changes = append(changes, Change{Kind: ChangeStat, PlayerID: p.ID, From: p.Pos, To: p.Pos, Stat: st.stat, Before: st.before, After: st.after})
			}
		}
	}
	return changes
}

// ChangeHandler receives the effect requests a ChangeDetector synthesizes.
type ChangeHandler interface {
	PlayerMoved(id string, from, to GridPos)
	CashChanged(id string, at GridPos, before, after int)
	StatChanged(id string, at GridPos, stat Stat, delta int)
}

// ChangeDetector diffs successive world snapshots and turns the differences
// into effect requests.
type ChangeDetector struct {
	handler   ChangeHandler
	listeners []func(Change)
	log       *zap.Logger
	prev      *WorldSnapshot
}

// NewChangeDetector creates a detector that reports to h. A nil logger
// discards log output.
func NewChangeDetector(h ChangeHandler, log *zap.Logger) *ChangeDetector {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChangeDetector{handler: h, log: log}
}

// OnChange registers fn to receive every dispatched change, after the
// handler has seen it.
func (d *ChangeDetector) OnChange(fn func(Change)) {
	d.listeners = append(d.listeners, fn)
}

// Previous returns the last accepted snapshot.
func (d *ChangeDetector) Previous() (WorldSnapshot, bool) {
	if d.prev == nil {
		return WorldSnapshot{}, false
	}
	return *d.prev, true
}

// Reset forgets the previous snapshot. The next Observe only records.
func (d *ChangeDetector) Reset() {
	d.prev = nil
}

// Observe snapshots w and, when a previous snapshot exists, dispatches every
// change to the handler. A malformed snapshot is logged and returned, and the
// previous snapshot is kept so the next good one diffs against it. A panic in
// the handler is logged and returned; the new snapshot is still accepted.
func (d *ChangeDetector) Observe(w World) error {
	cur, err := TakeSnapshot(w)
	if err != nil {
		d.log.Warn("change detection skipped", zap.Error(err))
		return err
	}
	prev := d.prev
	d.prev = &cur
	if prev == nil || (d.handler == nil && len(d.listeners) == 0) {
		return nil
	}

	changes := Diff(*prev, cur)
	if len(changes) > 0 {
		d.log.Debug("world changed",
			zap.Int("week", cur.Week),
			zap.Int("changes", len(changes)))
	}
	return d.dispatch(changes)
}

// dispatch delivers each change on its own, so a panic in one handler or
// listener call drops only that call. The first panic is returned.
func (d *ChangeDetector) dispatch(changes []Change) error {
	var first error
	for _, c := range changes {
		if err := d.deliver(c, func() { d.notify(c) }); err != nil && first == nil {
			first = err
		}
		for _, fn := range d.listeners {
			if err := d.deliver(c, func() { fn(c) }); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (d *ChangeDetector) deliver(c Change, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("boardfx: change handler panicked: %v", r)
			d.log.Error("change dispatch failed",
				zap.String("player", c.PlayerID),
				zap.Uint8("kind", uint8(c.Kind)),
				zap.Error(err))
		}
	}()
	fn()
	return nil
}

func (d *ChangeDetector) notify(c Change) {
	if d.handler == nil {
		return
	}
	switch c.Kind {
	case ChangeMoved:
		d.handler.PlayerMoved(c.PlayerID, c.From, c.To)
	case ChangeCash:
		d.handler.CashChanged(c.PlayerID, c.To, c.Before, c.After)
	case ChangeStat:
		d.handler.StatChanged(c.PlayerID, c.To, c.Stat, c.Delta())
	}
}
