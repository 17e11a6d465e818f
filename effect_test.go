package boardfx

import (
	"strings"
	"testing"
)

func TestEffectDurationBoundary(t *testing.T) {
	tests := []struct {
		name     string
		create   func(es *EffectSystem) string
		duration float64
	}{
		{"sparkle", func(es *EffectSystem) string { return es.CreateSparkle(0, 0, Color{}) }, DefaultSparkleDuration},
		{"pulse", func(es *EffectSystem) string { return es.CreatePulse(0, 0, Color{}) }, DefaultPulseDuration},
		{"glow", func(es *EffectSystem) string { return es.CreateGlow(0, 0, Color{}) }, DefaultGlowDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := NewEffectSystem(EffectConfig{})
			tt.create(es)

			es.Advance(tt.duration - 1)
			if es.Count() != 1 {
				t.Fatalf("removed at duration-1")
			}
			es.Advance(1)
			if es.Count() != 0 {
				t.Errorf("still present at duration")
			}
		})
	}
}

func TestEffectDefaultsAndIDs(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	a := es.CreateSparkle(1, 2, Color{})
	b := es.CreateSparkle(1, 2, ColorRed)
	if a == b {
		t.Errorf("ids collide: %q", a)
	}
	if !strings.HasPrefix(a, "sparkle-") {
		t.Errorf("id = %q, want sparkle- prefix", a)
	}
	fx := es.Effects()
	if fx[0].Color != ColorGold || fx[1].Color != ColorRed {
		t.Errorf("colors = %v, %v", fx[0].Color, fx[1].Color)
	}
	if fx[0].Size != es.Config().Size {
		t.Errorf("size = %v, want config default", fx[0].Size)
	}
}

func TestEffectConfigOverrides(t *testing.T) {
	es := NewEffectSystem(EffectConfig{SparkleDuration: 50})
	es.CreateSparkle(0, 0, Color{})
	es.Advance(50)
	if es.Count() != 0 {
		t.Error("configured sparkle duration ignored")
	}
	if es.Config().PulseDuration != DefaultPulseDuration {
		t.Errorf("PulseDuration = %v, want default", es.Config().PulseDuration)
	}
}

func TestEffectRemove(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	id := es.CreateGlow(0, 0, Color{})
	es.CreatePulse(0, 0, Color{})
	es.Remove(id)
	es.Remove(id)
	es.Remove("nope")
	if es.Count() != 1 || es.Effects()[0].Kind != EffectPulse {
		t.Errorf("effects = %+v", es.Effects())
	}
}

func TestHighlightsPersist(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	cell := GridPos{2, 3}
	es.SetHighlight(cell, Highlight{})
	es.Advance(1e9)

	h, ok := es.Highlight(cell)
	if !ok {
		t.Fatal("highlight expired with time")
	}
	if h.Color != ColorYellow || h.StrokeWidth != 2 || h.Opacity != 1 {
		t.Errorf("defaults = %+v", h)
	}

	es.SetHighlight(cell, Highlight{Color: ColorRed})
	if es.HighlightCount() != 1 {
		t.Errorf("HighlightCount = %d, want 1", es.HighlightCount())
	}
	es.RemoveHighlight(cell)
	es.RemoveHighlight(cell)
	if _, ok := es.Highlight(cell); ok {
		t.Error("highlight still present")
	}

	es.SetHighlight(GridPos{0, 0}, Highlight{})
	es.SetHighlight(GridPos{1, 0}, Highlight{})
	es.ClearHighlights()
	if es.HighlightCount() != 0 {
		t.Error("ClearHighlights left highlights")
	}
}

func TestEffectDrawFadesOut(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	es.CreateGlow(10, 20, Color{})
	es.Advance(DefaultGlowDuration / 2)

	s := newRecordSurface(100, 100)
	es.Draw(s, Grid{CellSize: 10}, 0)

	circles := s.ops("fillCircle")
	if len(circles) != 1 {
		t.Fatalf("fillCircle calls = %d, want 1", len(circles))
	}
	c := circles[0]
	if c.x != 10 || c.y != 20 {
		t.Errorf("center = (%v, %v)", c.x, c.y)
	}
	if !approxEqual(c.alpha, 0.5, 1e-9) {
		t.Errorf("alpha = %v, want 0.5", c.alpha)
	}
	if s.Alpha() != 1 {
		t.Errorf("surface alpha leaked: %v", s.Alpha())
	}
}

func TestEffectDrawSparkleTranslated(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	es.CreateSparkle(30, 40, Color{})

	s := newRecordSurface(100, 100)
	es.Draw(s, Grid{CellSize: 10}, 0)

	polys := s.ops("fillPolygon")
	if len(polys) != 1 {
		t.Fatalf("fillPolygon calls = %d, want 1", len(polys))
	}
	// The recorded anchor is the local origin mapped through the transform.
	if polys[0].x != 30 || polys[0].y != 40 || polys[0].r != 10 {
		t.Errorf("sparkle = %+v", polys[0])
	}
	if s.Transform() != identityTransform {
		t.Error("transform leaked")
	}
}

func TestHighlightDrawOrderAndAnimation(t *testing.T) {
	es := NewEffectSystem(EffectConfig{})
	es.SetHighlight(GridPos{1, 1}, Highlight{Animated: true})
	es.SetHighlight(GridPos{0, 0}, Highlight{})
	es.CreatePulse(0, 0, Color{})

	s := newRecordSurface(100, 100)
	es.Draw(s, Grid{CellSize: 10}, 250)

	var ops []string
	for _, c := range s.calls {
		ops = append(ops, c.op)
	}
	want := []string{"strokeRect", "fillRect", "strokeRect", "strokeCircle"}
	if strings.Join(ops, ",") != strings.Join(want, ",") {
		t.Errorf("ops = %v, want %v", ops, want)
	}
	if s.calls[0].x != 0 || s.calls[2].x != 10 {
		t.Errorf("highlights not in row/col order: %+v", s.calls)
	}
}

func TestEffectKindString(t *testing.T) {
	if EffectGlow.String() != "glow" || EffectPulse.String() != "pulse" || EffectSparkle.String() != "sparkle" {
		t.Error("unexpected EffectKind names")
	}
}
