package boardfx

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestMoneyEffectLabelAndColor(t *testing.T) {
	tests := []struct {
		amount int
		gained bool
		label  string
		color  Color
	}{
		{100, false, "-$100", ColorRed},
		{100, true, "+$100", ColorGreen},
		{-40, false, "-$40", ColorRed},
		{0, true, "+$0", ColorGreen},
	}
	for _, tt := range tests {
		ps := NewParticleSystem(ParticleConfig{})
		id := ps.CreateMoneyEffect(10, 20, tt.amount, tt.gained)
		if !strings.HasPrefix(id, "money-") {
			t.Errorf("id = %q, want money- prefix", id)
		}
		p := ps.Particles()[0]
		if p.Text != tt.label || p.Color != tt.color {
			t.Errorf("CreateMoneyEffect(%d, %v) = %q %v, want %q %v", tt.amount, tt.gained, p.Text, p.Color, tt.label, tt.color)
		}
		if p.Pos != (Vec2{10, 20}) || p.Lifetime != DefaultParticleLifetime || p.Opacity != 1 {
			t.Errorf("particle = %+v", p)
		}
	}
}

func TestMoneyEffectExpires(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{})
	ps.CreateMoneyEffect(0, 0, 100, false)

	for elapsed := 0.0; elapsed < 2500; elapsed += 16 {
		ps.Advance(16)
	}
	if ps.Count() != 0 {
		t.Errorf("Count after 2500ms = %d, want 0", ps.Count())
	}
}

func TestParticleLifetimeBoundary(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{Lifetime: 1000})
	ps.Spawn(Particle{})
	ps.Advance(999)
	if ps.Count() != 1 {
		t.Fatal("removed before lifetime")
	}
	ps.Advance(1)
	if ps.Count() != 0 {
		t.Error("still present at lifetime")
	}
}

func TestParticleOpacityLinear(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{Lifetime: 1000})
	ps.Spawn(Particle{})
	want := []float64{0.75, 0.5, 0.25}
	for i, w := range want {
		ps.Advance(250)
		if got := ps.Particles()[0].Opacity; !approxEqual(got, w, 1e-9) {
			t.Errorf("step %d: opacity = %v, want %v", i, got, w)
		}
	}
}

func TestParticleMotionAndGravity(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{Gravity: 100})
	ps.Spawn(Particle{Vel: Vec2{10, -50}})

	ps.Advance(500)
	p := ps.Particles()[0]
	// Position integrates the velocity from before this tick's gravity.
	if !approxEqual(p.Pos.X, 5, 1e-9) || !approxEqual(p.Pos.Y, -25, 1e-9) {
		t.Errorf("pos = %v, want {5 -25}", p.Pos)
	}
	if !approxEqual(p.Vel.Y, 0, 1e-9) {
		t.Errorf("vy = %v, want 0", p.Vel.Y)
	}
}

func TestParticleSpawnVelocityRange(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{})
	ps.SetRand(rand.New(rand.NewPCG(1, 2)))
	cfg := ps.Config()
	for range 200 {
		ps.CreateMoneyEffect(0, 0, 1, true)
	}
	for _, p := range ps.Particles() {
		if p.Vel.X < cfg.SpeedX.Min || p.Vel.X > cfg.SpeedX.Max {
			t.Fatalf("vx %v outside %v", p.Vel.X, cfg.SpeedX)
		}
		if p.Vel.Y < cfg.SpeedY.Min || p.Vel.Y > cfg.SpeedY.Max {
			t.Fatalf("vy %v outside %v", p.Vel.Y, cfg.SpeedY)
		}
	}
}

func TestParticleSwapRemoveKeepsLive(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{})
	ps.Spawn(Particle{ID: "short", Lifetime: 10})
	ps.Spawn(Particle{ID: "long", Lifetime: 1000})
	ps.Spawn(Particle{ID: "short2", Lifetime: 10})

	ps.Advance(10)
	if ps.Count() != 1 || ps.Particles()[0].ID != "long" {
		t.Errorf("particles = %+v", ps.Particles())
	}
	// The survivor was advanced exactly once.
	if got := ps.Particles()[0].Elapsed; got != 10 {
		t.Errorf("Elapsed = %v, want 10", got)
	}
}

func TestParticleClear(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{})
	ps.CreateMoneyEffect(0, 0, 1, true)
	ps.Clear()
	if ps.Count() != 0 {
		t.Error("Clear left particles")
	}
}

func TestParticleDraw(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{Lifetime: 1000})
	ps.CreateMoneyEffect(0, 0, 100, false)
	ps.Spawn(Particle{Pos: Vec2{5, 5}, Color: ColorGold})
	ps.Advance(500)

	s := newRecordSurface(100, 100)
	ps.Draw(s)

	if got := s.texts(); len(got) != 1 || got[0] != "-$100" {
		t.Errorf("texts = %v", got)
	}
	circles := s.ops("fillCircle")
	if len(circles) != 1 || circles[0].r != DefaultParticleSize/2 {
		t.Fatalf("circles = %+v", circles)
	}
	if !approxEqual(circles[0].alpha, 0.5, 1e-9) {
		t.Errorf("alpha = %v, want 0.5", circles[0].alpha)
	}
	if s.Alpha() != 1 {
		t.Error("alpha leaked")
	}
	ps.Draw(nil)
}

func TestParticleOpacityHelper(t *testing.T) {
	if particleOpacity(5, 0) != 0 || particleOpacity(-1, 10) != 1 || particleOpacity(20, 10) != 0 {
		t.Error("particleOpacity out of range")
	}
	if math.IsNaN(particleOpacity(0, 10)) {
		t.Error("NaN opacity")
	}
}

func TestZeroAllocsDuringAdvance(t *testing.T) {
	ps := NewParticleSystem(ParticleConfig{Lifetime: 1e9})
	for range 100 {
		ps.Spawn(Particle{Vel: Vec2{1, 1}})
	}
	allocs := testing.AllocsPerRun(100, func() {
		ps.Advance(16)
	})
	if allocs > 0 {
		t.Errorf("Advance allocated %.1f times per run, want 0", allocs)
	}
}

func BenchmarkParticleAdvance_1000(b *testing.B) {
	ps := NewParticleSystem(ParticleConfig{Lifetime: 1e12})
	for range 1000 {
		ps.Spawn(Particle{Vel: Vec2{1, -1}})
	}
	for b.Loop() {
		ps.Advance(16)
	}
}
