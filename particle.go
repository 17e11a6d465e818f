package boardfx

import (
	"fmt"
	"math/rand/v2"
)

// Default particle tuning. ParticleConfig overrides these per system.
const (
	DefaultParticleGravity  = 40.0   // px/s², added to vy each tick
	DefaultParticleLifetime = 2000.0 // ms
	DefaultParticleSize     = 14.0
)

// Particle is a short-lived, physically simulated point visual.
type Particle struct {
	ID       string
	Pos      Vec2
	Vel      Vec2    // px/s
	Lifetime float64 // ms
	Elapsed  float64 // ms
	Color    Color
	Size     float64
	// Opacity is derived from Elapsed/Lifetime on every Advance.
	Opacity float64
	// Text, when set, is drawn centered instead of a circle.
	Text string
}

// ParticleConfig controls particle physics and the money-effect factory.
type ParticleConfig struct {
	Gravity  float64 `toml:"gravity"`
	Lifetime float64 `toml:"lifetime_ms"`
	Size     float64 `toml:"size"`
	// SpeedX and SpeedY are the spawn velocity ranges in px/s. Negative Y is up.
	SpeedX Range `toml:"speed_x"`
	SpeedY Range `toml:"speed_y"`
}

// DefaultParticleConfig returns the built-in particle tuning.
func DefaultParticleConfig() ParticleConfig {
	return ParticleConfig{
		Gravity:  DefaultParticleGravity,
		Lifetime: DefaultParticleLifetime,
		Size:     DefaultParticleSize,
		SpeedX:   Range{Min: -20, Max: 20},
		SpeedY:   Range{Min: -90, Max: -60},
	}
}

// ParticleSystem owns every live particle and retires them when their
// lifetime runs out.
type ParticleSystem struct {
	config    ParticleConfig
	particles []Particle
	nextID    uint64
	rng       *rand.Rand
}

// NewParticleSystem creates an empty particle system. Zero fields in cfg
// fall back to DefaultParticleConfig.
func NewParticleSystem(cfg ParticleConfig) *ParticleSystem {
	def := DefaultParticleConfig()
	if cfg.Gravity == 0 {
		cfg.Gravity = def.Gravity
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = def.Lifetime
	}
	if cfg.Size <= 0 {
		cfg.Size = def.Size
	}
	if cfg.SpeedX == (Range{}) {
		cfg.SpeedX = def.SpeedX
	}
	if cfg.SpeedY == (Range{}) {
		cfg.SpeedY = def.SpeedY
	}
	return &ParticleSystem{config: cfg}
}

// SetRand replaces the random source used for spawn velocities. A nil source
// restores the package-level generator.
func (ps *ParticleSystem) SetRand(r *rand.Rand) {
	ps.rng = r
}

// Config returns the system's configuration.
func (ps *ParticleSystem) Config() ParticleConfig {
	return ps.config
}

// Count returns the number of live particles.
func (ps *ParticleSystem) Count() int {
	return len(ps.particles)
}

// Particles returns the live particles. The returned slice MUST NOT be mutated.
func (ps *ParticleSystem) Particles() []Particle {
	return ps.particles
}

// Spawn adds a particle. An empty ID is replaced with a generated one, and
// the generated or given ID is returned.
func (ps *ParticleSystem) Spawn(p Particle) string {
	if p.ID == "" {
		p.ID = ps.newID("particle")
	}
	if p.Lifetime <= 0 {
		p.Lifetime = ps.config.Lifetime
	}
	if p.Size <= 0 {
		p.Size = ps.config.Size
	}
	p.Elapsed = 0
	p.Opacity = 1
	ps.particles = append(ps.particles, p)
	return p.ID
}

// CreateMoneyEffect spawns a floating currency label at (x, y). amount is
// shown as an absolute value; gained selects the sign and color.
func (ps *ParticleSystem) CreateMoneyEffect(x, y float64, amount int, gained bool) string {
	if amount < 0 {
		amount = -amount
	}
	label := fmt.Sprintf("-$%d", amount)
	col := ColorRed
	if gained {
		label = fmt.Sprintf("+$%d", amount)
		col = ColorGreen
	}
	return ps.Spawn(Particle{
		ID:    ps.newID("money"),
		Pos:   Vec2{x, y},
		Vel:   Vec2{ps.random(ps.config.SpeedX), ps.random(ps.config.SpeedY)},
		Color: col,
		Text:  label,
	})
}

// Clear removes every particle.
func (ps *ParticleSystem) Clear() {
	ps.particles = ps.particles[:0]
}

// Advance integrates particle motion over dt milliseconds and removes
// particles whose elapsed time has reached their lifetime.
func (ps *ParticleSystem) Advance(dt float64) {
	secs := dt / 1000
	gy := ps.config.Gravity * secs

	// Update in place, swap-remove dead ones.
	i := 0
	for i < len(ps.particles) {
		p := &ps.particles[i]
		p.Elapsed += dt
		if p.Elapsed >= p.Lifetime {
			last := len(ps.particles) - 1
			ps.particles[i] = ps.particles[last]
			ps.particles = ps.particles[:last]
			continue
		}

		p.Pos.X += p.Vel.X * secs
		p.Pos.Y += p.Vel.Y * secs
		p.Vel.Y += gy
		p.Opacity = particleOpacity(p.Elapsed, p.Lifetime)
		i++
	}
}

// Draw renders every particle onto s: a centered label when the particle has
// text, otherwise a filled circle.
func (ps *ParticleSystem) Draw(s Surface) {
	if s == nil {
		return
	}
	for i := range ps.particles {
		p := &ps.particles[i]
		s.Save()
		s.SetAlpha(p.Opacity)
		if p.Text != "" {
			s.DrawText(p.Text, p.Pos.X, p.Pos.Y, TextStyle{
				Size:     p.Size,
				Color:    p.Color,
				Align:    TextAlignCenter,
				Baseline: TextBaselineMiddle,
			})
		} else {
			s.FillCircle(p.Pos.X, p.Pos.Y, p.Size/2, p.Color)
		}
		s.Restore()
	}
}

func (ps *ParticleSystem) newID(prefix string) string {
	ps.nextID++
	return fmt.Sprintf("%s-%d", prefix, ps.nextID)
}

func (ps *ParticleSystem) random(r Range) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	f := rand.Float64
	if ps.rng != nil {
		f = ps.rng.Float64
	}
	return r.Min + f()*(r.Max-r.Min)
}

// particleOpacity is max(0, 1 - elapsed/lifetime).
func particleOpacity(elapsed, lifetime float64) float64 {
	if lifetime <= 0 {
		return 0
	}
	o := 1 - elapsed/lifetime
	if o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}
