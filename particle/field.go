// Package particle simulates the background particle field
//
// Two fixed populations are advanced once per rendered frame: dense dust that
// drifts and wraps toroidally at a bound, and sparse stars that spin around
// anchored home positions. Scroll progress pushes each particle by its own
// influence so the field reacts with depth. Nothing is allocated per frame.
package particle

import (
	"math"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/lixenwraith/stagefx/vmath"
)

// noiseScale maps world units to noise space
const noiseScale = 0.15

// Field owns both populations and the simulated clock
type Field struct {
	cfg   Config
	noise opensimplex.Noise

	Dust  *Population
	Stars *Population

	time   float64 // simulated seconds
	frames uint64
	wraps  uint64
}

// NewField allocates both populations and seeds them from cfg.Seed
func NewField(cfg Config) *Field {
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = DefaultTimeScale
	}
	f := &Field{
		cfg:   cfg,
		noise: opensimplex.New(cfg.Seed),
		Dust:  newPopulation(RoleDust, cfg.Dust),
		Stars: newPopulation(RoleStar, cfg.Stars),
	}
	f.Reset()
	return f
}

// Reset repositions every particle to its seeded start; no reallocation
func (f *Field) Reset() {
	rng := vmath.NewFastRand(uint64(f.cfg.Seed))
	f.Dust.seed(rng)
	f.Stars.seed(rng)
	f.time = 0
	f.frames = 0
	f.wraps = 0
}

// Advance steps the simulation by one rendered frame of length dt
// scrollProgress is the eased scroll value in [0,1]
func (f *Field) Advance(dt time.Duration, scrollProgress float64) {
	if dt <= 0 {
		return
	}
	step := dt.Seconds() * f.cfg.TimeScale
	f.time += step
	f.frames++

	progress := vmath.Clamp01(scrollProgress)
	f.advanceDust(step, progress)
	f.advanceStars(progress)
}

func (f *Field) advanceDust(step, progress float64) {
	p := f.Dust
	cfg := p.cfg
	t := f.time

	for i := range p.Positions {
		pos := p.Positions[i]

		// Static velocity
		pos = vmath.V3FAdd(pos, vmath.V3FScale(p.Velocities[i], step))

		// Deterministic oscillation from time, index and position
		phase := t*cfg.Frequency + float64(i)*0.1
		pos.Y += math.Sin(phase+pos.X*0.5) * cfg.Oscillation * step
		pos.X += math.Cos(phase*0.7+pos.Z*0.5) * cfg.Oscillation * 0.5 * step

		// Organic drift from the noise field
		if cfg.Noise != 0 {
			n := f.noise.Eval3(pos.X*noiseScale, pos.Y*noiseScale, t*0.2)
			pos.Z += n * cfg.Noise * step
		}

		// Scroll pushes dust upward, heterogeneously
		pos.Y += progress * p.ScrollInfluence[i] * cfg.ScrollDrift * step

		if cfg.Radius > 0 && vmath.V3FMaxAbs(pos) >= cfg.Radius {
			wrapped := vmath.V3FWrap(pos, cfg.Radius)
			if wrapped != pos {
				f.wraps++
			}
			pos = wrapped
		}
		p.Positions[i] = pos
	}
}

func (f *Field) advanceStars(progress float64) {
	p := f.Stars
	cfg := p.cfg
	t := f.time

	for i := range p.Positions {
		home := p.Homes[i]

		// Static angular velocity rotates the anchor about Y
		angle := p.Spin[i] * t
		sin, cos := math.Sincos(angle)
		pos := vmath.Vec3F{
			X: home.X*cos - home.Z*sin,
			Y: home.Y,
			Z: home.X*sin + home.Z*cos,
		}

		phase := t*cfg.Frequency + float64(i)
		pos.X += math.Sin(phase+home.Y*0.3) * cfg.Oscillation
		pos.Y += math.Cos(phase*0.8+home.X*0.3) * cfg.Oscillation

		pos.Y += progress * p.ScrollInfluence[i] * cfg.ScrollDrift

		p.Positions[i] = pos
	}
}

// Time returns simulated seconds elapsed
func (f *Field) Time() float64 {
	return f.time
}

// Frames returns the number of Advance calls that moved the field
func (f *Field) Frames() uint64 {
	return f.frames
}

// Wraps returns the number of dust repositionings at the bound
func (f *Field) Wraps() uint64 {
	return f.wraps
}

// Config returns the field configuration
func (f *Field) Config() Config {
	return f.cfg
}

// StarBound is the largest distance from origin a star can reach
func (f *Field) StarBound() float64 {
	c := f.cfg.Stars
	return math.Abs(c.Radius) + math.Sqrt2*math.Abs(c.Oscillation) + math.Abs(c.ScrollDrift)
}

// Bounds returns the per-axis dust wrap bound and the star distance bound
func (f *Field) Bounds() (dust, stars float64) {
	return f.cfg.Dust.Radius, f.StarBound()
}

// Populations returns dust then stars, for renderers
func (f *Field) Populations() []*Population {
	return []*Population{f.Dust, f.Stars}
}
