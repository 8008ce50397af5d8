package particle

import (
	"github.com/lixenwraith/stagefx/vmath"
)

// Role distinguishes the two particle populations
type Role uint8

const (
	RoleDust Role = iota // dense ambient dust, wraps at the bound
	RoleStar             // sparse foreground stars, anchored to a home position
)

func (r Role) String() string {
	if r == RoleStar {
		return "star"
	}
	return "dust"
}

// Population is a fixed-size arena of parallel per-particle buffers
// Lengths are set at construction and never change
type Population struct {
	Role Role
	cfg  PopulationConfig

	Positions       []vmath.Vec3F
	Velocities      []vmath.Vec3F // dust linear velocity
	Spin            []float64     // star angular velocity about Y
	Homes           []vmath.Vec3F
	Colors          []Color
	Sizes           []float64
	ScrollInfluence []float64 // [0,1]
}

func newPopulation(role Role, cfg PopulationConfig) *Population {
	n := cfg.Count
	if n < 0 {
		n = 0
	}
	return &Population{
		Role:            role,
		cfg:             cfg,
		Positions:       make([]vmath.Vec3F, n),
		Velocities:      make([]vmath.Vec3F, n),
		Spin:            make([]float64, n),
		Homes:           make([]vmath.Vec3F, n),
		Colors:          make([]Color, n),
		Sizes:           make([]float64, n),
		ScrollInfluence: make([]float64, n),
	}
}

// Len returns the fixed population size
func (p *Population) Len() int {
	return len(p.Positions)
}

// Config returns the population tuning
func (p *Population) Config() PopulationConfig {
	return p.cfg
}

// seed fills every slot in place from rng
func (p *Population) seed(rng *vmath.FastRand) {
	palette := p.cfg.Palette
	if len(palette) == 0 {
		palette = []Color{{R: 255, G: 255, B: 255}}
	}

	for i := range p.Positions {
		switch p.Role {
		case RoleDust:
			p.Homes[i] = rng.InCube(p.cfg.Radius)
			p.Velocities[i] = vmath.Vec3F{
				X: rng.Signed(p.cfg.Speed),
				Y: rng.Signed(p.cfg.Speed),
				Z: rng.Signed(p.cfg.Speed),
			}
			p.Spin[i] = 0
		case RoleStar:
			inner := p.cfg.InnerRadius
			if inner > p.cfg.Radius {
				inner = p.cfg.Radius
			}
			p.Homes[i] = rng.OnShell(inner, p.cfg.Radius)
			p.Velocities[i] = vmath.Vec3F{}
			p.Spin[i] = rng.Signed(p.cfg.Speed)
		}
		p.Positions[i] = p.Homes[i]
		p.Colors[i] = palette[rng.Intn(len(palette))]
		p.Sizes[i] = rng.Range(p.cfg.SizeMin, p.cfg.SizeMax)
		p.ScrollInfluence[i] = rng.Float64()
	}
}
