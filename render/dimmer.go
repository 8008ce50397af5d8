package render

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// NavDimmer springs navigation brightness between 1 and a dimmed level
type NavDimmer struct {
	spring   harmonica.Spring
	fps      int
	dim      float64
	pos, vel float64
	dimmed   bool
}

// NewNavDimmer creates an undimmed dimmer stepping at fps
func NewNavDimmer(fps int, frequency, damping, dim float64) *NavDimmer {
	if fps <= 0 {
		fps = 60
	}
	return &NavDimmer{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		fps:    fps,
		dim:    clamp01(dim),
		pos:    1,
	}
}

// SetDimmed selects the spring target
func (d *NavDimmer) SetDimmed(dimmed bool) {
	d.dimmed = dimmed
}

// Target returns the level the spring is moving toward
func (d *NavDimmer) Target() float64 {
	if d.dimmed {
		return d.dim
	}
	return 1
}

// Update advances the spring by whole frames covering dt and returns the level
func (d *NavDimmer) Update(dt time.Duration) float64 {
	frames := int(dt.Seconds()*float64(d.fps) + 0.5)
	if frames < 1 {
		frames = 1
	}
	// Cap catch-up after a stall
	if frames > d.fps {
		frames = d.fps
	}
	target := d.Target()
	for i := 0; i < frames; i++ {
		d.pos, d.vel = d.spring.Update(d.pos, d.vel, target)
	}
	return d.Level()
}

// Snap jumps to the target with no motion; used when motion is reduced
func (d *NavDimmer) Snap() float64 {
	d.pos, d.vel = d.Target(), 0
	return d.pos
}

// Level returns the current brightness clamped to [0,1]
func (d *NavDimmer) Level() float64 {
	return clamp01(d.pos)
}
