// Package scroll eases raw scroll offsets into a smoothed progress value
package scroll

import (
	"math"
	"time"
)

// DefaultEasing is the per-tick convergence factor
const DefaultEasing = 0.08

// ReferenceFrame is the frame length the fixed per-tick easing was tuned for
const ReferenceFrame = time.Second / 60

// Bridge decouples jittery scroll input from rendered motion
// Raw input overwrites the target; the smoothed value only moves via Tick
type Bridge struct {
	k      float64
	extent float64

	raw      float64
	target   float64
	smoothed float64
}

// NewBridge creates a bridge with easing factor k in (0,1] and a scroll extent
// Extent normalizes Progress; zero or negative extent makes Progress report 0
func NewBridge(k, extent float64) *Bridge {
	if k <= 0 || k > 1 || math.IsNaN(k) {
		k = DefaultEasing
	}
	return &Bridge{k: k, extent: extent}
}

// Push records a raw offset; the target is overwritten, no history is kept
func (b *Bridge) Push(raw float64) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return
	}
	b.raw = raw
	b.target = raw
}

// Nudge moves the raw offset by delta, clamped to [0, extent] when an extent is set
func (b *Bridge) Nudge(delta float64) {
	next := b.raw + delta
	if b.extent > 0 {
		next = math.Max(0, math.Min(b.extent, next))
	}
	b.Push(next)
}

// Tick advances the smoothed value one frame: smoothed += (target - smoothed) * k
func (b *Bridge) Tick() float64 {
	b.smoothed += (b.target - b.smoothed) * b.k
	return b.smoothed
}

// TickFor advances by a frame of length dt, equivalent to dt/ReferenceFrame ticks
// Used by hosts with irregular frame pacing; Tick remains the fixed-rate baseline
func (b *Bridge) TickFor(dt time.Duration) float64 {
	if dt <= 0 {
		return b.smoothed
	}
	frames := float64(dt) / float64(ReferenceFrame)
	keep := math.Pow(1-b.k, frames)
	b.smoothed = b.target - (b.target-b.smoothed)*keep
	return b.smoothed
}

// Raw returns the last pushed offset
func (b *Bridge) Raw() float64 { return b.raw }

// Target returns the value the smoothed offset converges to
func (b *Bridge) Target() float64 { return b.target }

// Smoothed returns the eased offset
func (b *Bridge) Smoothed() float64 { return b.smoothed }

// Easing returns k
func (b *Bridge) Easing() float64 { return b.k }

// Extent returns the normalization extent
func (b *Bridge) Extent() float64 { return b.extent }

// SetEasing replaces k; invalid values are ignored
func (b *Bridge) SetEasing(k float64) {
	if k <= 0 || k > 1 || math.IsNaN(k) {
		return
	}
	b.k = k
}

// SetExtent changes the normalization extent, clamping the current offsets into it
func (b *Bridge) SetExtent(extent float64) {
	b.extent = extent
	if extent > 0 && b.raw > extent {
		b.Push(extent)
	}
}

// Progress returns smoothed / extent clamped to [0,1]
func (b *Bridge) Progress() float64 {
	if b.extent <= 0 {
		return 0
	}
	p := b.smoothed / b.extent
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
