package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/stagefx/timeline"
)

// Shape is a cue's gain contour: rise over Attack, hold, fall over Release
// Length bounds the whole cue; segments that do not fit are shortened
type Shape struct {
	Length  time.Duration
	Attack  time.Duration
	Release time.Duration
}

// For returns the shape scaled to the motion profile
// Reduced motion compresses every segment so the cue never outlasts its phase
func (s Shape) For(profile timeline.MotionProfile) Shape {
	if profile != timeline.MotionReduced {
		return s
	}
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * reducedScale)
	}
	return Shape{Length: scale(s.Length), Attack: scale(s.Attack), Release: scale(s.Release)}
}

// segments converts the shape to sample counts that sum to the length
func (s Shape) segments(rate beep.SampleRate) (attack, hold, release int) {
	total := rate.N(s.Length)
	attack = min(rate.N(s.Attack), total)
	release = min(rate.N(s.Release), total-attack)
	hold = total - attack - release
	return attack, hold, release
}

// Apply shapes src; the result ends after Length even if src runs longer
func (s Shape) Apply(src beep.Streamer, rate beep.SampleRate) beep.Streamer {
	attack, hold, release := s.segments(rate)

	// Segments read src back to back, so the contour follows stream position
	parts := make([]beep.Streamer, 0, 3)
	if attack > 0 {
		parts = append(parts, effects.Transition(beep.Take(attack, src), attack, 0, 1, effects.TransitionEqualPower))
	}
	if hold > 0 {
		parts = append(parts, beep.Take(hold, src))
	}
	if release > 0 {
		parts = append(parts, effects.Transition(beep.Take(release, src), release, 1, 0, decay))
	}
	return beep.Seq(parts...)
}

// decay drops quickly then tails off, the audible counterpart of the panel fade
func decay(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// gain scales amplitude linearly; zero or below is silent
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol < 0 {
		vol = 0
	}
	return &effects.Gain{Streamer: s, Gain: vol - 1}
}
