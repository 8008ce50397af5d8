// Package audio synthesizes the cues that accompany page transitions
package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/stagefx/timeline"
)

// Cue identifies a transition sound
type Cue int

const (
	CueNone   Cue = iota
	CueHide       // descending whoosh as content dissolves
	CueSwap       // short static burst while the hologram is blank
	CueReveal     // two-note chime as new content resolves
)

func (c Cue) String() string {
	switch c {
	case CueHide:
		return "hide"
	case CueSwap:
		return "swap"
	case CueReveal:
		return "reveal"
	}
	return "none"
}

// Cue shapes for the full motion profile
var (
	HideShape       = Shape{Length: 600 * time.Millisecond, Attack: 40 * time.Millisecond, Release: 400 * time.Millisecond}
	SwapShape       = Shape{Length: 120 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 80 * time.Millisecond}
	RevealNoteShape = Shape{Length: 110 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 90 * time.Millisecond}
	RevealTailShape = Shape{Length: 260 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 220 * time.Millisecond}
)

// reducedScale shortens cues under reduced motion
const reducedScale = 0.5

// CueForPhase maps an entered phase to its cue
func CueForPhase(p timeline.Phase) Cue {
	switch p {
	case timeline.PhaseHiding:
		return CueHide
	case timeline.PhaseSwapping:
		return CueSwap
	case timeline.PhaseRevealing:
		return CueReveal
	}
	return CueNone
}

// NewCue builds the streamer for a cue at the given volume
func NewCue(cue Cue, profile timeline.MotionProfile, volume float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueHide:
		shape := HideShape.For(profile)
		sweep := NewSweep(900, 180, shape.Length, WaveSine, rate)
		hiss := NewOscillator(0, shape.Length, WaveNoise, rate)
		s = shape.Apply(beep.Mix(gain(sweep, 0.8), gain(hiss, 0.15)), rate)

	case CueSwap:
		shape := SwapShape.For(profile)
		s = shape.Apply(gain(NewOscillator(0, shape.Length, WaveNoise, rate), 0.5), rate)

	case CueReveal:
		// E5 then B5
		one, two := RevealNoteShape.For(profile), RevealTailShape.For(profile)
		s = beep.Seq(
			one.Apply(NewOscillator(659.25, one.Length, WaveTriangle, rate), rate),
			two.Apply(NewOscillator(987.77, two.Length, WaveTriangle, rate), rate),
		)

	default:
		return nil
	}
	return gain(s, volume)
}
