package timeline

import (
	"fmt"
	"time"
)

// MotionProfile selects a timeline variant
type MotionProfile uint8

const (
	MotionFull MotionProfile = iota
	MotionReduced
)

func (p MotionProfile) String() string {
	switch p {
	case MotionFull:
		return "full"
	case MotionReduced:
		return "reduced"
	}
	return fmt.Sprintf("profile(%d)", uint8(p))
}

// Documented delays for the full and reduced sequences
const (
	FullSwitchDelay      = 1100 * time.Millisecond
	FullShowContentDelay = 1600 * time.Millisecond
	FullEndDelay         = 2200 * time.Millisecond

	ReducedSwitchDelay      = 500 * time.Millisecond
	ReducedShowContentDelay = 700 * time.Millisecond
	ReducedEndDelay         = 1000 * time.Millisecond
)

// Set holds one timeline per motion profile
type Set struct {
	Full    Timeline
	Reduced Timeline
}

// For returns the timeline for a profile; the whole list is swapped, never blended
func (s Set) For(p MotionProfile) Timeline {
	if p == MotionReduced {
		return s.Reduced
	}
	return s.Full
}

// Standard builds a timeline from the three delays after the initial hide
func Standard(switchDelay, showContentDelay, endDelay time.Duration) (Timeline, error) {
	return New([]Step{
		{At: 0, Action: ActionHide},
		{At: switchDelay, Action: ActionSwap},
		{At: showContentDelay, Action: ActionReveal},
		{At: endDelay, Action: ActionEnd},
	})
}

// DefaultSet returns the documented full and reduced timelines
func DefaultSet() Set {
	return Set{
		Full: MustNew(
			Step{At: 0, Action: ActionHide},
			Step{At: FullSwitchDelay, Action: ActionSwap},
			Step{At: FullShowContentDelay, Action: ActionReveal},
			Step{At: FullEndDelay, Action: ActionEnd},
		),
		Reduced: MustNew(
			Step{At: 0, Action: ActionHide},
			Step{At: ReducedSwitchDelay, Action: ActionSwap},
			Step{At: ReducedShowContentDelay, Action: ActionReveal},
			Step{At: ReducedEndDelay, Action: ActionEnd},
		),
	}
}
