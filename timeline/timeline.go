package timeline

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeline is wrapped by every validation failure
var ErrInvalidTimeline = errors.New("invalid timeline")

// canonicalOrder is the only action order the orchestrator state machine accepts
var canonicalOrder = [...]Action{ActionHide, ActionSwap, ActionReveal, ActionEnd}

// Step fires Action at offset At from transition start
type Step struct {
	At     time.Duration `yaml:"at"`
	Action Action        `yaml:"action"`
}

// Timeline is a validated, immutable phase list
type Timeline struct {
	steps []Step
}

// New validates steps and returns a timeline
// Offsets start at zero and strictly increase; actions follow hide, swap, reveal, end
func New(steps []Step) (Timeline, error) {
	if len(steps) != len(canonicalOrder) {
		return Timeline{}, fmt.Errorf("%w: want %d steps, got %d", ErrInvalidTimeline, len(canonicalOrder), len(steps))
	}
	for i, st := range steps {
		if st.Action != canonicalOrder[i] {
			return Timeline{}, fmt.Errorf("%w: step %d is %s, want %s", ErrInvalidTimeline, i, st.Action, canonicalOrder[i])
		}
		if i == 0 {
			if st.At != 0 {
				return Timeline{}, fmt.Errorf("%w: first step must fire at 0, got %v", ErrInvalidTimeline, st.At)
			}
			continue
		}
		if st.At <= steps[i-1].At {
			return Timeline{}, fmt.Errorf("%w: offset %v at step %d does not exceed %v", ErrInvalidTimeline, st.At, i, steps[i-1].At)
		}
	}

	owned := make([]Step, len(steps))
	copy(owned, steps)
	return Timeline{steps: owned}, nil
}

// MustNew panics on invalid input, for package-level tables
func MustNew(steps ...Step) Timeline {
	tl, err := New(steps)
	if err != nil {
		panic(err)
	}
	return tl
}

// Len returns the number of steps
func (t Timeline) Len() int {
	return len(t.steps)
}

// Step returns the i-th step
func (t Timeline) Step(i int) Step {
	return t.steps[i]
}

// Steps returns a copy of the step list
func (t Timeline) Steps() []Step {
	out := make([]Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Duration is the offset of the last step
func (t Timeline) Duration() time.Duration {
	if len(t.steps) == 0 {
		return 0
	}
	return t.steps[len(t.steps)-1].At
}

// Offset returns the offset of the first step carrying action a
func (t Timeline) Offset(a Action) time.Duration {
	for _, st := range t.steps {
		if st.Action == a {
			return st.At
		}
	}
	return 0
}

// PhaseSpan returns the start offset and length of the phase entered by step i
func (t Timeline) PhaseSpan(i int) (start, length time.Duration) {
	if i < 0 || i >= len(t.steps) {
		return 0, 0
	}
	start = t.steps[i].At
	if i+1 < len(t.steps) {
		length = t.steps[i+1].At - start
	}
	return start, length
}

// IsZero reports an unset timeline
func (t Timeline) IsZero() bool {
	return len(t.steps) == 0
}
