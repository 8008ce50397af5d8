package transition

import (
	"time"

	"github.com/lixenwraith/stagefx/timeline"
)

// PageID identifies a page supplied by the navigation layer
type PageID string

// Resolver returns the content to display for a page
type Resolver[C any] func(PageID) C

// Slot is the wrapped content reference and its visibility
type Slot[C any] struct {
	Page    PageID
	Content C
	Visible bool
}

// EventKind classifies orchestrator notifications
type EventKind uint8

const (
	EventRequested  EventKind = iota // request accepted (not a no-op)
	EventStarted                     // Idle left, transition begins
	EventRetargeted                  // in-flight target replaced
	EventPhase                       // phase entered
	EventCompleted                   // back to Idle, IsTransitioning went false
	EventStale                       // superseded timer callback ignored
)

func (k EventKind) String() string {
	switch k {
	case EventRequested:
		return "requested"
	case EventStarted:
		return "started"
	case EventRetargeted:
		return "retargeted"
	case EventPhase:
		return "phase"
	case EventCompleted:
		return "completed"
	case EventStale:
		return "stale"
	}
	return "unknown"
}

// Event is delivered synchronously to observers on the orchestrator's thread
type Event struct {
	Kind      EventKind
	Phase     timeline.Phase
	Previous  timeline.Phase
	Target    PageID
	Displayed PageID
	Profile   timeline.MotionProfile
	RequestID string
	At        time.Time
}

// Observer receives orchestrator events
type Observer interface {
	OnTransitionEvent(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

func (f ObserverFunc) OnTransitionEvent(ev Event) { f(ev) }

// State is a read-only snapshot of the orchestrator
type State struct {
	Phase         timeline.Phase
	Displayed     PageID
	Target        PageID
	Profile       timeline.MotionProfile
	Transitioning bool
	RequestID     string

	// Elapsed is time since the active schedule began, Duration its total length
	Elapsed  time.Duration
	Duration time.Duration

	// PhaseElapsed and PhaseLength describe the current phase; zero when idle
	PhaseElapsed time.Duration
	PhaseLength  time.Duration

	// PhaseSpan is the nominal timeline length of the current phase.
	// Unlike PhaseLength it is fixed at phase entry and ignores retargets.
	PhaseSpan time.Duration
}

// PhaseProgress returns the fraction of the current phase elapsed, in [0,1]
func (s State) PhaseProgress() float64 {
	if s.PhaseLength <= 0 {
		if s.Phase == timeline.PhaseIdle {
			return 0
		}
		return 1
	}
	p := float64(s.PhaseElapsed) / float64(s.PhaseLength)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// EffectProgress returns PhaseElapsed over the nominal PhaseSpan, in [0,1].
// It never decreases within a phase, so fades driven by it stay monotonic
// when a retarget stretches the phase.
func (s State) EffectProgress() float64 {
	if s.PhaseSpan <= 0 {
		if s.Phase == timeline.PhaseIdle {
			return 0
		}
		return 1
	}
	p := float64(s.PhaseElapsed) / float64(s.PhaseSpan)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
