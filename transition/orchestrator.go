// Package transition sequences page swaps through a timed phase timeline
//
// A request leaves Idle and runs Hiding, Swapping, Revealing, Idle at the
// offsets of the timeline selected by the motion policy. Requests arriving
// mid-flight retarget the pending page; the last request always wins.
package transition

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/timeline"
)

// Config wires an orchestrator to its collaborators
type Config[C any] struct {
	Scheduler engine.Scheduler
	Timelines timeline.Set
	Policy    *motion.Policy
	Resolve   Resolver[C]
	Initial   PageID
	Logger    *zap.Logger
}

// Orchestrator owns TransitionState; all methods must be called from the
// scheduler's thread (the host loop or a VirtualScheduler.Advance caller)
type Orchestrator[C any] struct {
	sched   engine.Scheduler
	policy  *motion.Policy
	resolve Resolver[C]
	logger  *zap.Logger

	// Applied at the next transition start
	timelines timeline.Set

	phase         timeline.Phase
	target        PageID
	profile       timeline.MotionProfile
	transitioning bool
	requestID     string
	slot          Slot[C]

	// Active schedule
	active     timeline.Timeline
	generation uint64
	step       int // last applied step index in this generation, -1 none
	startedAt  time.Time
	phaseAt    time.Time
	phaseSpan  time.Duration // nominal length of the current phase, fixed at entry
	timers     []engine.Timer

	observers []Observer
}

// New creates an orchestrator displaying cfg.Initial, phase Idle
func New[C any](cfg Config[C]) *Orchestrator[C] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timelines := cfg.Timelines
	if timelines.Full.IsZero() || timelines.Reduced.IsZero() {
		timelines = timeline.DefaultSet()
	}
	resolve := cfg.Resolve
	if resolve == nil {
		resolve = func(PageID) C {
			var zero C
			return zero
		}
	}

	o := &Orchestrator[C]{
		sched:     cfg.Scheduler,
		policy:    cfg.Policy,
		resolve:   resolve,
		logger:    logger.Named("transition"),
		timelines: timelines,
		phase:     timeline.PhaseIdle,
		target:    cfg.Initial,
		step:      -1,
	}
	o.slot = Slot[C]{Page: cfg.Initial, Content: resolve(cfg.Initial), Visible: true}
	return o
}

// Subscribe registers an observer; events are delivered in registration order
func (o *Orchestrator[C]) Subscribe(obs Observer) {
	o.observers = append(o.observers, obs)
}

// SetTimelines replaces the timeline set used by subsequent transitions
// An in-flight transition keeps the timeline it started with
func (o *Orchestrator[C]) SetTimelines(set timeline.Set) {
	if set.Full.IsZero() || set.Reduced.IsZero() {
		return
	}
	o.timelines = set
}

// IsTransitioning reports whether a logical transition is in flight
func (o *Orchestrator[C]) IsTransitioning() bool {
	return o.transitioning
}

// Phase returns the current phase
func (o *Orchestrator[C]) Phase() timeline.Phase {
	return o.phase
}

// Displayed returns the page whose content currently occupies the slot
func (o *Orchestrator[C]) Displayed() PageID {
	return o.slot.Page
}

// Content returns the displayed content slot
func (o *Orchestrator[C]) Content() Slot[C] {
	return o.slot
}

// State returns a snapshot for dependents such as the renderer
func (o *Orchestrator[C]) State() State {
	st := State{
		Phase:         o.phase,
		Displayed:     o.slot.Page,
		Target:        o.target,
		Profile:       o.profile,
		Transitioning: o.transitioning,
		RequestID:     o.requestID,
	}
	if !o.transitioning {
		return st
	}

	now := o.sched.Now()
	st.Elapsed = now.Sub(o.startedAt)
	st.Duration = o.active.Duration()
	st.PhaseElapsed = now.Sub(o.phaseAt)
	st.PhaseSpan = o.phaseSpan
	if next := o.step + 1; next < o.active.Len() {
		st.PhaseLength = o.startedAt.Add(o.active.Step(next).At).Sub(o.phaseAt)
	}
	return st
}

// RequestTransition asks for id to be displayed
// No-op when id is already the eventual target; otherwise starts or retargets
func (o *Orchestrator[C]) RequestTransition(id PageID) {
	if id == o.target {
		return
	}

	now := o.sched.Now()
	o.target = id
	if !o.transitioning {
		o.requestID = uuid.NewString()
	}
	o.emit(Event{Kind: EventRequested, Target: id, At: now})

	if !o.transitioning {
		o.start(now)
		return
	}

	o.logger.Debug("retarget",
		zap.String("request", o.requestID),
		zap.String("target", string(id)),
		zap.Stringer("phase", o.phase))
	o.emit(Event{Kind: EventRetargeted, Target: id, At: now})

	if o.phase == timeline.PhaseHiding {
		// Content not swapped yet: keep the hide effect running, push the
		// remaining steps out so the swap lands one full timeline after this request
		o.schedule(now, 1)
		return
	}

	// Swap already applied for a stale target: hide again and swap once more
	o.schedule(now, 0)
}

// Close cancels pending phase timers and settles the state; the
// orchestrator stops advancing and reports no transition in progress
func (o *Orchestrator[C]) Close() {
	o.cancelTimers()
	o.generation++
	if !o.transitioning {
		return
	}
	o.transitioning = false
	o.phase = timeline.PhaseIdle
	o.target = o.slot.Page
	o.slot.Visible = true
	o.phaseSpan = 0
	o.logger.Debug("transition abandoned",
		zap.String("request", o.requestID),
		zap.String("displayed", string(o.slot.Page)))
}

// start samples the motion policy once and begins a fresh schedule
func (o *Orchestrator[C]) start(now time.Time) {
	o.profile = o.policy.Select()
	o.active = o.timelines.For(o.profile)
	o.transitioning = true

	o.logger.Debug("transition start",
		zap.String("request", o.requestID),
		zap.String("from", string(o.slot.Page)),
		zap.String("to", string(o.target)),
		zap.Stringer("profile", o.profile),
		zap.Duration("duration", o.active.Duration()))
	o.emit(Event{Kind: EventStarted, At: now})

	o.schedule(now, 0)
}

// schedule starts a new generation at now, applying step `from` immediately
// when it sits at offset zero and arming timers for the remaining steps
func (o *Orchestrator[C]) schedule(now time.Time, from int) {
	o.cancelTimers()
	o.generation++
	gen := o.generation
	o.startedAt = now
	o.step = from - 1

	for i := from; i < o.active.Len(); i++ {
		at := o.active.Step(i).At
		if i == from && at == 0 {
			o.onPhaseTick(gen, i)
			continue
		}
		idx := i
		o.timers = append(o.timers, o.sched.AfterFunc(at, func() {
			o.onPhaseTick(gen, idx)
		}))
	}
}

// onPhaseTick applies step idx of generation gen
// Superseded generations and already-applied steps are ignored
func (o *Orchestrator[C]) onPhaseTick(gen uint64, idx int) {
	if gen != o.generation {
		o.logger.Debug("stale phase tick ignored", zap.Uint64("generation", gen), zap.Int("step", idx))
		o.emit(Event{Kind: EventStale, At: o.sched.Now()})
		return
	}
	if !o.transitioning || idx <= o.step || idx >= o.active.Len() {
		return
	}

	// Steps apply in order; a late tick never lets a later phase skip Swapping
	for i := o.step + 1; i <= idx; i++ {
		o.step = i
		o.apply(o.active.Step(i).Action)
		if !o.transitioning {
			return
		}
	}
}

func (o *Orchestrator[C]) apply(action timeline.Action) {
	now := o.sched.Now()
	prev := o.phase

	switch action {
	case timeline.ActionHide:
		o.slot.Visible = false
	case timeline.ActionSwap:
		o.slot = Slot[C]{Page: o.target, Content: o.resolve(o.target), Visible: false}
	case timeline.ActionReveal:
		o.slot.Visible = true
	case timeline.ActionEnd:
		o.slot.Visible = true
	}

	next := action.Phase()
	if next != prev {
		o.phase = next
		o.phaseAt = now
		o.phaseSpan = 0
		if o.step+1 < o.active.Len() {
			o.phaseSpan = o.active.Step(o.step+1).At - o.active.Step(o.step).At
		}
		o.emit(Event{Kind: EventPhase, Phase: next, Previous: prev, At: now})
	}

	if action == timeline.ActionEnd {
		o.finish(now)
	}
}

func (o *Orchestrator[C]) finish(now time.Time) {
	o.cancelTimers()
	o.transitioning = false

	o.logger.Debug("transition complete",
		zap.String("request", o.requestID),
		zap.String("displayed", string(o.slot.Page)),
		zap.Duration("elapsed", now.Sub(o.startedAt)))
	o.emit(Event{Kind: EventCompleted, At: now})
}

func (o *Orchestrator[C]) cancelTimers() {
	for _, t := range o.timers {
		t.Stop()
	}
	o.timers = o.timers[:0]
}

func (o *Orchestrator[C]) emit(ev Event) {
	ev.Displayed = o.slot.Page
	if ev.Target == "" {
		ev.Target = o.target
	}
	if ev.Kind != EventPhase {
		ev.Phase = o.phase
	}
	ev.Profile = o.profile
	ev.RequestID = o.requestID
	for _, obs := range o.observers {
		obs.OnTransitionEvent(ev)
	}
}
