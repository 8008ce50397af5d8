package transition

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/timeline"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

const ms = time.Millisecond

type phaseMark struct {
	phase timeline.Phase
	at    time.Duration
}

// recorder captures events with offsets from epoch
type recorder struct {
	events []Event
}

func (r *recorder) OnTransitionEvent(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) phases() []phaseMark {
	var out []phaseMark
	for _, ev := range r.events {
		if ev.Kind == EventPhase {
			out = append(out, phaseMark{ev.Phase, ev.At.Sub(epoch)})
		}
	}
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) swaps() []PageID {
	var out []PageID
	for _, ev := range r.events {
		if ev.Kind == EventPhase && ev.Phase == timeline.PhaseSwapping {
			out = append(out, ev.Displayed)
		}
	}
	return out
}

func newTestOrchestrator(capability motion.Capability) (*Orchestrator[string], *engine.VirtualScheduler, *recorder) {
	sched := engine.NewVirtualScheduler(epoch)
	o := New(Config[string]{
		Scheduler: sched,
		Policy:    motion.NewPolicy(capability, nil),
		Resolve:   func(id PageID) string { return "content:" + string(id) },
		Initial:   "home",
	})
	rec := &recorder{}
	o.Subscribe(rec)
	return o, sched, rec
}

func TestOrchestrator_FullMotionTimeline(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	require.Equal(t, timeline.PhaseIdle, o.Phase())
	require.False(t, o.IsTransitioning())

	o.RequestTransition("about")
	assert.Equal(t, timeline.PhaseHiding, o.Phase())
	assert.True(t, o.IsTransitioning())
	assert.Equal(t, PageID("home"), o.Displayed(), "content must not swap while hiding")

	sched.Advance(1099 * ms)
	assert.Equal(t, timeline.PhaseHiding, o.Phase())

	sched.Advance(1 * ms)
	assert.Equal(t, timeline.PhaseSwapping, o.Phase())
	assert.Equal(t, PageID("about"), o.Displayed())
	assert.False(t, o.Content().Visible)

	sched.Advance(500 * ms)
	assert.Equal(t, timeline.PhaseRevealing, o.Phase())
	assert.True(t, o.Content().Visible)

	sched.Advance(600 * ms)
	assert.Equal(t, timeline.PhaseIdle, o.Phase())
	assert.False(t, o.IsTransitioning())

	assert.Equal(t, []phaseMark{
		{timeline.PhaseHiding, 0},
		{timeline.PhaseSwapping, 1100 * ms},
		{timeline.PhaseRevealing, 1600 * ms},
		{timeline.PhaseIdle, 2200 * ms},
	}, rec.phases())
	assert.Equal(t, 1, rec.count(EventCompleted))
	assert.Equal(t, "content:about", o.Content().Content)
	assert.Zero(t, sched.Pending())
}

func TestOrchestrator_ReducedMotionTimeline(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(true))

	o.RequestTransition("about")
	sched.Advance(5 * time.Second)

	assert.Equal(t, []phaseMark{
		{timeline.PhaseHiding, 0},
		{timeline.PhaseSwapping, 500 * ms},
		{timeline.PhaseRevealing, 700 * ms},
		{timeline.PhaseIdle, 1000 * ms},
	}, rec.phases())
	assert.Equal(t, timeline.MotionReduced, rec.events[len(rec.events)-1].Profile)
}

func TestOrchestrator_MotionSampledOnceAtStart(t *testing.T) {
	override := motion.NewOverride(motion.Static(true))
	o, sched, rec := newTestOrchestrator(override)

	o.RequestTransition("about")
	sched.Advance(100 * ms)

	// Preference flips mid-flight, including across a retarget
	override.Set(false)
	o.RequestTransition("contact")
	sched.Advance(5 * time.Second)

	assert.Equal(t, []phaseMark{
		{timeline.PhaseHiding, 0},
		{timeline.PhaseSwapping, 600 * ms},
		{timeline.PhaseRevealing, 800 * ms},
		{timeline.PhaseIdle, 1100 * ms},
	}, rec.phases())

	// Next transition samples the new preference
	rec.events = nil
	o.RequestTransition("home")
	assert.Equal(t, timeline.MotionFull, o.State().Profile)
	sched.Advance(5 * time.Second)
	assert.Equal(t, 2200*ms, rec.phases()[3].at-rec.phases()[0].at)
}

func TestOrchestrator_RapidDoubleRequest(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	var transitions []bool
	o.Subscribe(ObserverFunc(func(ev Event) {
		if ev.Kind == EventStarted || ev.Kind == EventCompleted {
			transitions = append(transitions, ev.Kind == EventStarted)
		}
	}))

	o.RequestTransition("about")
	sched.Advance(40 * ms)
	o.RequestTransition("contact")

	// The first request's swap time (1100ms) passes without a swap
	sched.Advance(1080 * ms)
	assert.Equal(t, PageID("home"), o.Displayed())
	assert.Equal(t, timeline.PhaseHiding, o.Phase())

	sched.Advance(10 * time.Second)

	assert.Equal(t, PageID("contact"), o.Displayed())
	assert.Equal(t, []PageID{"contact"}, rec.swaps(), "exactly one visible swap")
	assert.Equal(t, []bool{true, false}, transitions)

	phases := rec.phases()
	require.Len(t, phases, 4)
	assert.Equal(t, phaseMark{timeline.PhaseHiding, 0}, phases[0])
	assert.Equal(t, phaseMark{timeline.PhaseSwapping, 40*ms + 1100*ms}, phases[1])
	assert.Equal(t, phaseMark{timeline.PhaseRevealing, 40*ms + 1600*ms}, phases[2])
	assert.Equal(t, phaseMark{timeline.PhaseIdle, 40*ms + 2200*ms}, phases[3])
}

func TestOrchestrator_RetargetAfterSwapRehides(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	sched.Advance(1700 * ms) // revealing "about"
	require.Equal(t, timeline.PhaseRevealing, o.Phase())

	o.RequestTransition("contact")
	assert.Equal(t, timeline.PhaseHiding, o.Phase())
	assert.True(t, o.IsTransitioning())

	sched.Advance(10 * time.Second)
	assert.Equal(t, PageID("contact"), o.Displayed())
	assert.Equal(t, []PageID{"about", "contact"}, rec.swaps())
	assert.Equal(t, 1, rec.count(EventStarted))
	assert.Equal(t, 1, rec.count(EventCompleted))
	assert.Equal(t, 1700*ms+2200*ms, rec.phases()[len(rec.phases())-1].at)
}

func TestOrchestrator_IdenticalRequestIsNoop(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("home")
	assert.False(t, o.IsTransitioning())
	assert.Empty(t, rec.events)

	o.RequestTransition("about")
	sched.Advance(300 * ms)
	before := len(rec.events)
	o.RequestTransition("about")
	assert.Len(t, rec.events, before, "repeating the pending target changes nothing")

	sched.Advance(10 * time.Second)
	assert.Equal(t, 2200*ms, rec.phases()[3].at)
}

func TestOrchestrator_PhaseTickIdempotent(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	sched.Advance(1100 * ms)
	require.Equal(t, timeline.PhaseSwapping, o.Phase())

	// Timer drift: the swap tick arrives twice
	before := len(rec.events)
	o.onPhaseTick(o.generation, 1)
	o.onPhaseTick(o.generation, 0)
	assert.Len(t, rec.events, before)
	assert.Equal(t, timeline.PhaseSwapping, o.Phase())

	sched.Advance(10 * time.Second)
	assert.Equal(t, 1, rec.count(EventCompleted))

	// Ticks after completion are inert
	o.onPhaseTick(o.generation, 3)
	assert.Equal(t, 1, rec.count(EventCompleted))
	assert.False(t, o.IsTransitioning())
}

func TestOrchestrator_StaleTickIgnored(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	staleGen := o.generation
	sched.Advance(50 * ms)
	o.RequestTransition("contact")

	// A callback from the first schedule escapes cancellation
	o.onPhaseTick(staleGen, 1)
	assert.Equal(t, PageID("home"), o.Displayed())
	assert.Equal(t, 1, rec.count(EventStale))

	sched.Advance(10 * time.Second)
	assert.Equal(t, PageID("contact"), o.Displayed())
}

func TestOrchestrator_LateTickNeverSkipsSwap(t *testing.T) {
	o, _, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	// Reveal tick delivered before swap tick
	o.onPhaseTick(o.generation, 2)

	assert.Equal(t, timeline.PhaseRevealing, o.Phase())
	assert.Equal(t, []PageID{"about"}, rec.swaps())
	phases := rec.phases()
	require.Len(t, phases, 3)
	assert.Equal(t, timeline.PhaseSwapping, phases[1].phase)
}

func TestOrchestrator_ConvergesToLatestRequest(t *testing.T) {
	pages := []PageID{"home", "about", "services", "work", "blog", "contact"}
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		o, sched, rec := newTestOrchestrator(motion.Static(trial%2 == 1))

		var transitions []bool
		o.Subscribe(ObserverFunc(func(ev Event) {
			if ev.Kind == EventStarted || ev.Kind == EventCompleted {
				transitions = append(transitions, ev.Kind == EventStarted)
			}
		}))

		last := o.Displayed()
		for n := rng.Intn(12) + 1; n > 0; n-- {
			last = pages[rng.Intn(len(pages))]
			o.RequestTransition(last)
			sched.Advance(time.Duration(rng.Intn(2500)) * ms)
		}
		sched.Advance(10 * time.Second)

		require.Equal(t, last, o.Displayed(), "trial %d", trial)
		require.False(t, o.IsTransitioning(), "trial %d", trial)
		require.Zero(t, sched.Pending(), "trial %d", trial)

		// Strict alternation: every start is matched by exactly one completion
		for i, v := range transitions {
			require.Equal(t, i%2 == 0, v, "trial %d transition %d", trial, i)
		}
		require.Equal(t, 0, len(transitions)%2, "trial %d", trial)
		require.Equal(t, rec.count(EventStarted), rec.count(EventCompleted))
	}
}

func TestOrchestrator_StateSnapshot(t *testing.T) {
	o, sched, _ := newTestOrchestrator(motion.Static(false))

	st := o.State()
	assert.Equal(t, timeline.PhaseIdle, st.Phase)
	assert.Zero(t, st.PhaseProgress())

	o.RequestTransition("about")
	sched.Advance(550 * ms)

	st = o.State()
	assert.Equal(t, PageID("home"), st.Displayed)
	assert.Equal(t, PageID("about"), st.Target)
	assert.NotEmpty(t, st.RequestID)
	assert.Equal(t, 550*ms, st.Elapsed)
	assert.Equal(t, 2200*ms, st.Duration)
	assert.Equal(t, 1100*ms, st.PhaseLength)
	assert.Equal(t, 1100*ms, st.PhaseSpan)
	assert.InDelta(t, 0.5, st.PhaseProgress(), 1e-9)
	assert.InDelta(t, 0.5, st.EffectProgress(), 1e-9)

	// Retarget while hiding extends the phase without restarting it
	o.RequestTransition("contact")
	st = o.State()
	assert.Equal(t, 550*ms, st.PhaseElapsed)
	assert.Equal(t, 550*ms+1100*ms, st.PhaseLength)
	assert.Equal(t, 1100*ms, st.PhaseSpan)
	assert.InDelta(t, 0.5, st.EffectProgress(), 1e-9)
}

func TestOrchestrator_EffectProgressMonotonicAcrossRetarget(t *testing.T) {
	o, sched, _ := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	sched.Advance(800 * ms)
	last := o.State().EffectProgress()

	o.RequestTransition("contact")
	for o.State().Phase == timeline.PhaseHiding {
		p := o.State().EffectProgress()
		if p < last {
			t.Fatalf("hide progress regressed from %.4f to %.4f at %v", last, p, sched.Now().Sub(epoch))
		}
		last = p
		sched.Advance(16 * ms)
	}
	assert.Equal(t, 1.0, last, "hide effect holds at completion until the delayed swap")
	assert.Equal(t, timeline.PhaseSwapping, o.State().Phase)
	assert.Equal(t, PageID("contact"), o.Displayed())

	// Reveal gets its own nominal span
	sched.Advance(500 * ms)
	st := o.State()
	require.Equal(t, timeline.PhaseRevealing, st.Phase)
	assert.Equal(t, 600*ms, st.PhaseSpan)
}

func TestOrchestrator_SetTimelinesAppliesToNextTransition(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	fast, err := timeline.Standard(10*ms, 20*ms, 30*ms)
	require.NoError(t, err)

	o.RequestTransition("about")
	sched.Advance(100 * ms)
	o.SetTimelines(timeline.Set{Full: fast, Reduced: fast})
	sched.Advance(10 * time.Second)
	assert.Equal(t, 2200*ms, rec.phases()[3].at)

	rec.events = nil
	start := sched.Now().Sub(epoch)
	o.RequestTransition("blog")
	sched.Advance(time.Second)
	assert.Equal(t, start+30*ms, rec.phases()[3].at)

	// Incomplete sets are rejected
	o.SetTimelines(timeline.Set{})
	assert.Equal(t, 30*ms, o.timelines.Full.Duration())
}

func TestOrchestrator_CloseCancelsTimers(t *testing.T) {
	o, sched, rec := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	o.Close()
	sched.Advance(10 * time.Second)

	assert.Equal(t, PageID("home"), o.Displayed())
	assert.Zero(t, rec.count(EventCompleted))
	assert.Zero(t, sched.Pending())
}

func TestOrchestrator_CloseMidFlightSettlesState(t *testing.T) {
	o, sched, _ := newTestOrchestrator(motion.Static(false))

	o.RequestTransition("about")
	sched.Advance(1200 * ms)
	require.True(t, o.IsTransitioning())
	require.Equal(t, PageID("about"), o.Displayed())

	o.Close()
	st := o.State()
	assert.False(t, o.IsTransitioning())
	assert.False(t, st.Transitioning)
	assert.Equal(t, timeline.PhaseIdle, st.Phase)
	assert.Equal(t, PageID("about"), st.Target)
	assert.True(t, o.Content().Visible)

	// A closed orchestrator still accepts a fresh request
	o.RequestTransition("contact")
	assert.True(t, o.IsTransitioning())
	sched.Advance(3 * time.Second)
	assert.Equal(t, PageID("contact"), o.Displayed())
	assert.False(t, o.IsTransitioning())
}
