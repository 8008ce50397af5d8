package app

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/stagefx/audio"
	"github.com/lixenwraith/stagefx/config"
	"github.com/lixenwraith/stagefx/content"
	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/render"
	"github.com/lixenwraith/stagefx/scroll"
	"github.com/lixenwraith/stagefx/telemetry"
	"github.com/lixenwraith/stagefx/timeline"
)

const frame = time.Second / 60

type harness struct {
	sched   *engine.VirtualScheduler
	show    *Showcase
	metrics *telemetry.Metrics
	cues    int
}

func newHarness(t *testing.T, capability motion.Capability) *harness {
	t.Helper()
	h := &harness{
		sched:   engine.NewVirtualScheduler(time.Unix(1_700_000_000, 0)),
		metrics: telemetry.New(false),
	}
	show, err := New(Options{
		Config:     config.Default(),
		Scheduler:  h.sched,
		Capability: capability,
		Sink:       audio.SinkFunc(func(beep.Streamer) { h.cues++ }),
		Metrics:    h.metrics,
	})
	require.NoError(t, err)
	t.Cleanup(show.Close)
	h.show = show
	return h
}

// step advances the clock and renders one frame, like the host loop
func (h *harness) step(d time.Duration) {
	h.sched.Advance(d)
	h.show.Frame(d)
}

func TestNew_RequiresScheduler(t *testing.T) {
	_, err := New(Options{Config: config.Default()})
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Timelines.Full = nil
	_, err = New(Options{Config: cfg, Scheduler: engine.NewVirtualScheduler(time.Time{})})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestShowcase_FullTransition(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	home := h.show.Frame(frame)
	assert.Equal(t, content.Home, home.Page.ID)
	assert.True(t, home.Visible)

	h.show.Navigate(content.About)
	f := h.show.Frame(frame)
	assert.Equal(t, timeline.PhaseHiding, f.State.Phase)
	assert.Equal(t, timeline.MotionFull, f.State.Profile)
	assert.Equal(t, content.Home, f.Page.ID, "old content stays until the swap")
	assert.False(t, f.Visible)

	h.step(timeline.FullSwitchDelay)
	f = h.show.Frame(frame)
	assert.Equal(t, timeline.PhaseSwapping, f.State.Phase)
	assert.Equal(t, content.About, f.Page.ID)
	assert.Equal(t, "About", f.Page.Title)

	h.step(timeline.FullShowContentDelay - timeline.FullSwitchDelay)
	assert.Equal(t, timeline.PhaseRevealing, h.show.State().Phase)

	h.step(timeline.FullEndDelay - timeline.FullShowContentDelay)
	f = h.show.Frame(frame)
	assert.Equal(t, timeline.PhaseIdle, f.State.Phase)
	assert.False(t, f.State.Transitioning)
	assert.True(t, f.Visible)
	assert.Equal(t, 3, h.cues, "hide, swap and reveal cues")

	expected := `
# HELP stagefx_transition_completed_total Transitions that returned to idle.
# TYPE stagefx_transition_completed_total counter
stagefx_transition_completed_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(h.metrics.Registry(), strings.NewReader(expected), "stagefx_transition_completed_total"))
}

func TestShowcase_ReducedMotionToggle(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, timeline.MotionFull, h.show.PreferredProfile())

	assert.Equal(t, timeline.MotionReduced, h.show.ToggleReducedMotion())
	assert.Equal(t, timeline.MotionReduced, h.show.PreferredProfile())

	h.show.Navigate(content.Work)
	assert.Equal(t, timeline.MotionReduced, h.show.State().Profile)

	// Toggling mid-flight does not change the running timeline
	h.show.ToggleReducedMotion()
	h.step(timeline.ReducedEndDelay)
	assert.False(t, h.show.State().Transitioning)
	assert.Equal(t, content.Work, h.show.State().Displayed)
}

func TestShowcase_RapidNavigationConverges(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	for _, i := range []int{1, 2, 3, 4, 5} {
		require.True(t, h.show.NavigateIndex(i))
		h.step(50 * time.Millisecond)
	}
	assert.False(t, h.show.NavigateIndex(6))
	assert.False(t, h.show.NavigateIndex(-1))

	for i := 0; i < 400 && h.show.State().Transitioning; i++ {
		h.step(frame)
	}
	st := h.show.State()
	assert.False(t, st.Transitioning)
	assert.Equal(t, content.Contact, st.Displayed)
	assert.Equal(t, timeline.PhaseIdle, st.Phase)
}

func TestShowcase_ScrollDrivesField(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	h.show.Scroll(2)
	assert.Equal(t, 6.0, h.show.Bridge().Raw())

	f := h.show.Frame(frame)
	first := f.Progress
	assert.Greater(t, first, 0.0)
	for i := 0; i < 59; i++ {
		f = h.show.Frame(frame)
	}
	assert.Greater(t, f.Progress, first)
	assert.InDelta(t, 0.15, f.Progress, 0.005)
	assert.Equal(t, uint64(60), h.show.Field().Frames())

	h.show.Scroll(-100)
	assert.Zero(t, h.show.Bridge().Raw(), "clamped at the top")
}

func TestShowcase_RetargetWhileHidingNeverBrightens(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	h.show.Navigate(content.About)
	h.step(800 * time.Millisecond)

	f := h.show.Frame(frame)
	last := render.PanelOpacity(f.State, f.Visible)
	require.Equal(t, timeline.PhaseHiding, f.State.Phase)

	h.show.Navigate(content.Contact)
	for i := 0; i < 200; i++ {
		h.step(frame)
		f = h.show.Frame(0)
		if f.State.Phase != timeline.PhaseHiding {
			break
		}
		op := render.PanelOpacity(f.State, f.Visible)
		if op > last {
			t.Fatalf("opacity rose from %.4f to %.4f on frame %d after retarget", last, op, i)
		}
		last = op
	}
	assert.Zero(t, last, "hide fade completes before the delayed swap")
	assert.Equal(t, timeline.PhaseSwapping, f.State.Phase)
	assert.Equal(t, content.Contact, f.Page.ID)
}

func TestShowcase_ScrollEasingFrameLocked(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	require.True(t, h.show.Config().Scroll.FrameLocked)
	h.show.Scroll(2)

	// A long frame still applies exactly one k step
	h.show.Frame(3 * frame)
	assert.InDelta(t, 6*scroll.DefaultEasing, h.show.Bridge().Smoothed(), 1e-12)

	cfg := config.Default()
	cfg.Scroll.FrameLocked = false
	require.NoError(t, h.show.ApplyConfig(cfg))

	before := h.show.Bridge().Smoothed()
	h.show.Frame(3 * frame)
	want := 6 - (6-before)*math.Pow(1-scroll.DefaultEasing, 3)
	assert.InDelta(t, want, h.show.Bridge().Smoothed(), 1e-9)
}

func TestShowcase_ApplyConfigNextTransitionOnly(t *testing.T) {
	h := newHarness(t, motion.Static(false))
	field := h.show.Field()

	h.show.Navigate(content.Blog)
	h.step(100 * time.Millisecond)

	cfg := config.Default()
	cfg.Timelines.Full = []timeline.Step{
		{At: 0, Action: timeline.ActionHide},
		{At: 200 * time.Millisecond, Action: timeline.ActionSwap},
		{At: 300 * time.Millisecond, Action: timeline.ActionReveal},
		{At: 400 * time.Millisecond, Action: timeline.ActionEnd},
	}
	cfg.Scroll.Easing = 0.5
	cfg.Audio.Volume = 0.1
	require.NoError(t, h.show.ApplyConfig(cfg))
	assert.Same(t, field, h.show.Field(), "unchanged particles keep the field")
	assert.Equal(t, 0.5, h.show.Bridge().Easing())

	h.step(timeline.FullEndDelay - 101*time.Millisecond)
	assert.True(t, h.show.State().Transitioning, "in-flight transition keeps its timeline")
	h.step(time.Millisecond)
	assert.False(t, h.show.State().Transitioning)

	h.show.Navigate(content.Home)
	h.step(400 * time.Millisecond)
	assert.False(t, h.show.State().Transitioning)
	assert.Equal(t, content.Home, h.show.State().Displayed)

	cfg.Particles.Seed++
	require.NoError(t, h.show.ApplyConfig(cfg))
	assert.NotSame(t, field, h.show.Field())

	bad := config.Default()
	bad.Scroll.Easing = 0
	assert.ErrorIs(t, h.show.ApplyConfig(bad), config.ErrInvalid)
	assert.Equal(t, 0.5, h.show.Config().Scroll.Easing, "rejected config leaves the active one")
}

func TestShowcase_MuteAndSilentAudio(t *testing.T) {
	h := newHarness(t, motion.Static(true))
	assert.False(t, h.show.Muted())
	assert.True(t, h.show.ToggleMute())
	h.show.Navigate(content.About)
	h.step(timeline.ReducedEndDelay)
	assert.Zero(t, h.cues)

	silent, err := New(Options{Config: config.Default(), Scheduler: engine.NewVirtualScheduler(time.Time{})})
	require.NoError(t, err)
	defer silent.Close()
	assert.True(t, silent.Muted())
	assert.False(t, silent.ToggleMute())
}

func TestShowcase_DrawToScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(100, 30)

	h := newHarness(t, motion.Static(false))
	h.show.Draw(screen, frame)

	found := false
	for y := 0; y < 30 && !found; y++ {
		var sb strings.Builder
		for x := 0; x < 100; x++ {
			r, _, _, _ := screen.GetContent(x, y)
			sb.WriteRune(r)
		}
		found = strings.Contains(sb.String(), "Websites that move.")
	}
	assert.True(t, found, "home tagline rendered")
}
