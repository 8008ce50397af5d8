package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/timeline"
	"github.com/lixenwraith/stagefx/transition"
)

func TestMetrics_TracksOrchestrator(t *testing.T) {
	m := New(false)
	sched := engine.NewVirtualScheduler(time.Unix(0, 0))
	o := transition.New(transition.Config[string]{
		Scheduler: sched,
		Policy:    motion.NewPolicy(motion.Static(false), nil),
		Initial:   "home",
	})
	o.Subscribe(m)

	o.RequestTransition("about")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitioning))
	assert.Equal(t, float64(timeline.PhaseHiding), testutil.ToFloat64(m.phase))

	sched.Advance(10 * time.Millisecond)
	o.RequestTransition("contact")
	sched.Advance(5 * time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requested))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.started.WithLabelValues("full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retargeted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completed))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.transitioning))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.phases.WithLabelValues("swapping")))
	assert.Equal(t, float64(timeline.PhaseIdle), testutil.ToFloat64(m.phase))
}

func TestMetrics_FramesAndHandler(t *testing.T) {
	m := New(true)
	m.ObserveFrame(0.25, 7)
	m.ObserveFrame(0.5, 9)
	m.ObserveDuration(2.2)
	m.OnTransitionEvent(transition.Event{Kind: transition.EventStale})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.scroll))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.dustWraps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "stagefx_render_frames_total 2"))
	assert.True(t, strings.Contains(body, "stagefx_transition_duration_seconds_count 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
