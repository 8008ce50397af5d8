// Package app wires the transition orchestrator, scroll bridge, particle field and stage into one showcase
package app

import (
	"errors"
	"reflect"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/stagefx/audio"
	"github.com/lixenwraith/stagefx/config"
	"github.com/lixenwraith/stagefx/content"
	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/particle"
	"github.com/lixenwraith/stagefx/render"
	"github.com/lixenwraith/stagefx/scroll"
	"github.com/lixenwraith/stagefx/telemetry"
	"github.com/lixenwraith/stagefx/timeline"
	"github.com/lixenwraith/stagefx/transition"
)

// Options configures a Showcase
type Options struct {
	Config    config.Config
	Scheduler engine.Scheduler
	// Capability is the platform motion preference; the showcase wraps it in a runtime override
	Capability motion.Capability
	// Sink receives audio cues; nil or a disabled audio section keeps the showcase silent
	Sink    audio.Sink
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

// Showcase is the single-threaded composition root
// Every method must run on the scheduler's thread
type Showcase struct {
	cfg    config.Config
	sched  engine.Scheduler
	logger *zap.Logger

	override *motion.Override
	orch     *transition.Orchestrator[content.Page]
	bridge   *scroll.Bridge
	field    *particle.Field
	stage    *render.Stage
	cues     *audio.CuePlayer
	metrics  *telemetry.Metrics
	nav      []content.Page

	startedAt time.Time
}

// New builds a showcase displaying the home page
func New(opts Options) (*Showcase, error) {
	if opts.Scheduler == nil {
		return nil, errors.New("showcase requires a scheduler")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	set, err := opts.Config.TimelineSet()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Showcase{
		cfg:      opts.Config,
		sched:    opts.Scheduler,
		logger:   logger,
		override: motion.NewOverride(opts.Capability),
		bridge:   scroll.NewBridge(opts.Config.Scroll.Easing, opts.Config.Scroll.Extent),
		field:    particle.NewField(opts.Config.Particles),
		stage:    render.NewStage(opts.Config.Render),
		metrics:  opts.Metrics,
		nav:      content.Pages(),
	}

	s.orch = transition.New(transition.Config[content.Page]{
		Scheduler: opts.Scheduler,
		Timelines: set,
		Policy:    motion.NewPolicy(s.override, logger.Named("motion")),
		Resolve:   content.Lookup,
		Initial:   content.Home,
		Logger:    logger,
	})
	s.orch.Subscribe(transition.ObserverFunc(s.onTransitionEvent))

	if s.metrics != nil {
		s.orch.Subscribe(s.metrics)
	}

	a := opts.Config.Audio
	if a.Enabled && opts.Sink != nil {
		s.cues = audio.NewCuePlayer(opts.Sink, beep.SampleRate(a.SampleRate), a.Volume, logger)
		s.orch.Subscribe(s.cues)
	}

	return s, nil
}

func (s *Showcase) onTransitionEvent(ev transition.Event) {
	switch ev.Kind {
	case transition.EventStarted:
		s.startedAt = ev.At
	case transition.EventCompleted:
		if s.metrics != nil && !s.startedAt.IsZero() {
			s.metrics.ObserveDuration(ev.At.Sub(s.startedAt).Seconds())
		}
	}
}

// Navigate requests a page; unknown ids transition to a placeholder page
func (s *Showcase) Navigate(id transition.PageID) {
	s.orch.RequestTransition(id)
}

// NavigateIndex requests the i-th navigation entry, 0-based; false when out of range
func (s *Showcase) NavigateIndex(i int) bool {
	if i < 0 || i >= len(s.nav) {
		return false
	}
	s.Navigate(s.nav[i].ID)
	return true
}

// Scroll moves the raw scroll offset by lines scroll steps
func (s *Showcase) Scroll(lines float64) {
	s.bridge.Nudge(lines * s.cfg.Scroll.Step)
}

// ToggleReducedMotion flips the runtime preference; it applies from the next transition
func (s *Showcase) ToggleReducedMotion() timeline.MotionProfile {
	if s.override.Toggle() {
		return timeline.MotionReduced
	}
	return timeline.MotionFull
}

// PreferredProfile reports the profile the next transition would use
func (s *Showcase) PreferredProfile() timeline.MotionProfile {
	if reduced, err := s.override.PrefersReducedMotion(); err == nil && reduced {
		return timeline.MotionReduced
	}
	return timeline.MotionFull
}

// ToggleMute flips cue muting; false when audio is unavailable
func (s *Showcase) ToggleMute() bool {
	if s.cues == nil {
		return false
	}
	return s.cues.ToggleMute()
}

// Muted reports whether cues are silent, including when audio is unavailable
func (s *Showcase) Muted() bool {
	return s.cues == nil || s.cues.Muted()
}

// Frame advances per-frame state by dt and returns the snapshot to draw
// The scroll bridge ticks before the field so particles see this frame's progress
func (s *Showcase) Frame(dt time.Duration) render.Frame {
	if s.cfg.Scroll.FrameLocked {
		s.bridge.Tick()
	} else {
		s.bridge.TickFor(dt)
	}
	progress := s.bridge.Progress()
	s.field.Advance(dt, progress)
	if s.metrics != nil {
		s.metrics.ObserveFrame(progress, s.field.Wraps())
	}

	slot := s.orch.Content()
	return render.Frame{
		State:    s.orch.State(),
		Page:     slot.Content,
		Visible:  slot.Visible,
		Nav:      s.nav,
		Field:    s.field,
		Progress: progress,
		Muted:    s.Muted(),
		Dt:       dt,
	}
}

// Draw advances one frame and renders it to screen
func (s *Showcase) Draw(screen tcell.Screen, dt time.Duration) {
	s.stage.Draw(screen, s.Frame(dt))
	screen.Show()
}

// ApplyConfig swaps in a reloaded config
// Timelines apply from the next transition; an in-flight one keeps its schedule
func (s *Showcase) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	set, err := cfg.TimelineSet()
	if err != nil {
		return err
	}

	s.orch.SetTimelines(set)
	s.bridge.SetEasing(cfg.Scroll.Easing)
	s.bridge.SetExtent(cfg.Scroll.Extent)
	if !reflect.DeepEqual(cfg.Particles, s.cfg.Particles) {
		s.field = particle.NewField(cfg.Particles)
	}
	s.stage.Configure(cfg.Render)
	if s.cues != nil {
		s.cues.SetVolume(cfg.Audio.Volume)
	}

	s.cfg = cfg
	s.logger.Info("config applied")
	return nil
}

// Config returns the active configuration
func (s *Showcase) Config() config.Config {
	return s.cfg
}

// State returns the orchestrator snapshot
func (s *Showcase) State() transition.State {
	return s.orch.State()
}

// Orchestrator exposes the transition orchestrator for subscribers
func (s *Showcase) Orchestrator() *transition.Orchestrator[content.Page] {
	return s.orch
}

// Bridge exposes the scroll bridge
func (s *Showcase) Bridge() *scroll.Bridge {
	return s.bridge
}

// Field exposes the particle field
func (s *Showcase) Field() *particle.Field {
	return s.field
}

// Stage exposes the renderer
func (s *Showcase) Stage() *render.Stage {
	return s.stage
}

// Close stops pending transition timers
func (s *Showcase) Close() {
	s.orch.Close()
}
