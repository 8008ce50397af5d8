package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"github.com/lixenwraith/stagefx/transition"
)

// Sink plays a finished streamer; the speaker is only touched by the binary
type Sink interface {
	Play(beep.Streamer)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(beep.Streamer)

func (f SinkFunc) Play(s beep.Streamer) { f(s) }

// MixerSink queues cues into a beep.Mixer that something else streams
type MixerSink struct {
	mu    sync.Mutex
	mixer *beep.Mixer
}

// NewMixerSink creates an empty mixer sink
func NewMixerSink() *MixerSink {
	return &MixerSink{mixer: &beep.Mixer{}}
}

func (m *MixerSink) Play(s beep.Streamer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mixer.Add(s)
}

// Stream implements beep.Streamer so the sink can feed a speaker
func (m *MixerSink) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Stream(samples)
}

func (m *MixerSink) Err() error { return nil }

// Len returns the number of active streamers
func (m *MixerSink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mixer.Len()
}

// CuePlayer turns orchestrator phase events into sounds
type CuePlayer struct {
	sink   Sink
	rate   beep.SampleRate
	volume float64
	muted  atomic.Bool
	logger *zap.Logger
}

// NewCuePlayer creates a player; a nil sink makes it silent
func NewCuePlayer(sink Sink, rate beep.SampleRate, volume float64, logger *zap.Logger) *CuePlayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rate <= 0 {
		rate = beep.SampleRate(44100)
	}
	return &CuePlayer{sink: sink, rate: rate, volume: volume, logger: logger.Named("audio")}
}

// SetVolume changes the level of subsequent cues
func (p *CuePlayer) SetVolume(volume float64) {
	p.volume = volume
}

// SetMuted silences subsequent cues
func (p *CuePlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// ToggleMute flips mute and returns the new state
func (p *CuePlayer) ToggleMute() bool {
	for {
		cur := p.muted.Load()
		if p.muted.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Muted reports mute state
func (p *CuePlayer) Muted() bool {
	return p.muted.Load()
}

// OnTransitionEvent implements transition.Observer
func (p *CuePlayer) OnTransitionEvent(ev transition.Event) {
	if ev.Kind != transition.EventPhase || p.sink == nil || p.muted.Load() {
		return
	}
	cue := CueForPhase(ev.Phase)
	if cue == CueNone {
		return
	}
	s := NewCue(cue, ev.Profile, p.volume, p.rate)
	if s == nil {
		return
	}
	p.logger.Debug("cue", zap.Stringer("cue", cue), zap.Stringer("profile", ev.Profile))
	p.sink.Play(s)
}
