package main

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/stagefx/audio"
	"github.com/lixenwraith/stagefx/config"
)

// speakerBuffer trades latency for underrun safety
const speakerBuffer = 100 * time.Millisecond

// startSpeaker opens the audio device and streams a shared mixer into it
func startSpeaker(cfg config.AudioConfig) (*audio.MixerSink, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	sink := audio.NewMixerSink()
	speaker.Play(sink)
	return sink, nil
}
