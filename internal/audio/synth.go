// Package audio plays the core's sound cues through the system speaker.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	// maxVoices bounds concurrent cues so rapid fire cannot pile up.
	maxVoices = 16
)

// Synth implements game.Audio with synthesized cues. Play is a no-op until
// Init succeeds, so a game can run muted on machines without a sound device.
type Synth struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *slog.Logger
}

// NewSynth returns an uninitialised synth at the given master volume (0..1).
func NewSynth(volume float64, logger *slog.Logger) *Synth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synth{
		sr:     sampleRate,
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger,
	}
}

// Init opens the speaker and starts the mixer.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.sr, s.sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play implements game.Audio.
func (s *Synth) Play(snd game.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	st, err := cue(s.sr, snd, s.volume)
	if err != nil {
		s.logger.Warn("audio cue skipped", "sound", snd.String(), "err", err)
		return
	}
	s.add(st)
}

// add hands st to the mixer. The speaker goroutine reads the mixer, so the
// speaker lock is held while it changes.
func (s *Synth) add(st beep.Streamer) {
	speaker.Lock()
	defer speaker.Unlock()
	if s.mixer.Len() >= maxVoices {
		return
	}
	s.mixer.Add(st)
}

// Voices is the number of cues still playing.
func (s *Synth) Voices() int {
	speaker.Lock()
	defer speaker.Unlock()
	return s.mixer.Len()
}

// Close silences every cue.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}
