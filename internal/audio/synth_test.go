package audio

import (
	"testing"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/gopxl/beep"
)

var allSounds = []game.Sound{
	game.SoundShoot, game.SoundHit, game.SoundExplosion, game.SoundMarker,
	game.SoundPlayerHit, game.SoundGameOver, game.SoundBoost,
}

// drain streams s to completion and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if smp[0] > peak {
				peak = smp[0]
			}
			if -smp[0] > peak {
				peak = -smp[0]
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("cue never ended")
	return 0, 0
}

func TestCue_EverySoundFinite(t *testing.T) {
	for _, snd := range allSounds {
		t.Run(snd.String(), func(t *testing.T) {
			s, err := cue(sampleRate, snd, 1)
			if err != nil {
				t.Fatalf("cue: %v", err)
			}
			want := 0
			for _, n := range cueNotes[snd] {
				want += sampleRate.N(n.dur)
			}
			got, peak := drain(t, s)
			if got != want {
				t.Errorf("got %d samples, want %d", got, want)
			}
			if peak <= 0 || peak > 1 {
				t.Errorf("peak %.3f out of range", peak)
			}
		})
	}
}

func TestCue_Unknown(t *testing.T) {
	if _, err := cue(sampleRate, game.Sound(99), 1); err == nil {
		t.Fatal("expected an error for an unknown sound")
	}
}

func TestCue_MutedIsSilent(t *testing.T) {
	s, err := cue(sampleRate, game.SoundExplosion, 0)
	if err != nil {
		t.Fatalf("cue: %v", err)
	}
	if _, peak := drain(t, s); peak != 0 {
		t.Fatalf("muted cue peaked at %.3f", peak)
	}
}

func TestCueDuration(t *testing.T) {
	if d := cueDuration(game.SoundGameOver).Milliseconds(); d != 800 {
		t.Fatalf("game over cue lasts %dms, want 800", d)
	}
}

func TestDecay_FadesOut(t *testing.T) {
	ones := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	d := newDecay(beep.Take(100, ones), 100)
	buf := make([][2]float64, 100)
	n, _ := d.Stream(buf)
	if n != 100 {
		t.Fatalf("streamed %d", n)
	}
	if buf[0][0] != 1 || buf[50][0] != 0.5 || buf[99][0] >= 0.02 {
		t.Fatalf("unexpected envelope: %v %v %v", buf[0][0], buf[50][0], buf[99][0])
	}
}

func TestSynth_PlayBeforeInitIsNoop(t *testing.T) {
	s := NewSynth(0.5, nil)
	s.Play(game.SoundShoot)
	if v := s.Voices(); v != 0 {
		t.Fatalf("expected no voices before Init, got %d", v)
	}
	s.Close()
}

func TestSynth_VoicesCapped(t *testing.T) {
	s := NewSynth(0.5, nil)
	s.initialized = true
	s.Play(game.SoundHit)
	if v := s.Voices(); v != 1 {
		t.Fatalf("expected 1 voice, got %d", v)
	}
	for i := 0; i < 2*maxVoices; i++ {
		s.Play(game.SoundShoot)
	}
	if v := s.Voices(); v != maxVoices {
		t.Fatalf("expected voices capped at %d, got %d", maxVoices, v)
	}
	s.Close()
	if v := s.Voices(); v != 0 {
		t.Fatalf("Close should clear the mixer, got %d", v)
	}
}
