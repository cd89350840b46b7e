package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

// note is one segment of a cue.
type note struct {
	wave wave
	freq float64
	dur  time.Duration
}

// cueNotes lists the segments played back to back for each sound.
var cueNotes = map[game.Sound][]note{
	game.SoundShoot:     {{waveSquare, 880, 60 * time.Millisecond}},
	game.SoundHit:       {{waveSine, 440, 80 * time.Millisecond}},
	game.SoundExplosion: {{waveNoise, 0, 400 * time.Millisecond}},
	game.SoundMarker:    {{waveSine, 1320, 60 * time.Millisecond}, {waveSine, 1760, 60 * time.Millisecond}},
	game.SoundPlayerHit: {{waveSaw, 110, 150 * time.Millisecond}},
	game.SoundGameOver: {
		{waveSine, 440, 200 * time.Millisecond},
		{waveSine, 330, 200 * time.Millisecond},
		{waveSine, 220, 400 * time.Millisecond},
	},
	game.SoundBoost: {{waveSaw, 220, 250 * time.Millisecond}},
}

// cueGain is the per-sound volume before the master volume.
var cueGain = map[game.Sound]float64{
	game.SoundShoot:     0.25,
	game.SoundHit:       0.4,
	game.SoundExplosion: 0.6,
	game.SoundMarker:    0.5,
	game.SoundPlayerHit: 0.5,
	game.SoundGameOver:  0.6,
	game.SoundBoost:     0.35,
}

// cueDuration is the total length of a cue.
func cueDuration(snd game.Sound) time.Duration {
	var d time.Duration
	for _, n := range cueNotes[snd] {
		d += n.dur
	}
	return d
}

// cue builds a finite streamer for snd at the given master volume.
func cue(sr beep.SampleRate, snd game.Sound, master float64) (beep.Streamer, error) {
	notes, ok := cueNotes[snd]
	if !ok {
		return nil, fmt.Errorf("no cue for sound %v", snd)
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		s, err := tone(sr, n)
		if err != nil {
			return nil, fmt.Errorf("cue %v: %w", snd, err)
		}
		parts = append(parts, newDecay(beep.Take(sr.N(n.dur), s), sr.N(n.dur)))
	}
	return newVolume(beep.Seq(parts...), cueGain[snd]*master), nil
}

func tone(sr beep.SampleRate, n note) (beep.Streamer, error) {
	switch n.wave {
	case waveSine:
		return generators.SineTone(sr, n.freq)
	case waveSquare:
		return generators.SquareTone(sr, n.freq)
	case waveSaw:
		return generators.SawtoothTone(sr, n.freq)
	case waveNoise:
		return noise(), nil
	}
	return nil, fmt.Errorf("unknown wave %d", n.wave)
}

func noise() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rand.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	})
}

// decay fades a streamer linearly to silence over total samples.
type decay struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func newDecay(s beep.Streamer, total int) beep.Streamer {
	return &decay{streamer: s, total: total}
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 0.0
		if d.total > 0 {
			vol = math.Max(0, 1-float64(d.pos)/float64(d.total))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume wraps s at a linear volume. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
