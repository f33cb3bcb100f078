package feedback

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// tone is a fixed-length sine oscillator.
type tone struct {
	freq     float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

// Tone streams a sine of freq Hz for d.
func Tone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.position >= t.length {
		return 0, false
	}
	for i := range samples {
		if t.position >= t.length {
			return i, true
		}
		v := math.Sin(2 * math.Pi * t.phase)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// Envelope shapes s over d, ramping up for attack and down for release.
func Envelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.total {
		return 0, false
	}
	if rest := e.total - e.position; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain(e.position)
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) gain(pos int) float64 {
	switch {
	case e.attack > 0 && pos < e.attack:
		return float64(pos) / float64(e.attack)
	case e.release > 0 && pos >= e.total-e.release:
		return float64(e.total-pos) / float64(e.release)
	default:
		return 1
	}
}

func (e *envelope) Err() error { return e.streamer.Err() }

// pulseFreq gives each kind its own pitch; heavier kinds sit lower.
func pulseFreq(k Kind) float64 {
	switch k {
	case Light:
		return 240
	case Selection:
		return 320
	case Medium:
		return 180
	case Heavy, Impact:
		return 110
	default:
		return 200
	}
}

// Pulse builds the click played for a feedback kind.
func Pulse(k Kind, d time.Duration, rate beep.SampleRate) beep.Streamer {
	edge := d / 5
	return Envelope(Tone(pulseFreq(k), d, rate), d, edge, edge, rate)
}

// Chime builds the synthesized breath chime.
func Chime(freq float64, rate beep.SampleRate) beep.Streamer {
	const length = 400 * time.Millisecond
	return Envelope(Tone(freq, length, rate), length, 15*time.Millisecond, 300*time.Millisecond, rate)
}
