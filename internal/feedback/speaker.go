package feedback

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// OutputRate is the sample rate of the audio device.
const OutputRate = beep.SampleRate(44100)

var errNotInitialized = errors.New("audio output not initialized")

// Speaker owns the audio device. Pulses and chimes are mixed into one
// stream behind a master volume.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	chime       *beep.Buffer
	chimeFreq   float64
	initialized bool
}

// NewSpeaker prepares the mixer. volume is linear in [0, 1].
func NewSpeaker(volume, chimeFreq float64) *Speaker {
	mixer := &beep.Mixer{}
	s := &Speaker{
		mixer:     mixer,
		master:    &effects.Volume{Streamer: mixer, Base: 2},
		chimeFreq: chimeFreq,
	}
	s.applyVolume(volume)
	return s
}

// Init opens the audio device. Calling it again is a no-op.
func (s *Speaker) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(OutputRate, OutputRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.master)
	s.initialized = true
	return nil
}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}

func (s *Speaker) Pulse(k Kind, d time.Duration) error {
	return s.play(Pulse(k, d, OutputRate))
}

// Chime plays the loaded chime, or the synthesized one when none is set.
func (s *Speaker) Chime() error {
	s.mu.Lock()
	buf := s.chime
	s.mu.Unlock()

	if buf != nil {
		return s.play(buf.Streamer(0, buf.Len()))
	}
	return s.play(Chime(s.chimeFreq, OutputRate))
}

// SetChime replaces the chime sample. nil restores the synthesized one.
func (s *Speaker) SetChime(buf *beep.Buffer) {
	s.mu.Lock()
	s.chime = buf
	s.mu.Unlock()
}

// SetMuted silences all output without dropping queued sounds.
func (s *Speaker) SetMuted(muted bool) {
	s.withLock(func() { s.master.Silent = muted })
}

func (s *Speaker) Muted() bool {
	var muted bool
	s.withLock(func() { muted = s.master.Silent })
	return muted
}

func (s *Speaker) play(st beep.Streamer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
	return nil
}

func (s *Speaker) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func (s *Speaker) applyVolume(v float64) {
	if v <= 0 {
		s.master.Silent = true
		return
	}
	s.master.Volume = math.Log2(math.Min(v, 1))
}
