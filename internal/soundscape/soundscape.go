// Package soundscape implements the fixed-size voice bank: first-free note
// allocation, CC broadcast, and the averaging mixer that turns N voices
// into one output sample.
package soundscape

import (
	"fmt"

	"github.com/cleartone/patchsynth/internal/component"
	"github.com/cleartone/patchsynth/internal/voice"
)

// VoiceFactory builds one fresh voice instance from a patch. Soundscape
// calls it exactly polyphony times at construction.
type VoiceFactory func() (*voice.Voice, error)

// Soundscape is a fixed-length bank of voices sharing one patch, a
// monophonic-per-voice note allocator (no stealing), and an averaging
// mixer. The bank is never resized after New returns.
type Soundscape struct {
	voices []*voice.Voice
}

// New builds a soundscape of polyphony voices by invoking build that many
// times. Construction fails if any voice fails to build.
func New(polyphony int, build VoiceFactory) (*Soundscape, error) {
	voices := make([]*voice.Voice, 0, polyphony)
	for i := 0; i < polyphony; i++ {
		v, err := build()
		if err != nil {
			return nil, fmt.Errorf("soundscape: building voice %d: %w", i, err)
		}
		voices = append(voices, v)
	}
	return &Soundscape{voices: voices}, nil
}

// Polyphony returns the fixed number of voices in the bank.
func (s *Soundscape) Polyphony() int { return len(s.voices) }

// NoteOn assigns freq to the first voice whose CurrentFrequency is none. If
// every voice is in use, the note is silently dropped: no voice stealing.
func (s *Soundscape) NoteOn(freq, velocity float32) {
	for _, v := range s.voices {
		if _, gated := v.CurrentFrequency(); !gated {
			v.NoteOn(freq, velocity)
			return
		}
	}
}

// NoteOff releases every voice currently holding freq.
func (s *Soundscape) NoteOff(freq float32) {
	for _, v := range s.voices {
		if f, gated := v.CurrentFrequency(); gated && f == freq {
			v.NoteOff()
		}
	}
}

// ControlChange broadcasts a CC value to every voice.
func (s *Soundscape) ControlChange(cc uint8, value float32) {
	for _, v := range s.voices {
		v.ControlChange(cc, value)
	}
}

// Generate sums every voice's generated sample and divides by the
// polyphony, producing the mixed output for this tick.
func (s *Soundscape) Generate() float32 {
	var sum float32
	for _, v := range s.voices {
		sum += v.Generate()
	}
	return sum / float32(len(s.voices))
}

// HandleAudioPropertyChange fans prop out to every voice.
func (s *Soundscape) HandleAudioPropertyChange(prop component.AudioProperty) {
	for _, v := range s.voices {
		v.HandleAudioPropertyChange(prop)
	}
}
