// Package hostaudio binds a soundscape to an ebiten audio output device: a
// SampleSource that pulls one mono sample per frame and duplicates it to
// stereo, and a StreamReader/Player pair adapted from the host's ordinary
// float32 PCM streaming path.
package hostaudio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cleartone/patchsynth/internal/bridge"
	"github.com/cleartone/patchsynth/internal/component"
	"github.com/cleartone/patchsynth/internal/midi"
	"github.com/cleartone/patchsynth/internal/rtflag"
)

// SampleSource fills dst (interleaved stereo float32 frames) with generated
// audio. Called from the ebiten audio goroutine; must not block.
type SampleSource interface {
	Process(dst []float32)
}

// Target is the part of a soundscape a SoundscapeSource drives: the
// realtime-safe sample generator plus the control surface that audio
// property changes and decoded MIDI events are dispatched against. All of
// it is called from exactly one goroutine: the audio worker.
type Target interface {
	Generate() float32
	HandleAudioPropertyChange(prop component.AudioProperty)
	NoteOn(freq, velocity float32)
	NoteOff(freq float32)
	ControlChange(cc uint8, value float32)
}

// SoundscapeSource adapts a Target into the stereo SampleSource ebiten's
// stream reader expects. Each call to Process is one realtime block: it
// first drains the control bridge's pending audio-property changes and
// queued MIDI events, dispatching both to target, then generates and
// duplicates one mono sample per output frame. This is the only place
// either queue is drained, and the only place target's control surface is
// touched, so target's port registries are never reached from more than one
// goroutine.
type SoundscapeSource struct {
	target Target
	props  *bridge.Queue[component.AudioProperty]
	events *bridge.Queue[midi.RawEvent]

	markRealtime sync.Once
}

// NewSoundscapeSource wraps target as a stereo sample source, draining props
// and events (either may be nil to skip that channel) at the top of every
// block.
func NewSoundscapeSource(target Target, props *bridge.Queue[component.AudioProperty], events *bridge.Queue[midi.RawEvent]) *SoundscapeSource {
	return &SoundscapeSource{target: target, props: props, events: events}
}

func (s *SoundscapeSource) Process(dst []float32) {
	s.markRealtime.Do(rtflag.SetRealtime)

	if s.props != nil {
		s.props.Drain(s.target.HandleAudioPropertyChange)
	}
	if s.events != nil {
		s.events.Drain(func(raw midi.RawEvent) { dispatch(s.target, midi.DecodeRaw(raw)) })
	}

	for i := 0; i+1 < len(dst); i += 2 {
		v := s.target.Generate()
		dst[i] = v
		dst[i+1] = v
	}
}

// dispatch applies a decoded MIDI event to target, the same dispatch table
// a real host's callback loop would use.
func dispatch(target Target, ev midi.Event) {
	switch ev.Kind {
	case midi.NoteOn:
		target.NoteOn(ev.Frequency, ev.Velocity)
	case midi.NoteOff:
		target.NoteOff(ev.Frequency)
	case midi.ControlChange:
		target.ControlChange(ev.Control, ev.Value)
	}
}

// StreamReader turns a SampleSource into the io.Reader ebiten's
// NewPlayerF32 consumes: little-endian float32 stereo frames.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

// NewStreamReader wraps source for streaming playback.
func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		u := math.Float32bits(r.buf[i])
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	return frames * 8, nil
}

func (r *StreamReader) Close() error { return nil }

// Player drives an ebiten audio.Player continuously from a SampleSource. A
// live soundscape never reaches end-of-stream: Stop is the only way playback
// ends.
type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioContextErr  error
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioContextErr != nil {
		return nil, audioContextErr
	}
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens a streaming player at sampleRate over source.
func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

// Stop halts playback and releases the underlying device resources.
func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
