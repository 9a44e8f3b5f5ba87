package midi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoteToFrequencyA440(t *testing.T) {
	// MIDI note 69 is concert A4 = 440Hz.
	require.InDelta(t, 440.0, NoteToFrequency(69), 0.01)
}

func TestNoteToFrequencyMiddleC(t *testing.T) {
	// MIDI note 60 is middle C, approx 261.63Hz.
	require.InDelta(t, 261.63, NoteToFrequency(60), 0.01)
}

func TestDecodeNoteOn(t *testing.T) {
	ev := Decode([]byte{0x90, 69, 255})
	require.Equal(t, NoteOn, ev.Kind)
	require.InDelta(t, 440.0, ev.Frequency, 0.01)
	require.InDelta(t, 1.0, ev.Velocity, 0.01)
}

func TestDecodeNoteOnZeroVelocityIsNoteOff(t *testing.T) {
	ev := Decode([]byte{0x90, 69, 0})
	require.Equal(t, NoteOff, ev.Kind)
	require.InDelta(t, 440.0, ev.Frequency, 0.01)
}

func TestDecodeNoteOff(t *testing.T) {
	ev := Decode([]byte{0x80, 69, 64})
	require.Equal(t, NoteOff, ev.Kind)
}

func TestDecodeControlChange(t *testing.T) {
	ev := Decode([]byte{0xB0, 7, 42})
	require.Equal(t, ControlChange, ev.Kind)
	require.Equal(t, uint8(7), ev.Control)
	require.Equal(t, float32(42), ev.Value)
}

func TestDecodeIgnoresOtherStatus(t *testing.T) {
	ev := Decode([]byte{0xE0, 0, 64}) // pitch bend
	require.Equal(t, Ignored, ev.Kind)
}

func TestDecodeEmptyIsIgnored(t *testing.T) {
	require.Equal(t, Ignored, Decode(nil).Kind)
}
