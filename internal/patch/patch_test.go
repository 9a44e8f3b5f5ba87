package patch

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleartone/patchsynth/internal/component"
)

const simpleYAML = `
components:
  - kind: sine
    name: osc
    frequency_port: frequency_in
    samples_port: samples_out
connections:
  - from: {component: voice, port: midi_frequency_out}
    to: {component: osc, port: frequency_in}
  - from: {component: osc, port: samples_out}
    to: {component: voice, port: samples_in}
`

func TestLoadSimplePatch(t *testing.T) {
	p, err := Load(strings.NewReader(simpleYAML))
	require.NoError(t, err)
	require.Len(t, p.Components, 1)
	require.Equal(t, "sine", p.Components[0].Kind)
	require.Len(t, p.Connections, 2)
}

func TestNewVoiceFromPatch(t *testing.T) {
	p, err := Load(strings.NewReader(simpleYAML))
	require.NoError(t, err)

	v, err := p.NewVoice()
	require.NoError(t, err)

	v.HandleAudioPropertyChange(component.AudioProperty{SampleRate: 8000})
	v.NoteOn(1000, 1.0)

	var sawNonzero bool
	for i := 0; i < 16; i++ {
		if v.Generate() != 0 {
			sawNonzero = true
		}
	}
	require.True(t, sawNonzero)
}

const effectsChainYAML = `
components:
  - kind: sine
    name: osc
    frequency_port: frequency_in
    samples_port: samples_out
  - kind: distortion
    name: drive
    input_port: input
    output_port: output
    pre_gain: 2.0
    post_gain: 0.6
    lpf_cutoff: 4000
  - kind: delay
    name: echo
    input_port: input
    output_port: output
    delay_ms: 50
    feedback: 0.3
    cross: 0
    wet: 0.3
  - kind: eq3
    name: tone
    input_port: input
    output_port: output
    low_gain: 1.1
    mid_gain: 1.0
    high_gain: 0.8
    low_freq: 300
    high_freq: 3000
  - kind: reverb
    name: room
    input_port: input
    output_port: output
    room_size: 0.6
    feedback: 0.5
    wet: 0.25
  - kind: lfo
    name: vibrato
    depth: 4
    rate_hz: 5
    waveform: triangle
    output_port: out
connections:
  - from: {component: voice, port: midi_frequency_out}
    to: {component: osc, port: frequency_in}
  - from: {component: osc, port: samples_out}
    to: {component: drive, port: input}
  - from: {component: drive, port: output}
    to: {component: echo, port: input}
  - from: {component: echo, port: output}
    to: {component: tone, port: input}
  - from: {component: tone, port: output}
    to: {component: room, port: input}
  - from: {component: room, port: output}
    to: {component: voice, port: samples_in}
`

// A patch chaining distortion, delay, eq3 and reverb, plus an unconnected
// lfo, proving those kinds are reachable through the patch format, not just
// constructible in isolation.
func TestNewVoiceFromEffectsChainPatch(t *testing.T) {
	p, err := Load(strings.NewReader(effectsChainYAML))
	require.NoError(t, err)
	require.Len(t, p.Components, 6)

	v, err := p.NewVoice()
	require.NoError(t, err)

	v.HandleAudioPropertyChange(component.AudioProperty{SampleRate: 8000})
	v.NoteOn(220, 1.0)

	var sawNonzero bool
	for i := 0; i < 4000; i++ {
		out := v.Generate()
		require.False(t, math.IsNaN(float64(out)))
		if out != 0 {
			sawNonzero = true
		}
	}
	require.True(t, sawNonzero)
}

func TestBuildUnknownKindFails(t *testing.T) {
	cfg := ComponentConfig{Kind: "not-a-real-kind", Name: "x"}
	_, err := cfg.Build()
	require.Error(t, err)
}

func TestBuildCombineRequiresArity(t *testing.T) {
	cfg := ComponentConfig{Kind: "combine", Name: "mix"}
	_, err := cfg.Build()
	require.Error(t, err)
}

func TestBuildMathUnknownFunctionFails(t *testing.T) {
	cfg := ComponentConfig{Kind: "math", Name: "m", Function: "frobnicate"}
	_, err := cfg.Build()
	require.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("bogus_top_level_field: 1\n"))
	require.Error(t, err)
}
