// Package component defines the DSP unit contract every patch component
// implements, plus the handful of reference components a shipped patch can
// use directly.
package component

import "github.com/cleartone/patchsynth/internal/port"

// AudioProperty is a tagged value broadcast from the control thread to
// every component in a voice. Presently one case; extensible without
// touching any component that doesn't care about it.
type AudioProperty struct {
	SampleRate float32
}

// Component is a named DSP unit: a port-initialization step run once during
// voice construction, and a per-tick Generate step run on the realtime
// path. State (phase, filter history, cached sample rate) is owned by the
// component itself.
type Component interface {
	// Name returns the component's stable, voice-unique identifier.
	Name() string

	// InitializePorts registers this component's ports with registry and
	// captures the resulting handles. Called exactly once, before the
	// voice computes its schedule. Never called again afterward.
	InitializePorts(registry *port.Registry) error

	// Generate produces one sample tick. It may only read handles it
	// captured during InitializePorts and write through
	// registry.SetValue on its own output handles. No allocation or
	// locking, and no I/O apart from Sine's Nyquist-violation warning.
	Generate(registry *port.Registry)

	// HandleAudioPropertyChange updates cached configuration such as
	// sample rate. Invoked from the realtime thread immediately after the
	// control bridge is drained, before the next Generate.
	HandleAudioPropertyChange(prop AudioProperty)
}

// Base gives components a no-op HandleAudioPropertyChange and a fixed
// Name(), so components indifferent to audio properties need only embed it.
type Base struct {
	name string
}

// NewBase returns a Base identifying a component by name.
func NewBase(name string) Base { return Base{name: name} }

func (b Base) Name() string { return b.name }

func (b Base) HandleAudioPropertyChange(AudioProperty) {}
