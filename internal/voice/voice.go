// Package voice realizes one instance of a patch graph: a private port
// registry, a set of components wired and ordered per the patch's
// connections, and the voice-level MIDI control surface a soundscape drives.
package voice

import (
	"fmt"

	"github.com/cleartone/patchsynth/internal/component"
	"github.com/cleartone/patchsynth/internal/port"
	"github.com/cleartone/patchsynth/internal/rtflag"
	"github.com/cleartone/patchsynth/internal/schedule"
)

const voiceComponentName = "voice"

// NumControlPorts is the fixed number of MIDI CC ports every voice carries,
// one per 7-bit control-change channel. Registered unconditionally even for
// patches that use none of them, trading memory for O(1) routing.
const NumControlPorts = 128

// Connection is a (component, port) -> (component, port) wire from a patch.
type Connection struct {
	From port.Name
	To   port.Name
}

// Voice is one realized audio graph: its components in evaluation order,
// its private port registry, and the reserved voice-level ports that carry
// the MIDI feed in and the final mix out.
type Voice struct {
	registry   *port.Registry
	components []component.Component

	frequencyOut port.Handle
	gateOut      port.Handle
	velocityOut  port.Handle
	controlOut   [NumControlPorts]port.Handle
	samplesIn    port.Handle
}

// New builds a voice from a patch's component instances and connections.
// Construction order: register voice-level ports, initialize every
// component's ports, wire every connection by name, then compute and apply
// the component evaluation schedule. All of it is non-realtime; the
// returned Voice's Generate is the only realtime-safe method.
func New(components []component.Component, connections []Connection) (*Voice, error) {
	if rtflag.IsRealtime() {
		return nil, fmt.Errorf("voice: cannot construct a voice from the realtime audio thread")
	}

	registry := port.NewRegistry()

	v := &Voice{registry: registry}
	if err := v.registerVoicePorts(); err != nil {
		return nil, err
	}

	seenNames := make(map[string]bool, len(components))
	for _, c := range components {
		if seenNames[c.Name()] {
			return nil, fmt.Errorf("voice: duplicate component name %q", c.Name())
		}
		seenNames[c.Name()] = true

		if err := c.InitializePorts(registry); err != nil {
			return nil, fmt.Errorf("voice: component %q: %w", c.Name(), err)
		}
	}

	for _, conn := range connections {
		if err := registry.ConnectByName(conn.From, conn.To); err != nil {
			return nil, fmt.Errorf("voice: connecting %s -> %s: %w", conn.From, conn.To, err)
		}
	}

	ordered, err := v.schedule(components)
	if err != nil {
		return nil, err
	}
	v.components = ordered

	return v, nil
}

func (v *Voice) registerVoicePorts() error {
	var err error
	reg := func(n string) port.Handle {
		if err != nil {
			return port.Handle{}
		}
		var h port.Handle
		h, err = v.registry.RegisterOutput(port.Name{Component: voiceComponentName, Port: n})
		return h
	}

	v.frequencyOut = reg("midi_frequency_out")
	v.gateOut = reg("midi_gate_out")
	v.velocityOut = reg("midi_velocity_out")
	for i := 0; i < NumControlPorts; i++ {
		v.controlOut[i] = reg(fmt.Sprintf("midi_control_%d", i))
	}
	if err != nil {
		return err
	}

	v.samplesIn, err = v.registry.RegisterInput(port.Name{Component: voiceComponentName, Port: "samples_in"})
	return err
}

// schedule computes the component-level adjacency, removes back edges, and
// returns components reordered into a topological evaluation order.
func (v *Voice) schedule(components []component.Component) ([]component.Component, error) {
	byName := make(map[string]component.Component, len(components))
	for _, c := range components {
		byName[c.Name()] = c
	}

	adj := v.registry.ComponentAdjacency()
	schedule.RemoveBackEdges(adj.Matrix)
	order := schedule.TopologicalSort(adj.Matrix)

	ordered := make([]component.Component, 0, len(components))
	for _, idx := range order {
		name := adj.Names[idx]
		if name == voiceComponentName {
			continue
		}
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("voice: scheduler referenced unknown component %q", name)
		}
		ordered = append(ordered, c)
	}
	return ordered, nil
}

// Generate runs one realtime tick: every component in schedule order, then
// reads the voice-level samples_in mix. Safe to call at audio rate.
func (v *Voice) Generate() float32 {
	for _, c := range v.components {
		c.Generate(v.registry)
	}
	return v.registry.GetValue(v.samplesIn)
}

// NoteOn writes the frequency and velocity onto the voice's MIDI feed and
// opens the gate.
func (v *Voice) NoteOn(freq, velocity float32) {
	v.registry.SetValue(v.frequencyOut, freq)
	v.registry.SetValue(v.gateOut, 1.0)
	v.registry.SetValue(v.velocityOut, velocity)
}

// NoteOff closes the gate. The frequency argument some callers pass is
// irrelevant at this level: a soundscape decides which voice to retire by
// matching CurrentFrequency before calling this.
func (v *Voice) NoteOff() {
	v.registry.SetValue(v.gateOut, 0.0)
}

// ControlChange writes value to the voice's cc'th MIDI control port.
func (v *Voice) ControlChange(cc uint8, value float32) {
	v.registry.SetValue(v.controlOut[cc], value)
}

// ControlPortValue returns the current value of the voice's cc'th MIDI
// control port.
func (v *Voice) ControlPortValue(cc uint8) float32 {
	return v.registry.GetValue(v.controlOut[cc])
}

// CurrentFrequency returns the voice's held frequency and true iff its gate
// is open.
func (v *Voice) CurrentFrequency() (float32, bool) {
	if v.registry.GetValue(v.gateOut) == 0 {
		return 0, false
	}
	return v.registry.GetValue(v.frequencyOut), true
}

// HandleAudioPropertyChange fans prop out to every component in the voice.
func (v *Voice) HandleAudioPropertyChange(prop component.AudioProperty) {
	for _, c := range v.components {
		c.HandleAudioPropertyChange(prop)
	}
}
