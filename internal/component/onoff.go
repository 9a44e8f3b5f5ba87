package component

import "github.com/cleartone/patchsynth/internal/port"

// OnOff gates a signal: samples * (gate != 0 ? 1 : 0). Writes are
// suppressed when the output would not change, matching the idempotent-
// write discipline of the reference implementation.
type OnOff struct {
	Base

	samplesIn  port.Handle
	gateIn     port.Handle
	samplesOut port.Handle

	lastOut    float32
	hasLastOut bool
}

// NewOnOff builds an on/off gate named name with fixed port names
// samples_in, gate_in, samples_out.
func NewOnOff(name string) *OnOff {
	return &OnOff{Base: NewBase(name)}
}

func (g *OnOff) InitializePorts(registry *port.Registry) error {
	samplesIn, err := registry.RegisterInput(port.Name{Component: g.Name(), Port: "samples_in"})
	if err != nil {
		return err
	}
	gateIn, err := registry.RegisterInput(port.Name{Component: g.Name(), Port: "gate_in"})
	if err != nil {
		return err
	}
	samplesOut, err := registry.RegisterOutput(port.Name{Component: g.Name(), Port: "samples_out"})
	if err != nil {
		return err
	}
	g.samplesIn = samplesIn
	g.gateIn = gateIn
	g.samplesOut = samplesOut
	return nil
}

func (g *OnOff) Generate(registry *port.Registry) {
	if !g.samplesIn.Valid() || !g.gateIn.Valid() || !g.samplesOut.Valid() {
		return
	}

	samples := registry.GetValue(g.samplesIn)
	var gate float32
	if registry.GetValue(g.gateIn) != 0 {
		gate = 1
	}

	out := samples * gate
	if !g.hasLastOut || out != g.lastOut {
		registry.SetValue(g.samplesOut, out)
		g.lastOut = out
		g.hasLastOut = true
	}
}
