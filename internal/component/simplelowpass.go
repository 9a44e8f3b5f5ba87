package component

import "github.com/cleartone/patchsynth/internal/port"

// SimpleLowPass is a one-pole accumulator: state = state + input, output =
// state. It is a pure integrator rather than a decaying filter, matching
// the reference implementation's literal behavior.
type SimpleLowPass struct {
	Base

	inputPortName  string
	outputPortName string

	input  port.Handle
	output port.Handle

	last    float32
	hasLast bool
}

// NewSimpleLowPass builds a low-pass accumulator named name with the given
// input and output port names local to it.
func NewSimpleLowPass(name, inputPort, outputPort string) *SimpleLowPass {
	return &SimpleLowPass{
		Base:           NewBase(name),
		inputPortName:  inputPort,
		outputPortName: outputPort,
	}
}

func (lp *SimpleLowPass) InitializePorts(registry *port.Registry) error {
	in, err := registry.RegisterInput(port.Name{Component: lp.Name(), Port: lp.inputPortName})
	if err != nil {
		return err
	}
	out, err := registry.RegisterOutput(port.Name{Component: lp.Name(), Port: lp.outputPortName})
	if err != nil {
		return err
	}
	lp.input = in
	lp.output = out
	return nil
}

func (lp *SimpleLowPass) Generate(registry *port.Registry) {
	if !lp.input.Valid() || !lp.output.Valid() {
		return
	}

	x := registry.GetValue(lp.input)
	if !lp.hasLast {
		lp.last = x
		lp.hasLast = true
	} else {
		lp.last = x + lp.last
	}

	registry.SetValue(lp.output, lp.last)
}
