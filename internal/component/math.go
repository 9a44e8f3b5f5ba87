package component

import "github.com/cleartone/patchsynth/internal/port"

// Math applies a user-supplied pure float->float function to one input,
// writing the result to one output every tick.
type Math struct {
	Base

	fn     func(float32) float32
	input  port.Handle
	output port.Handle
}

// NewMath builds a math component named name around fn, with fixed port
// names input and output.
func NewMath(name string, fn func(float32) float32) *Math {
	return &Math{Base: NewBase(name), fn: fn}
}

func (m *Math) InitializePorts(registry *port.Registry) error {
	in, err := registry.RegisterInput(port.Name{Component: m.Name(), Port: "input"})
	if err != nil {
		return err
	}
	out, err := registry.RegisterOutput(port.Name{Component: m.Name(), Port: "output"})
	if err != nil {
		return err
	}
	m.input = in
	m.output = out
	return nil
}

func (m *Math) Generate(registry *port.Registry) {
	registry.SetValue(m.output, m.fn(registry.GetValue(m.input)))
}
