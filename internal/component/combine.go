package component

import (
	"fmt"

	"github.com/cleartone/patchsynth/internal/port"
)

// Combine averages K input lines, treating an input of exactly 0 as absent:
// the output is the mean of the nonzero inputs, and if every input is zero
// nothing is written this tick. This conflates silence with "not
// connected" but is preserved deliberately: downstream behavior (and test
// vectors) already depend on it.
type Combine struct {
	Base

	arity  int
	inputs []port.Handle
	output port.Handle
}

// NewCombine builds a K-input combiner named name, with input ports
// <name>_input0 .. <name>_input{K-1} and output port out.
func NewCombine(name string, arity int) *Combine {
	return &Combine{Base: NewBase(name), arity: arity}
}

func (c *Combine) InitializePorts(registry *port.Registry) error {
	c.inputs = make([]port.Handle, 0, c.arity)
	for i := 0; i < c.arity; i++ {
		in, err := registry.RegisterInput(port.Name{
			Component: c.Name(),
			Port:      fmt.Sprintf("%s_input%d", c.Name(), i),
		})
		if err != nil {
			return err
		}
		c.inputs = append(c.inputs, in)
	}

	out, err := registry.RegisterOutput(port.Name{Component: c.Name(), Port: "out"})
	if err != nil {
		return err
	}
	c.output = out
	return nil
}

func (c *Combine) Generate(registry *port.Registry) {
	var sum float32
	var count int
	for _, in := range c.inputs {
		v := registry.GetValue(in)
		if v != 0 {
			sum += v
			count++
		}
	}

	if count > 0 {
		registry.SetValue(c.output, sum/float32(count))
	}
}
