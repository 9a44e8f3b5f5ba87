package component

import "github.com/cleartone/patchsynth/internal/port"

// monoEffector is the subset of effects.Effector every wrapped stereo
// effect satisfies; wrapping duplicates a mono input to L/R and averages
// L/R back to a single mono output.
type monoEffector interface {
	Process(l, r float32) (float32, float32)
	Reset()
}

// effectComponent adapts a stereo effects.Effector into the Component
// contract. The underlying effector depends on sample rate at
// construction time, which this engine only learns after a component is
// built (via HandleAudioPropertyChange), so the effector is built lazily
// the first time a sample rate arrives and rebuilt if it ever changes.
type effectComponent struct {
	Base

	inputPortName  string
	outputPortName string

	build func(sampleRate int) monoEffector

	input  port.Handle
	output port.Handle

	effector   monoEffector
	sampleRate float32
}

func newEffectComponent(name, inputPort, outputPort string, build func(sampleRate int) monoEffector) *effectComponent {
	return &effectComponent{
		Base:           NewBase(name),
		inputPortName:  inputPort,
		outputPortName: outputPort,
		build:          build,
	}
}

func (e *effectComponent) InitializePorts(registry *port.Registry) error {
	in, err := registry.RegisterInput(port.Name{Component: e.Name(), Port: e.inputPortName})
	if err != nil {
		return err
	}
	out, err := registry.RegisterOutput(port.Name{Component: e.Name(), Port: e.outputPortName})
	if err != nil {
		return err
	}
	e.input = in
	e.output = out
	return nil
}

func (e *effectComponent) Generate(registry *port.Registry) {
	if e.effector == nil {
		return
	}
	x := registry.GetValue(e.input)
	l, r := e.effector.Process(x, x)
	registry.SetValue(e.output, (l+r)/2)
}

func (e *effectComponent) HandleAudioPropertyChange(prop AudioProperty) {
	if e.effector != nil && prop.SampleRate == e.sampleRate {
		return
	}
	e.sampleRate = prop.SampleRate
	e.effector = e.build(int(prop.SampleRate))
}
