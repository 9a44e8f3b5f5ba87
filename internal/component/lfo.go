package component

import (
	"github.com/cleartone/patchsynth/internal/lfo"
	"github.com/cleartone/patchsynth/internal/port"
)

// LFO wraps lfo.LFO as a source-only patch component: no input port, one
// output port carrying the modulation value every tick.
type LFO struct {
	Base

	outputPortName string
	depth, rateHz  float64
	waveform       int

	lfo        lfo.LFO
	output     port.Handle
	sampleRate float32
}

// NewLFO builds a low-frequency oscillator named name. waveform is one of
// lfo.WaveSaw/WaveSquare/WaveTriangle/WaveRandom.
func NewLFO(name, outputPort string, depth, rateHz float64, waveform int) *LFO {
	l := &LFO{
		Base:           NewBase(name),
		outputPortName: outputPort,
		depth:          depth,
		rateHz:         rateHz,
		waveform:       waveform,
	}
	l.lfo.Set(depth, rateHz, waveform)
	return l
}

func (l *LFO) InitializePorts(registry *port.Registry) error {
	out, err := registry.RegisterOutput(port.Name{Component: l.Name(), Port: l.outputPortName})
	if err != nil {
		return err
	}
	l.output = out
	return nil
}

func (l *LFO) Generate(registry *port.Registry) {
	if l.sampleRate == 0 {
		return
	}
	v := float32(l.lfo.Sample(float64(l.sampleRate)))
	registry.SetValue(l.output, v)
}

func (l *LFO) HandleAudioPropertyChange(prop AudioProperty) {
	l.sampleRate = prop.SampleRate
}
