package component

import (
	"math"

	"github.com/cleartone/patchsynth/internal/port"
)

// Square is an additive-synthesis square oscillator: the sum of odd
// harmonics of the fundamental, up to but excluding the Nyquist frequency.
// A zero-frequency input silences the output without advancing phase.
type Square struct {
	Base

	frequencyPortName string
	samplesPortName   string

	phase      float32
	sampleRate float32
	hasRate    bool

	frequency port.Handle
	samples   port.Handle
}

// NewSquare builds a square oscillator named name, with the given frequency
// input and samples output port names local to it.
func NewSquare(name, frequencyPort, samplesPort string) *Square {
	return &Square{
		Base:              NewBase(name),
		frequencyPortName: frequencyPort,
		samplesPortName:   samplesPort,
	}
}

func (s *Square) InitializePorts(registry *port.Registry) error {
	freq, err := registry.RegisterInput(port.Name{Component: s.Name(), Port: s.frequencyPortName})
	if err != nil {
		return err
	}
	samples, err := registry.RegisterOutput(port.Name{Component: s.Name(), Port: s.samplesPortName})
	if err != nil {
		return err
	}
	s.frequency = freq
	s.samples = samples
	return nil
}

func (s *Square) Generate(registry *port.Registry) {
	if !s.frequency.Valid() || !s.samples.Valid() || !s.hasRate {
		return
	}

	freq := registry.GetValue(s.frequency)
	if freq == 0 {
		registry.SetValue(s.samples, 0)
		return
	}

	nyquist := s.sampleRate / 2

	// Odd harmonics (fundamental, 3rd, 5th, ...) while each stays below
	// Nyquist, weighted 1/k as in the square wave's Fourier series, then
	// renormalized by the sum of weights actually used. That keeps the
	// output within [-1, 1] by construction (triangle inequality) instead
	// of relying on the series' Gibbs-phenomenon overshoot staying small.
	var v, weight float32
	for k := 1; float32(k)*freq < nyquist; k += 2 {
		amplitude := 1.0 / float32(k)
		v += amplitude * float32(math.Sin(2.0*math.Pi*float64(k)*float64(s.phase)))
		weight += amplitude
	}
	if weight > 0 {
		v /= weight
	}

	s.phase += freq / s.sampleRate
	for s.phase > 1.0 {
		s.phase -= 1.0
	}

	registry.SetValue(s.samples, v)
}

func (s *Square) HandleAudioPropertyChange(prop AudioProperty) {
	s.sampleRate = prop.SampleRate
	s.hasRate = true
}
