package component

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/cleartone/patchsynth/internal/port"
)

// Sine is a phase-accumulating sine oscillator. Inputs: frequency. Outputs:
// samples. Emits nothing until a sample rate has been set.
type Sine struct {
	Base

	frequencyPortName string
	samplesPortName   string

	phase      float32
	sampleRate float32
	hasRate    bool

	frequency port.Handle
	samples   port.Handle

	lastWarnedFrequency float32
	hasWarned           bool
}

// NewSine builds a sine oscillator named name, with the given frequency
// input and samples output port names local to it.
func NewSine(name, frequencyPort, samplesPort string) *Sine {
	return &Sine{
		Base:              NewBase(name),
		frequencyPortName: frequencyPort,
		samplesPortName:   samplesPort,
	}
}

func (s *Sine) InitializePorts(registry *port.Registry) error {
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

func (s *Sine) fullyInitialized() bool {
	return s.frequency.Valid() && s.samples.Valid() && s.hasRate
}

func (s *Sine) Generate(registry *port.Registry) {
	if !s.fullyInitialized() {
		return
	}

	freq := registry.GetValue(s.frequency)
	if freq >= s.sampleRate/2 && (!s.hasWarned || freq != s.lastWarnedFrequency) {
		log.Warn("oscillator frequency at or above Nyquist", "component", s.Name(), "frequency", freq, "sample_rate", s.sampleRate)
		s.lastWarnedFrequency = freq
		s.hasWarned = true
	}

	v := float32(math.Sin(2.0 * math.Pi * float64(s.phase)))

	s.phase += freq / s.sampleRate
	for s.phase > 1.0 {
		s.phase -= 1.0
	}

	registry.SetValue(s.samples, v)
}

func (s *Sine) HandleAudioPropertyChange(prop AudioProperty) {
	s.sampleRate = prop.SampleRate
	s.hasRate = true
}
