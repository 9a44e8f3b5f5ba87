// Package patch loads the declarative description of a voice graph: an
// ordered list of component configurations and a list of (component, port)
// connection pairs. Concrete syntax is YAML; nothing downstream of Load
// depends on that choice.
package patch

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cleartone/patchsynth/internal/component"
	"github.com/cleartone/patchsynth/internal/lfo"
	"github.com/cleartone/patchsynth/internal/port"
	"github.com/cleartone/patchsynth/internal/voice"
)

// PortRef names one (component, port) endpoint of a connection.
type PortRef struct {
	Component string `yaml:"component"`
	Port      string `yaml:"port"`
}

func (p PortRef) toName() port.Name {
	return port.Name{Component: p.Component, Port: p.Port}
}

// ConnectionPair is one directed wire from an output port to an input port.
type ConnectionPair struct {
	From PortRef `yaml:"from"`
	To   PortRef `yaml:"to"`
}

// ComponentConfig is the discriminated union over every component variant a
// patch can instantiate: Kind selects the variant, and the remaining
// fields are that variant's parameters (unused fields for a given Kind are
// simply left zero in the YAML document).
type ComponentConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`

	// sine, square
	FrequencyPort string `yaml:"frequency_port,omitempty"`
	SamplesPort   string `yaml:"samples_port,omitempty"`

	// combine
	Arity int `yaml:"arity,omitempty"`

	// math
	Function string `yaml:"function,omitempty"`

	// lowpass, and the effect wrappers below
	InputPort  string `yaml:"input_port,omitempty"`
	OutputPort string `yaml:"output_port,omitempty"`

	// delay
	DelayMs  float64 `yaml:"delay_ms,omitempty"`
	Feedback float32 `yaml:"feedback,omitempty"`
	Cross    float32 `yaml:"cross,omitempty"`
	Wet      float32 `yaml:"wet,omitempty"`

	// chorus (shares DelayMs/Feedback/Wet)
	DepthMs float32 `yaml:"depth_ms,omitempty"`
	RateHz  float32 `yaml:"rate_hz,omitempty"`

	// distortion
	PreGain   float32 `yaml:"pre_gain,omitempty"`
	PostGain  float32 `yaml:"post_gain,omitempty"`
	LPFCutoff float32 `yaml:"lpf_cutoff,omitempty"`

	// compressor
	ThresholdDB float32 `yaml:"threshold_db,omitempty"`
	Ratio       float32 `yaml:"ratio,omitempty"`
	AttackMs    float32 `yaml:"attack_ms,omitempty"`
	ReleaseMs   float32 `yaml:"release_ms,omitempty"`
	MakeupDB    float32 `yaml:"makeup_db,omitempty"`

	// eq3
	LowGain  float32 `yaml:"low_gain,omitempty"`
	MidGain  float32 `yaml:"mid_gain,omitempty"`
	HighGain float32 `yaml:"high_gain,omitempty"`
	LowFreq  float32 `yaml:"low_freq,omitempty"`
	HighFreq float32 `yaml:"high_freq,omitempty"`

	// reverb
	RoomSize float32 `yaml:"room_size,omitempty"`

	// lfo
	Depth    float64 `yaml:"depth,omitempty"`
	Waveform string  `yaml:"waveform,omitempty"`
}

var mathFunctions = map[string]func(float32) float32{
	"identity": func(x float32) float32 { return x },
	"double":   func(x float32) float32 { return x * 2 },
	"half":     func(x float32) float32 { return x * 0.5 },
	"negate":   func(x float32) float32 { return -x },
}

var lfoWaveforms = map[string]int{
	"saw":      lfo.WaveSaw,
	"square":   lfo.WaveSquare,
	"triangle": lfo.WaveTriangle,
	"random":   lfo.WaveRandom,
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Build instantiates the runtime component this config describes.
func (c ComponentConfig) Build() (component.Component, error) {
	switch c.Kind {
	case "sine":
		return component.NewSine(c.Name, orDefault(c.FrequencyPort, "frequency_in"), orDefault(c.SamplesPort, "samples_out")), nil

	case "square":
		return component.NewSquare(c.Name, orDefault(c.FrequencyPort, "frequency_in"), orDefault(c.SamplesPort, "samples_out")), nil

	case "onoff":
		return component.NewOnOff(c.Name), nil

	case "combine":
		if c.Arity <= 0 {
			return nil, fmt.Errorf("combine component %q needs arity > 0", c.Name)
		}
		return component.NewCombine(c.Name, c.Arity), nil

	case "math":
		fn, ok := mathFunctions[c.Function]
		if !ok {
			return nil, fmt.Errorf("math component %q: unknown function %q", c.Name, c.Function)
		}
		return component.NewMath(c.Name, fn), nil

	case "lowpass":
		return component.NewSimpleLowPass(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output")), nil

	case "delay":
		return component.NewDelay(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			c.DelayMs, c.Feedback, c.Cross, c.Wet), nil

	case "chorus":
		return component.NewChorus(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			float32(c.DelayMs), c.Feedback, c.DepthMs, c.RateHz, c.Wet), nil

	case "distortion":
		return component.NewDistortion(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			c.PreGain, c.PostGain, c.LPFCutoff), nil

	case "compressor":
		return component.NewCompressor(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			c.ThresholdDB, c.Ratio, c.AttackMs, c.ReleaseMs, c.MakeupDB), nil

	case "eq3":
		return component.NewEQ3(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			c.LowGain, c.MidGain, c.HighGain, c.LowFreq, c.HighFreq), nil

	case "graphiceq":
		return component.NewGraphicEQ(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output")), nil

	case "reverb":
		return component.NewReverb(c.Name, orDefault(c.InputPort, "input"), orDefault(c.OutputPort, "output"),
			c.RoomSize, c.Feedback, c.Wet), nil

	case "lfo":
		waveform, ok := lfoWaveforms[c.Waveform]
		if !ok {
			return nil, fmt.Errorf("lfo component %q: unknown waveform %q", c.Name, c.Waveform)
		}
		return component.NewLFO(c.Name, orDefault(c.OutputPort, "out"), c.Depth, float64(c.RateHz), waveform), nil

	default:
		return nil, fmt.Errorf("unknown component kind %q", c.Kind)
	}
}

// Patch is the immutable description a loader yields: component configs
// plus the connections between them (and to the voice's reserved ports).
type Patch struct {
	Components  []ComponentConfig `yaml:"components"`
	Connections []ConnectionPair  `yaml:"connections"`
}

// Load decodes a YAML patch document.
func Load(r io.Reader) (*Patch, error) {
	var p Patch
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("patch: parse failed: %w", err)
	}
	return &p, nil
}

// BuildComponents instantiates every component config in the patch, in
// order.
func (p *Patch) BuildComponents() ([]component.Component, error) {
	built := make([]component.Component, 0, len(p.Components))
	for _, cfg := range p.Components {
		c, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("patch: component %q: %w", cfg.Name, err)
		}
		built = append(built, c)
	}
	return built, nil
}

// VoiceConnections converts the patch's connection pairs into the form
// voice.New expects.
func (p *Patch) VoiceConnections() []voice.Connection {
	out := make([]voice.Connection, 0, len(p.Connections))
	for _, c := range p.Connections {
		out = append(out, voice.Connection{From: c.From.toName(), To: c.To.toName()})
	}
	return out
}

// NewVoice builds one voice instance from this patch: fresh component
// instances wired per the patch's connections.
func (p *Patch) NewVoice() (*voice.Voice, error) {
	components, err := p.BuildComponents()
	if err != nil {
		return nil, err
	}
	return voice.New(components, p.VoiceConnections())
}
