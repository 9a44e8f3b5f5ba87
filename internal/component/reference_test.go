package component

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cleartone/patchsynth/internal/port"
)

func mustInit(t *testing.T, registry *port.Registry, c Component) {
	t.Helper()
	require.NoError(t, c.InitializePorts(registry))
}

func TestSineSilentUntilSampleRateSet(t *testing.T) {
	registry := port.NewRegistry()
	s := NewSine("s", "fin", "sout")
	mustInit(t, registry, s)

	freqIn, _ := registry.Find(port.Name{Component: "s", Port: "fin"})
	samplesOut, _ := registry.Find(port.Name{Component: "s", Port: "sout"})

	registry.SetValue(freqIn, 1.0)
	s.Generate(registry)
	require.Equal(t, float32(0), registry.GetValue(samplesOut))
}

func TestSineEmitsAfterSampleRateSet(t *testing.T) {
	registry := port.NewRegistry()
	s := NewSine("s", "fin", "sout")
	mustInit(t, registry, s)
	s.HandleAudioPropertyChange(AudioProperty{SampleRate: 4})

	freqIn, _ := registry.Find(port.Name{Component: "s", Port: "fin"})
	samplesOut, _ := registry.Find(port.Name{Component: "s", Port: "sout"})
	registry.SetValue(freqIn, 1.0)

	s.Generate(registry)
	// phase starts at 0, advances to 0.25 after generate: sin(2*pi*0) = 0
	require.InDelta(t, 0.0, registry.GetValue(samplesOut), 1e-5)
}

func TestSquareZeroFrequencyIsSilent(t *testing.T) {
	registry := port.NewRegistry()
	sq := NewSquare("sq", "fin", "sout")
	mustInit(t, registry, sq)
	sq.HandleAudioPropertyChange(AudioProperty{SampleRate: 44100})

	out, _ := registry.Find(port.Name{Component: "sq", Port: "sout"})
	sq.Generate(registry)
	require.Equal(t, float32(0), registry.GetValue(out))
}

func TestSquareBounded(t *testing.T) {
	registry := port.NewRegistry()
	sq := NewSquare("sq", "fin", "sout")
	mustInit(t, registry, sq)
	sq.HandleAudioPropertyChange(AudioProperty{SampleRate: 44100})

	in, _ := registry.Find(port.Name{Component: "sq", Port: "fin"})
	out, _ := registry.Find(port.Name{Component: "sq", Port: "sout"})
	registry.SetValue(in, 440.0)

	for i := 0; i < 2000; i++ {
		sq.Generate(registry)
		v := registry.GetValue(out)
		require.GreaterOrEqual(t, v, float32(-1.0))
		require.LessOrEqual(t, v, float32(1.0))
	}
}

func TestOnOffGatesSignal(t *testing.T) {
	registry := port.NewRegistry()
	g := NewOnOff("g")
	mustInit(t, registry, g)

	samplesIn, _ := registry.Find(port.Name{Component: "g", Port: "samples_in"})
	gateIn, _ := registry.Find(port.Name{Component: "g", Port: "gate_in"})
	out, _ := registry.Find(port.Name{Component: "g", Port: "samples_out"})

	registry.SetValue(samplesIn, 0.5)
	registry.SetValue(gateIn, 0)
	g.Generate(registry)
	require.Equal(t, float32(0), registry.GetValue(out))

	registry.SetValue(gateIn, 1)
	g.Generate(registry)
	require.Equal(t, float32(0.5), registry.GetValue(out))
}

func TestCombineAveragesNonzero(t *testing.T) {
	registry := port.NewRegistry()
	c := NewCombine("c", 2)
	mustInit(t, registry, c)

	in0, _ := registry.Find(port.Name{Component: "c", Port: "c_input0"})
	in1, _ := registry.Find(port.Name{Component: "c", Port: "c_input1"})
	out, _ := registry.Find(port.Name{Component: "c", Port: "out"})

	registry.SetValue(in0, 2.0)
	registry.SetValue(in1, 0.0)
	c.Generate(registry)
	require.Equal(t, float32(2.0), registry.GetValue(out))
}

func TestCombineAllZeroWritesNothing(t *testing.T) {
	registry := port.NewRegistry()
	c := NewCombine("c", 2)
	mustInit(t, registry, c)

	out, _ := registry.Find(port.Name{Component: "c", Port: "out"})
	registry.SetValue(out, 9.0) // sentinel: should survive untouched

	c.Generate(registry)
	require.Equal(t, float32(9.0), registry.GetValue(out))
}

func TestMathAppliesFunction(t *testing.T) {
	registry := port.NewRegistry()
	m := NewMath("m", func(x float32) float32 { return x * 2 })
	mustInit(t, registry, m)

	in, _ := registry.Find(port.Name{Component: "m", Port: "input"})
	out, _ := registry.Find(port.Name{Component: "m", Port: "output"})

	registry.SetValue(in, 3.0)
	m.Generate(registry)
	require.Equal(t, float32(6.0), registry.GetValue(out))
}

func TestSimpleLowPassAccumulates(t *testing.T) {
	registry := port.NewRegistry()
	lp := NewSimpleLowPass("lp", "in", "out")
	mustInit(t, registry, lp)

	in, _ := registry.Find(port.Name{Component: "lp", Port: "in"})
	out, _ := registry.Find(port.Name{Component: "lp", Port: "out"})

	registry.SetValue(in, 1.0)
	lp.Generate(registry)
	require.Equal(t, float32(1.0), registry.GetValue(out))

	registry.SetValue(in, 1.0)
	lp.Generate(registry)
	require.Equal(t, float32(2.0), registry.GetValue(out))
}

func TestSineNoOutputBelowNyquistIsFinite(t *testing.T) {
	registry := port.NewRegistry()
	s := NewSine("s", "fin", "sout")
	mustInit(t, registry, s)
	s.HandleAudioPropertyChange(AudioProperty{SampleRate: 44100})

	in, _ := registry.Find(port.Name{Component: "s", Port: "fin"})
	out, _ := registry.Find(port.Name{Component: "s", Port: "sout"})
	registry.SetValue(in, 440.0)

	for i := 0; i < 100; i++ {
		s.Generate(registry)
		v := registry.GetValue(out)
		require.False(t, math.IsNaN(float64(v)))
	}
}
