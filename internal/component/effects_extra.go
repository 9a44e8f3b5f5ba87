package component

import "github.com/cleartone/patchsynth/internal/effects"

// Delay wraps effects.Delay as a mono patch component.
type Delay struct{ *effectComponent }

// NewDelay builds a delay component named name. delayMs/feedback/cross/wet
// match effects.NewDelay.
func NewDelay(name, inputPort, outputPort string, delayMs float64, feedback, cross, wet float32) *Delay {
	return &Delay{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewDelay(sampleRate, delayMs, feedback, cross, wet)
	})}
}

// Chorus wraps effects.Chorus as a mono patch component.
type Chorus struct{ *effectComponent }

func NewChorus(name, inputPort, outputPort string, delayMs, feedback, depthMs, rateHz, wet float32) *Chorus {
	return &Chorus{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewChorus(sampleRate, delayMs, feedback, depthMs, rateHz, wet)
	})}
}

// Distortion wraps effects.Distortion as a mono patch component.
type Distortion struct{ *effectComponent }

func NewDistortion(name, inputPort, outputPort string, preGain, postGain, lpfCutoff float32) *Distortion {
	return &Distortion{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewDistortion(sampleRate, preGain, postGain, lpfCutoff)
	})}
}

// Compressor wraps effects.Compressor as a mono patch component.
type Compressor struct{ *effectComponent }

func NewCompressor(name, inputPort, outputPort string, thresholdDB, ratio, attackMs, releaseMs, makeupDB float32) *Compressor {
	return &Compressor{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewCompressor(sampleRate, thresholdDB, ratio, attackMs, releaseMs, makeupDB)
	})}
}

// EQ3 wraps effects.EQ3Band as a mono patch component.
type EQ3 struct{ *effectComponent }

func NewEQ3(name, inputPort, outputPort string, lowGain, midGain, highGain, lowFreq, highFreq float32) *EQ3 {
	return &EQ3{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewEQ3Band(sampleRate, lowGain, midGain, highGain, lowFreq, highFreq)
	})}
}

// GraphicEQ wraps effects.EQ5Band as a mono patch component. Its per-band
// gains are adjustable at runtime through SetGain, backed by the teacher's
// lock-free atomic gain storage so control-thread tweaks never touch a
// lock on the audio path.
type GraphicEQ struct {
	*effectComponent
	eq5 *effects.EQ5Band
}

func NewGraphicEQ(name, inputPort, outputPort string) *GraphicEQ {
	g := &GraphicEQ{}
	g.effectComponent = newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		g.eq5 = effects.NewEQ5Band(sampleRate)
		return g.eq5
	})
	return g
}

// SetGain adjusts band (0-4) gain; 1.0 is unity. Safe to call from any
// thread once the component has observed a sample rate.
func (g *GraphicEQ) SetGain(band int, gain float32) {
	if g.eq5 != nil {
		g.eq5.SetGain(band, gain)
	}
}

// Reverb wraps effects.Reverb as a mono patch component.
type Reverb struct{ *effectComponent }

func NewReverb(name, inputPort, outputPort string, roomSize, feedback, wet float32) *Reverb {
	return &Reverb{newEffectComponent(name, inputPort, outputPort, func(sampleRate int) monoEffector {
		return effects.NewReverb(sampleRate, roomSize, feedback, wet)
	})}
}
