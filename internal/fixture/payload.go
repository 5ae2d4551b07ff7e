package fixture

import (
	"math"

	"github.com/zaf/g711"

	"firestige.xyz/rtpfixture/internal/config"
)

// SamplesFor is the number of 8-bit samples in durationMs at sampleRate,
// truncated toward zero.
func SamplesFor(durationMs, sampleRate int) int {
	if durationMs <= 0 || sampleRate <= 0 {
		return 0
	}
	return sampleRate * durationMs / 1000
}

// SynthesizeTone returns one packet's worth of media bytes starting at
// sample position zero.
func SynthesizeTone(durationMs, sampleRate int, t config.ToneConfig) []byte {
	return SynthesizeToneAt(0, durationMs, sampleRate, t)
}

// SynthesizeToneAt is SynthesizeTone for a packet whose first sample sits at
// position start in the stream, so periodic tones stay phase-continuous.
func SynthesizeToneAt(start, durationMs, sampleRate int, t config.ToneConfig) []byte {
	n := SamplesFor(durationMs, sampleRate)
	out := make([]byte, n)
	switch t.Mode {
	case config.ToneALaw:
		for i := range out {
			out[i] = alawSample(start+i, sampleRate, t)
		}
	default:
		for i := range out {
			out[i] = triangleSample(start+i, t)
		}
	}
	return out
}

// triangleSample is a placeholder for A-law audio: a byte ramp that rises and
// falls once per period around center. It is not companded.
func triangleSample(pos int, t config.ToneConfig) byte {
	period := t.PeriodSamples
	if period < 2 {
		period = 2
	}
	p := pos % period
	dist := p - period/2
	if dist < 0 {
		dist = -dist
	}
	v := t.Center + t.Amplitude*(4*dist-period)/period
	return clampByte(v)
}

// alawSample encodes one sample of a sine at t.FrequencyHz with G.711 A-law.
func alawSample(pos, sampleRate int, t config.ToneConfig) byte {
	phase := 2 * math.Pi * float64(t.FrequencyHz) * float64(pos) / float64(sampleRate)
	pcm := int16(math.Round(float64(t.Level) * math.Sin(phase)))
	return g711.EncodeAlawFrame(pcm)
}

func clampByte(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return byte(v)
	}
}
