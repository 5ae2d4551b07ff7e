package fixture

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zaf/g711"

	"firestige.xyz/rtpfixture/internal/config"
)

func TestSamplesFor(t *testing.T) {
	tests := []struct {
		durationMs, rate, want int
	}{
		{20, 8000, 160},
		{30, 8000, 240},
		{10, 8000, 80},
		{1, 8000, 8},
		{3, 1000, 3},
		{1, 999, 0}, // truncation
		{0, 8000, 0},
		{-20, 8000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SamplesFor(tt.durationMs, tt.rate), "%d ms @ %d Hz", tt.durationMs, tt.rate)
	}
}

func TestSynthesizeTriangleShape(t *testing.T) {
	tone := config.Default().Tone
	p := SynthesizeTone(20, 8000, tone)

	assert.Len(t, p, 160)
	assert.Equal(t, byte(255), p[0], "peak at period start")
	assert.Equal(t, byte(128), p[5], "center on the falling edge")
	assert.Equal(t, byte(1), p[10], "trough at half period")
	assert.Equal(t, byte(128), p[15], "center on the rising edge")

	// Periodic with the configured period.
	for i := 20; i < len(p); i++ {
		if p[i] != p[i-20] {
			t.Fatalf("sample %d = %d, want %d", i, p[i], p[i-20])
		}
	}
}

func TestSynthesizeTriangleClamps(t *testing.T) {
	tone := config.Default().Tone
	tone.Amplitude = 1000

	p := SynthesizeTone(20, 8000, tone)
	assert.Equal(t, byte(255), p[0])
	assert.Equal(t, byte(0), p[10])
}

func TestSynthesizeDeterministic(t *testing.T) {
	tone := config.Default().Tone
	a := SynthesizeTone(20, 8000, tone)
	b := SynthesizeTone(20, 8000, tone)
	assert.True(t, bytes.Equal(a, b))

	// The default period divides a packet, so every packet is identical.
	assert.Equal(t, a, SynthesizeToneAt(160*7, 20, 8000, tone))
}

func TestSynthesizeEmpty(t *testing.T) {
	assert.Empty(t, SynthesizeTone(0, 8000, config.Default().Tone))
}

func TestSynthesizeALaw(t *testing.T) {
	tone := config.Default().Tone
	tone.Mode = config.ToneALaw

	p := SynthesizeTone(20, 8000, tone)
	assert.Len(t, p, 160)

	// sin(0) encodes as A-law zero.
	assert.Equal(t, g711.EncodeAlawFrame(0), p[0])

	// 400 Hz at 8 kHz repeats every 20 samples.
	for i := 20; i < len(p); i++ {
		if p[i] != p[i-20] {
			t.Fatalf("sample %d = %#x, want %#x", i, p[i], p[i-20])
		}
	}

	// Decoded peak stays close to the configured level.
	var peak int16
	for _, s := range p {
		if v := g711.DecodeAlawFrame(s); v > peak {
			peak = v
		}
	}
	assert.InDelta(t, float64(tone.Level), float64(peak), float64(tone.Level)/10)
}
