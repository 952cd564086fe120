package recorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyser_Silence(t *testing.T) {
	a := NewAnalyser()
	bins := a.ByteFrequencyData(make([]float64, FFTSize))
	for k, v := range bins {
		assert.Zero(t, v, "bin %d", k)
	}
	assert.Equal(t, IdleLevels(), Levels(bins))
}

func TestAnalyser_TonePeaksAtItsBin(t *testing.T) {
	a := NewAnalyser()
	samples := normalize(nil, sine(8, 0.9))

	bins := a.ByteFrequencyData(samples)
	assert.Equal(t, uint8(255), bins[8])
	assert.Zero(t, bins[20], "a periodic Blackman window leaks two bins at most")
	assert.Zero(t, bins[2])
}

func TestAnalyser_Smoothing(t *testing.T) {
	a := NewAnalyser()
	quiet := normalize(nil, sine(8, 0.0005))

	first := a.ByteFrequencyData(quiet)[8]
	var last uint8
	for i := 0; i < 10; i++ {
		last = a.ByteFrequencyData(quiet)[8]
	}
	assert.Greater(t, last, first, "magnitudes rise towards the steady value")
}

func TestAnalyser_ShortInput(t *testing.T) {
	a := NewAnalyser()
	bins := a.ByteFrequencyData([]float64{0.5, -0.5})
	assert.Len(t, bins, BinCount)
}

func TestLevels(t *testing.T) {
	var bins [BinCount]uint8
	bins[3] = 255
	bins[4] = 51
	bins[31] = 255

	levels := Levels(bins)
	assert.Len(t, levels, LevelCount)
	assert.Equal(t, 100.0, levels[3])
	assert.InDelta(t, 20.0, levels[4], 1e-9)
	assert.Equal(t, MinLevel, levels[0])
	assert.Equal(t, MinLevel, levels[29], "bins past the last bucket are not shown")
}
