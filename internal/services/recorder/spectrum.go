package recorder

import "math"

// Analyser settings matching a browser AnalyserNode with fftSize 64
const (
	FFTSize       = 64
	BinCount      = FFTSize / 2
	LevelCount    = 30
	MinLevel      = 10.0
	minDecibels   = -100.0
	maxDecibels   = -30.0
	smoothingTime = 0.8
)

// Analyser turns the most recent PCM window into byte frequency data.
// Magnitudes are smoothed across calls, so one Analyser serves one session.
type Analyser struct {
	window   [FFTSize]float64
	smoothed [BinCount]float64
}

// NewAnalyser creates an analyser with a Blackman window
func NewAnalyser() *Analyser {
	a := &Analyser{}
	const alpha = 0.16
	a0, a1, a2 := 0.5*(1-alpha), 0.5, 0.5*alpha
	for n := range a.window {
		x := float64(n) / FFTSize
		a.window[n] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return a
}

// ByteFrequencyData maps the window of samples (in [-1, 1], oldest first) to
// BinCount values in 0..255. Short input is zero padded at the front.
func (a *Analyser) ByteFrequencyData(samples []float64) [BinCount]uint8 {
	var frame [FFTSize]float64
	if len(samples) > FFTSize {
		samples = samples[len(samples)-FFTSize:]
	}
	copy(frame[FFTSize-len(samples):], samples)
	for n := range frame {
		frame[n] *= a.window[n]
	}

	var out [BinCount]uint8
	for k := 0; k < BinCount; k++ {
		var re, im float64
		for n, v := range frame {
			phase := 2 * math.Pi * float64(k*n) / FFTSize
			re += v * math.Cos(phase)
			im -= v * math.Sin(phase)
		}
		magnitude := math.Hypot(re, im) / FFTSize
		a.smoothed[k] = smoothingTime*a.smoothed[k] + (1-smoothingTime)*magnitude
		out[k] = toByte(a.smoothed[k])
	}
	return out
}

func toByte(magnitude float64) uint8 {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 / (maxDecibels - minDecibels) * (db - minDecibels)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	default:
		return uint8(scaled)
	}
}

// Levels picks LevelCount bars from the bins, each in [MinLevel, 100]
func Levels(bins [BinCount]uint8) []float64 {
	step := BinCount / LevelCount
	levels := make([]float64, LevelCount)
	for i := range levels {
		levels[i] = math.Max(MinLevel, float64(bins[i*step])/255*100)
	}
	return levels
}

// IdleLevels is the flat visualization shown when nothing is recording
func IdleLevels() []float64 {
	levels := make([]float64, LevelCount)
	for i := range levels {
		levels[i] = MinLevel
	}
	return levels
}

// normalize converts s16 samples to floats in [-1, 1)
func normalize(dst []float64, src []int16) []float64 {
	dst = dst[:0]
	for _, s := range src {
		dst = append(dst, float64(s)/32768)
	}
	return dst
}
