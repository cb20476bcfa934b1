package audio

import (
	"fmt"
	"math"
)

// Resample converts samples from one rate to another by linear
// interpolation. Good enough for classification features; nobody listens
// to the output.
func Resample(samples []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates %d -> %d", fromRate, toRate)
	}
	if fromRate == toRate || len(samples) == 0 {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	ratio := float64(toRate) / float64(fromRate)
	n := int(math.Round(float64(len(samples)) * ratio))
	out := make([]float32, n)
	for i := range out {
		pos := float64(i) / ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out, nil
}
