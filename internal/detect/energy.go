package detect

import (
	"fmt"
	"math"
)

// EnergyClassifier is a pure-Go frame classifier based on RMS energy.
// Telephony speech sits well above the line-noise floor, so a single
// threshold on per-frame RMS is a workable stand-in for a model-backed
// classifier.
type EnergyClassifier struct {
	threshold float64
}

// NewEnergyClassifier returns a classifier tuned for normalized [-1, 1]
// telephony audio.
func NewEnergyClassifier() *EnergyClassifier {
	return &EnergyClassifier{threshold: 0.015}
}

// IsSpeech reports whether the frame's RMS energy crosses the speech
// threshold. Rates outside the supported set are a contract violation.
func (c *EnergyClassifier) IsSpeech(frame []float32, sampleRate int) (bool, error) {
	supported := false
	for _, r := range supportedRates {
		if r == sampleRate {
			supported = true
			break
		}
	}
	if !supported {
		return false, fmt.Errorf("unsupported sample rate %d", sampleRate)
	}
	if len(frame) == 0 {
		return false, nil
	}

	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum/float64(len(frame))) >= c.threshold, nil
}
