package detect

import (
	"context"
	"fmt"
	"time"

	"amd-detection-service/internal/audio"
)

// FrameClassifier is the external frame-level speech capability. It must
// accept exactly one frameDuration worth of samples at one of the supported
// rates and answer whether the frame contains speech.
type FrameClassifier interface {
	IsSpeech(frame []float32, sampleRate int) (bool, error)
}

// Rates the frame classifier contract supports, ascending.
var supportedRates = [...]int{8000, 16000, 32000, 48000}

const frameDuration = 30 * time.Millisecond

// nearestSupportedRate picks the supported rate closest to the actual one.
// Equidistant rates resolve to the lower rate.
func nearestSupportedRate(rate int) int {
	best := supportedRates[0]
	for _, r := range supportedRates[1:] {
		if abs(r-rate) < abs(best-rate) {
			best = r
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// VADDetector classifies a window by its voice activity ratio: the fraction
// of 30 ms frames the frame classifier marks as speech. Sparse activity
// reads as a machine (silence before the voicemail beep), dense activity as
// a person talking.
type VADDetector struct {
	classifier FrameClassifier
	resample   func(samples []float32, fromRate, toRate int) ([]float32, error)
}

// NewVADDetector builds a voice-activity detector around the given frame
// classifier, resampling through the audio package when needed.
func NewVADDetector(classifier FrameClassifier) *VADDetector {
	return &VADDetector{classifier: classifier, resample: audio.Resample}
}

func (d *VADDetector) Name() string { return SourceVAD }

// Analyze partitions the window into consecutive non-overlapping 30 ms
// frames (a trailing partial frame is discarded) and maps the speech ratio
// onto a detection.
func (d *VADDetector) Analyze(ctx context.Context, samples []float32, sampleRate int) (Result, error) {
	target := nearestSupportedRate(sampleRate)
	if sampleRate != target {
		var err error
		samples, err = d.resample(samples, sampleRate, target)
		if err != nil {
			return Result{}, fmt.Errorf("resample %d -> %d: %w", sampleRate, target, err)
		}
	}

	frameSize := target * int(frameDuration.Milliseconds()) / 1000
	voiceFrames, totalFrames := 0, 0
	for i := 0; i+frameSize <= len(samples); i += frameSize {
		speech, err := d.classifier.IsSpeech(samples[i:i+frameSize], target)
		if err != nil {
			return Result{}, fmt.Errorf("classify frame at %d: %w", i, err)
		}
		if speech {
			voiceFrames++
		}
		totalFrames++
	}

	voiceRatio := 0.0
	if totalFrames > 0 {
		voiceRatio = float64(voiceFrames) / float64(totalFrames)
	}

	r := Result{
		Source: SourceVAD,
		Metadata: map[string]any{
			"voice_ratio":  voiceRatio,
			"voice_frames": voiceFrames,
			"total_frames": totalFrames,
		},
	}
	switch {
	case voiceRatio < 0.1:
		r.Detection = Machine
		r.Confidence = 0.8
		r.Reasoning = fmt.Sprintf("low voice activity ratio: %.2f", voiceRatio)
	case voiceRatio > 0.7:
		r.Detection = Human
		r.Confidence = 0.7
		r.Reasoning = fmt.Sprintf("high voice activity ratio: %.2f", voiceRatio)
	default:
		r.Detection = Unknown
		r.Confidence = 0.5
		r.Reasoning = fmt.Sprintf("moderate voice activity ratio: %.2f", voiceRatio)
	}
	return r, nil
}
