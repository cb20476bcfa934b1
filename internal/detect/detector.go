package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"amd-detection-service/internal/observability/metrics"
)

// Detector scores one window of linear PCM call audio.
// Implementations return an error instead of guessing; the caller maps
// failures to the Unknown convention at a single boundary (RunAll).
type Detector interface {
	// Name returns the detector's source identifier (ensemble weight key).
	Name() string

	// Analyze classifies a window of samples at the given rate.
	Analyze(ctx context.Context, samples []float32, sampleRate int) (Result, error)
}

// RunAll executes every detector over the same window. Individual failures
// are logged into the result set as Unknown/0.5 votes, so one bad detector
// cannot sink the batch request or the streaming session.
func RunAll(ctx context.Context, detectors []Detector, samples []float32, sampleRate int) []Result {
	m := metrics.DefaultMetrics

	results := make([]Result, 0, len(detectors))
	for _, d := range detectors {
		start := time.Now()
		r, err := d.Analyze(ctx, samples, sampleRate)
		m.RecordDetectorRun(d.Name(), err, time.Since(start).Seconds())
		if err != nil {
			r = Failed(d.Name(), err)
		}
		results = append(results, r)
	}
	return results
}

// ModelType selects which detector pipeline serves a batch request.
// It is a closed set; anything else is rejected at the parse boundary.
type ModelType int

const (
	ModelEnsemble ModelType = iota
	ModelVAD
	ModelWhisper
	ModelWav2Vec2
	ModelTranscript
)

// ParseModelType maps a wire string onto the closed model set.
// The empty string selects the ensemble, matching the batch default.
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ensemble":
		return ModelEnsemble, nil
	case "vad":
		return ModelVAD, nil
	case "whisper":
		return ModelWhisper, nil
	case "wav2vec2":
		return ModelWav2Vec2, nil
	case "transcript":
		return ModelTranscript, nil
	default:
		return ModelEnsemble, fmt.Errorf("unknown model type %q", s)
	}
}

// String returns the wire representation of the model type.
func (m ModelType) String() string {
	switch m {
	case ModelVAD:
		return "vad"
	case ModelWhisper:
		return "whisper"
	case ModelWav2Vec2:
		return "wav2vec2"
	case ModelTranscript:
		return "transcript"
	default:
		return "ensemble"
	}
}
