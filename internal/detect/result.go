// Package detect implements the per-window call classification detectors
// and the weighted ensemble that fuses their outputs into a single verdict.
package detect

import "encoding/json"

// Detection is the classification of a call leg. The declaration order is
// significant: ensemble ties resolve to the earliest category.
type Detection int

const (
	// Human - a live person answered the call.
	Human Detection = iota
	// Machine - an answering machine, voicemail or IVR picked up.
	Machine
	// Unknown - not enough signal to decide either way.
	Unknown
)

// Detections enumerates all categories in tie-break order.
var Detections = [...]Detection{Human, Machine, Unknown}

// String returns the wire representation of the detection.
func (d Detection) String() string {
	switch d {
	case Human:
		return "human"
	case Machine:
		return "machine"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the detection as its wire string.
func (d Detection) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Detector source names used as ensemble weight keys.
const (
	SourceWhisper         = "whisper"
	SourceWav2Vec2        = "wav2vec2"
	SourceVAD             = "vad"
	SourceAudioClassifier = "audio_classifier"
	SourceTranscript      = "transcript"
	SourceEnsemble        = "ensemble"
)

// Result is the normalized output of any detector.
// Confidence is always within [0, 1] and Reasoning is never empty.
type Result struct {
	Detection  Detection      `json:"detection"`
	Confidence float64        `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Source     string         `json:"source"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Failed builds the degraded result a detector error maps to. Detector
// failures never abort a session or a batch request; they contribute an
// Unknown vote instead.
func Failed(source string, err error) Result {
	return Result{
		Detection:  Unknown,
		Confidence: 0.5,
		Reasoning:  "analysis failed: " + err.Error(),
		Source:     source,
	}
}
