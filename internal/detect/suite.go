package detect

import (
	"amd-detection-service/internal/stt"
)

// Suite holds the configured detector instances and maps model types onto
// the pipelines that serve them. It is built once at startup by the
// composition root and shared read-only afterwards.
type Suite struct {
	whisper    Detector
	wav2vec2   Detector
	transcript Detector
	vad        Detector
}

// NewSuite wires the detector set. The primary transcriber backs the
// "whisper" and "transcript" sources, the secondary backs "wav2vec2"; both
// may be the same implementation.
func NewSuite(primary, secondary stt.Transcriber, frames FrameClassifier) *Suite {
	return &Suite{
		whisper:    NewTranscriptDetector(SourceWhisper, primary),
		wav2vec2:   NewTranscriptDetector(SourceWav2Vec2, secondary),
		transcript: NewTranscriptDetector(SourceTranscript, primary),
		vad:        NewVADDetector(frames),
	}
}

// ForModel returns the detector pipeline serving a batch model type.
// The ensemble runs every weighted detector.
func (s *Suite) ForModel(m ModelType) []Detector {
	switch m {
	case ModelVAD:
		return []Detector{s.vad}
	case ModelWhisper:
		return []Detector{s.whisper}
	case ModelWav2Vec2:
		return []Detector{s.wav2vec2}
	case ModelTranscript:
		return []Detector{s.transcript}
	default:
		return []Detector{s.whisper, s.wav2vec2, s.vad}
	}
}

// Streaming returns the detector set run per window on live calls.
// Latency matters there, so only the primary transcriber and the cheap
// voice-activity detector participate.
func (s *Suite) Streaming() []Detector {
	return []Detector{s.whisper, s.vad}
}

// Names lists the available detector sources for introspection.
func (s *Suite) Names() []string {
	return []string{SourceWhisper, SourceWav2Vec2, SourceTranscript, SourceVAD}
}

// Info describes each detector for the introspection endpoint.
func (s *Suite) Info() map[string]string {
	return map[string]string{
		SourceWhisper:    "primary transcriber with phrase pattern scoring",
		SourceWav2Vec2:   "secondary transcriber with phrase pattern scoring",
		SourceTranscript: "transcript phrase pattern scoring",
		SourceVAD:        "voice activity ratio over 30ms frames",
	}
}
