// Package stt defines the speech-to-text capability consumed by the
// transcript-based detectors.
package stt

import "context"

// Transcriber converts a window of linear PCM samples into text.
// Implementations may fail; callers are expected to absorb the error at
// the detector boundary rather than abort the call.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}
