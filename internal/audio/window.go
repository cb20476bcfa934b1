package audio

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a window is requested before the
// buffer holds a full one. Callers must check WindowReady first.
var ErrInsufficientData = errors.New("insufficient buffered audio for a window")

// Buffer accumulates linear PCM samples and yields fixed-duration,
// overlapping analysis windows. It is not safe for concurrent use; the
// owning session serializes access.
type Buffer struct {
	samples  []float32
	required int // samples per window, constant for the buffer's lifetime
	retained int // samples kept across Advance for window overlap
	max      int // buffered-sample cap, 0 means unbounded
	dropped  int64
}

// NewBuffer sizes a window buffer. requiredSamples is
// round(windowSeconds * sampleRate); Advance retains
// round(requiredSamples * overlap) samples for the next window.
// maxSamples bounds growth under slow analysis: once exceeded, the oldest
// samples are dropped. Zero disables the bound.
func NewBuffer(windowSeconds, overlap float64, sampleRate, maxSamples int) *Buffer {
	required := int(math.Round(windowSeconds * float64(sampleRate)))
	return &Buffer{
		required: required,
		retained: int(math.Round(float64(required) * overlap)),
		max:      maxSamples,
	}
}

// Append adds samples to the tail, evicting from the front if the cap is
// exceeded.
func (b *Buffer) Append(samples []float32) {
	b.samples = append(b.samples, samples...)
	if b.max > 0 && len(b.samples) > b.max {
		over := len(b.samples) - b.max
		b.samples = b.samples[over:]
		b.dropped += int64(over)
	}
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int { return len(b.samples) }

// Dropped returns the total samples evicted by the cap.
func (b *Buffer) Dropped() int64 { return b.dropped }

// RequiredSamples returns the fixed window length in samples.
func (b *Buffer) RequiredSamples() int { return b.required }

// WindowReady reports whether a full analysis window is buffered.
func (b *Buffer) WindowReady() bool { return len(b.samples) >= b.required }

// TakeWindow returns a copy of the first full window without consuming it.
// Advance must be called exactly once per taken window.
func (b *Buffer) TakeWindow() ([]float32, error) {
	if !b.WindowReady() {
		return nil, ErrInsufficientData
	}
	window := make([]float32, b.required)
	copy(window, b.samples)
	return window, nil
}

// Advance slides the buffer forward, discarding the analyzed part of the
// window and retaining the overlap for the next one.
func (b *Buffer) Advance() {
	consume := b.required - b.retained
	if consume > len(b.samples) {
		consume = len(b.samples)
	}
	b.samples = b.samples[consume:]
}
