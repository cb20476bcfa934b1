package audio

import (
	"errors"
	"testing"
)

func TestBuffer_WindowNotReadyUntilFull(t *testing.T) {
	// 3s window at 8kHz with 50% overlap
	b := NewBuffer(3.0, 0.5, 8000, 0)

	if b.RequiredSamples() != 24000 {
		t.Fatalf("expected 24000 required samples, got %d", b.RequiredSamples())
	}
	if b.WindowReady() {
		t.Error("expected empty buffer to not be window-ready")
	}

	b.Append(make([]float32, 23999))
	if b.WindowReady() {
		t.Error("expected buffer one sample short to not be window-ready")
	}

	b.Append(make([]float32, 1))
	if !b.WindowReady() {
		t.Error("expected full buffer to be window-ready")
	}
}

func TestBuffer_TakeWindowBeforeReady(t *testing.T) {
	b := NewBuffer(3.0, 0.5, 8000, 0)
	b.Append(make([]float32, 100))

	if _, err := b.TakeWindow(); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestBuffer_TakeWindowDoesNotMutate(t *testing.T) {
	b := NewBuffer(1.0, 0.5, 100, 0)
	b.Append(make([]float32, 150))

	w1, err := b.TakeWindow()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w1) != 100 {
		t.Fatalf("expected window of 100 samples, got %d", len(w1))
	}
	if b.Len() != 150 {
		t.Errorf("expected TakeWindow to leave length 150, got %d", b.Len())
	}

	// Mutating the returned window must not alias buffered samples
	w1[0] = 1.0
	w2, _ := b.TakeWindow()
	if w2[0] != 0 {
		t.Error("expected returned window to be a copy")
	}
}

func TestBuffer_AdvanceRetainsOverlap(t *testing.T) {
	b := NewBuffer(1.0, 0.5, 100, 0)
	b.Append(make([]float32, 100))

	if _, err := b.TakeWindow(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Advance()

	// With 50% overlap, half the window stays for the next one
	if b.Len() != 50 {
		t.Errorf("expected 50 retained samples, got %d", b.Len())
	}

	// Samples appended after the taken window survive the advance
	b.Append(make([]float32, 30))
	if b.Len() != 80 {
		t.Errorf("expected 80 samples after late append, got %d", b.Len())
	}
}

func TestBuffer_ZeroOverlapConsumesWholeWindow(t *testing.T) {
	b := NewBuffer(1.0, 0, 100, 0)
	b.Append(make([]float32, 120))

	if _, err := b.TakeWindow(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.Advance()

	if b.Len() != 20 {
		t.Errorf("expected 20 samples after full consumption, got %d", b.Len())
	}
}

func TestBuffer_CapDropsOldest(t *testing.T) {
	b := NewBuffer(1.0, 0.5, 100, 200)

	samples := make([]float32, 250)
	for i := range samples {
		samples[i] = float32(i)
	}
	b.Append(samples)

	if b.Len() != 200 {
		t.Errorf("expected buffer capped at 200, got %d", b.Len())
	}
	if b.Dropped() != 50 {
		t.Errorf("expected 50 dropped samples, got %d", b.Dropped())
	}

	// The oldest samples were evicted, so the window starts at sample 50
	w, err := b.TakeWindow()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w[0] != 50 {
		t.Errorf("expected window to start at sample 50, got %v", w[0])
	}
}

func TestBuffer_RequiredSamplesRounded(t *testing.T) {
	// 3s at 44100Hz
	b := NewBuffer(3.0, 0.5, 44100, 0)
	if b.RequiredSamples() != 132300 {
		t.Errorf("expected 132300 required samples, got %d", b.RequiredSamples())
	}
}
