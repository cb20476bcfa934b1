package audio

import (
	"math"
	"testing"
)

func TestResample_SameRateCopies(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out, err := Resample(in, 8000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	out[0] = 9
	if in[0] != 0.1 {
		t.Error("expected output to be a copy, input was mutated")
	}
}

func TestResample_Upsample(t *testing.T) {
	in := []float32{0, 1}
	out, err := Resample(in, 8000, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(out))
	}
	// Linear interpolation keeps output within the input envelope
	for i, s := range out {
		if s < 0 || s > 1 {
			t.Errorf("sample %d out of envelope: %v", i, s)
		}
	}
	if out[0] != 0 {
		t.Errorf("expected first sample preserved, got %v", out[0])
	}
}

func TestResample_Downsample(t *testing.T) {
	in := make([]float32, 480) // 30ms at 16kHz
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 16000))
	}
	out, err := Resample(in, 16000, 8000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 240 {
		t.Fatalf("expected 240 samples, got %d", len(out))
	}
}

func TestResample_InvalidRates(t *testing.T) {
	if _, err := Resample([]float32{1}, 0, 8000); err == nil {
		t.Error("expected error for zero source rate")
	}
	if _, err := Resample([]float32{1}, 8000, -1); err == nil {
		t.Error("expected error for negative target rate")
	}
}

func TestResample_Empty(t *testing.T) {
	out, err := Resample(nil, 8000, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}
