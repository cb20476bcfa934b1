package session

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"amd-detection-service/internal/detect"
)

type fixedDetector struct {
	result detect.Result
	calls  int
	mu     sync.Mutex
}

func (d *fixedDetector) Name() string { return d.result.Source }

func (d *fixedDetector) Analyze(ctx context.Context, samples []float32, sampleRate int) (detect.Result, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return d.result, nil
}

func (d *fixedDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func testConfig(detectors ...detect.Detector) Config {
	return Config{
		WindowSeconds:   3.0,
		OverlapFraction: 0.5,
		SampleRate:      8000,
		Detectors:       detectors,
	}
}

func TestSession_NoAnalysisBeforeWindowFull(t *testing.T) {
	d := &fixedDetector{result: detect.Result{Detection: detect.Human, Confidence: 0.7, Source: detect.SourceVAD}}
	s := newSession("sess-1", "CA123", testConfig(d))

	a, err := s.PushAudio(context.Background(), make([]float32, 8000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Fatalf("expected no analysis for 1s of audio, got %+v", a)
	}
	if d.callCount() != 0 {
		t.Errorf("expected no detector runs, got %d", d.callCount())
	}
}

func TestSession_ExactlyOneAnalysisPerPush(t *testing.T) {
	d := &fixedDetector{result: detect.Result{Detection: detect.Machine, Confidence: 0.8, Source: detect.SourceVAD}}
	s := newSession("sess-1", "CA123", testConfig(d))

	// Two full windows of audio in one push still yields a single analysis
	a, err := s.PushAudio(context.Background(), make([]float32, 2*24000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("expected an analysis")
	}
	if a.AnalysisCount != 1 {
		t.Errorf("expected analysis count 1, got %d", a.AnalysisCount)
	}
	if d.callCount() != 1 {
		t.Errorf("expected 1 detector run, got %d", d.callCount())
	}
	if a.Result.Detection != detect.Machine {
		t.Errorf("expected machine, got %s", a.Result.Detection)
	}
	if a.Result.Source != detect.SourceEnsemble {
		t.Errorf("expected fused result, got source %q", a.Result.Source)
	}
}

func TestSession_OverlapDrainsBacklog(t *testing.T) {
	d := &fixedDetector{result: detect.Result{Detection: detect.Human, Confidence: 0.7, Source: detect.SourceVAD}}
	s := newSession("sess-1", "CA123", testConfig(d))

	// 48000 buffered, first analysis consumes 12000, leaving 36000
	if _, err := s.PushAudio(context.Background(), make([]float32, 48000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Still over a full window, so an empty push fires the next analysis
	a, err := s.PushAudio(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("expected backlog analysis")
	}
	if a.AnalysisCount != 2 {
		t.Errorf("expected analysis count 2, got %d", a.AnalysisCount)
	}
}

func TestSession_PushAfterTerminate(t *testing.T) {
	s := newSession("sess-1", "CA123", testConfig())
	if !s.Terminate() {
		t.Fatal("expected first Terminate to transition")
	}
	if s.Terminate() {
		t.Error("expected second Terminate to be a no-op")
	}
	if s.State() != StateTerminated {
		t.Errorf("expected TERMINATED, got %s", s.State())
	}

	if _, err := s.PushAudio(context.Background(), make([]float32, 100)); !errors.Is(err, ErrTerminated) {
		t.Errorf("expected ErrTerminated, got %v", err)
	}
}

func TestSession_FinalVerdictEmpty(t *testing.T) {
	s := newSession("sess-1", "CA123", testConfig())
	verdict, confidence := s.FinalVerdict()
	if verdict != detect.Unknown {
		t.Errorf("expected unknown, got %s", verdict)
	}
	if confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", confidence)
	}
}

func TestSession_FinalVerdictMajority(t *testing.T) {
	d := &fixedDetector{result: detect.Result{Detection: detect.Machine, Confidence: 0.8, Source: detect.SourceVAD}}
	s := newSession("sess-1", "CA123", testConfig(d))

	for i := 0; i < 3; i++ {
		if _, err := s.PushAudio(context.Background(), make([]float32, 24000)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}

	verdict, confidence := s.FinalVerdict()
	if verdict != detect.Machine {
		t.Errorf("expected machine verdict, got %s", verdict)
	}
	if math.Abs(confidence-0.8) > 1e-9 {
		t.Errorf("expected confidence 0.8, got %v", confidence)
	}
}

func TestSession_Snapshot(t *testing.T) {
	d := &fixedDetector{result: detect.Result{Detection: detect.Human, Confidence: 0.7, Source: detect.SourceVAD}}
	s := newSession("sess-1", "CA123", testConfig(d))

	if _, err := s.PushAudio(context.Background(), make([]float32, 24000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if snap.SessionID != "sess-1" || snap.CallSID != "CA123" {
		t.Errorf("unexpected identifiers in %+v", snap)
	}
	if snap.AnalysisCount != 1 {
		t.Errorf("expected analysis count 1, got %d", snap.AnalysisCount)
	}
	if snap.LastDetection != "human" {
		t.Errorf("expected last detection human, got %q", snap.LastDetection)
	}
	// Overlap retained after the analysis
	if snap.BufferSize != 12000 {
		t.Errorf("expected 12000 buffered samples, got %d", snap.BufferSize)
	}
}

func TestSession_BufferCapDropsOldest(t *testing.T) {
	// Cap below the window size: the buffer can never fill a window, so the
	// drop path is exercised without an analysis consuming samples.
	cfg := testConfig()
	cfg.MaxBufferSamples = 20000
	s := newSession("sess-1", "CA123", cfg)

	if _, err := s.PushAudio(context.Background(), make([]float32, 18000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.PushAudio(context.Background(), make([]float32, 5000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Snapshot().BufferSize; got != 20000 {
		t.Errorf("expected buffer capped at 20000 samples, got %d", got)
	}
}
