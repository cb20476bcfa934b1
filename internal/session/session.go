// Package session implements the per-call streaming session state machine
// and the registry that owns all live sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"amd-detection-service/internal/audio"
	"amd-detection-service/internal/detect"
	"amd-detection-service/internal/models"
	"amd-detection-service/internal/observability/logging"
	"amd-detection-service/internal/observability/metrics"
)

// State is the lifecycle state of a streaming session.
//
// State transitions:
//
//	ACTIVE ──→ TERMINATED
//
// TERMINATED is absorbing; no further audio is accepted.
type State int

const (
	// StateActive - accepting audio, may run analyses.
	StateActive State = iota
	// StateTerminated - stopped or disconnected, removed from the registry.
	StateTerminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateTerminated:
		return "TERMINATED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// ErrTerminated is returned when audio is pushed into a terminated session.
var ErrTerminated = errors.New("session is terminated")

// Analysis is the outcome of one completed window analysis.
type Analysis struct {
	Result        detect.Result
	AnalysisCount int
}

// Session owns one call leg's window buffer and detector pipeline.
// Analyses are strictly sequential: at most one is in flight per session.
type Session struct {
	id         string
	callSID    string
	sampleRate int
	detectors  []detect.Detector
	createdAt  time.Time
	log        zerolog.Logger

	// analysisMu serializes PushAudio so a new window analysis cannot
	// begin while a prior one is still running.
	analysisMu sync.Mutex

	mu            sync.Mutex
	state         State
	buffer        *audio.Buffer
	analysisCount int
	lastDetection string
	detections    []detect.Detection
	confidences   []float64
}

func newSession(id, callSID string, cfg Config) *Session {
	return &Session{
		id:         id,
		callSID:    callSID,
		sampleRate: cfg.SampleRate,
		detectors:  cfg.Detectors,
		createdAt:  time.Now(),
		buffer:     audio.NewBuffer(cfg.WindowSeconds, cfg.OverlapFraction, cfg.SampleRate, cfg.MaxBufferSamples),
		log:        logging.WithSession(id, callSID),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// CallSID returns the caller-supplied correlation identifier.
func (s *Session) CallSID() string { return s.callSID }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PushAudio appends decoded samples and, if a full window is available,
// runs the detector set and fuses the results. It returns the completed
// analysis, or nil when the buffered audio is still short of a window.
// At most one analysis runs per call, regardless of how much audio is
// buffered; overlap retention drains the backlog across calls.
func (s *Session) PushAudio(ctx context.Context, samples []float32) (*Analysis, error) {
	s.analysisMu.Lock()
	defer s.analysisMu.Unlock()

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrTerminated
	}
	dropped := s.buffer.Dropped()
	s.buffer.Append(samples)
	if over := s.buffer.Dropped() - dropped; over > 0 {
		metrics.DefaultMetrics.RecordWindowOverflow(int(over))
		s.log.Warn().Int64("droppedSamples", over).Msg("Buffer cap exceeded, oldest audio dropped")
	}
	if !s.buffer.WindowReady() {
		s.mu.Unlock()
		return nil, nil
	}
	window, err := s.buffer.TakeWindow()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	start := time.Now()
	results := detect.RunAll(ctx, s.detectors, window, s.sampleRate)
	fused := detect.Fuse(results)

	s.mu.Lock()
	if s.state != StateActive {
		// Terminated while the analysis was in flight; the result is
		// discarded and the buffer is left alone for teardown.
		s.mu.Unlock()
		return nil, ErrTerminated
	}
	s.buffer.Advance()
	s.analysisCount++
	s.lastDetection = fused.Detection.String()
	s.detections = append(s.detections, fused.Detection)
	s.confidences = append(s.confidences, fused.Confidence)
	count := s.analysisCount
	s.mu.Unlock()

	metrics.DefaultMetrics.RecordAnalysis(fused.Detection.String(), time.Since(start).Seconds())
	s.log.Info().
		Int("analysisCount", count).
		Str("detection", fused.Detection.String()).
		Float64("confidence", fused.Confidence).
		Msg("Window analysis completed")

	return &Analysis{Result: fused, AnalysisCount: count}, nil
}

// Terminate moves the session to TERMINATED. Idempotent; returns true on
// the transition that actually happened. An in-flight analysis is allowed
// to finish; its result is discarded.
func (s *Session) Terminate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminated {
		return false
	}
	s.state = StateTerminated
	return true
}

// FinalVerdict aggregates the per-window detections into one per-call
// verdict: majority vote with ties resolved like the ensemble, confidence
// the mean of the window confidences. A session that never completed an
// analysis is Unknown/0.5.
func (s *Session) FinalVerdict() (detect.Detection, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.detections) == 0 {
		return detect.Unknown, 0.5
	}

	counts := map[detect.Detection]int{}
	for _, d := range s.detections {
		counts[d]++
	}
	verdict := detect.Detections[0]
	for _, d := range detect.Detections[1:] {
		if counts[d] > counts[verdict] {
			verdict = d
		}
	}

	var sum float64
	for _, c := range s.confidences {
		sum += c
	}
	return verdict, sum / float64(len(s.confidences))
}

// Snapshot returns the session's introspection view.
func (s *Session) Snapshot() models.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionSummary{
		SessionID:     s.id,
		CallSID:       s.callSID,
		BufferSize:    s.buffer.Len(),
		AnalysisCount: s.analysisCount,
		LastDetection: s.lastDetection,
	}
}
