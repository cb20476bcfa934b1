package detect

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type staticDetector struct {
	name   string
	result Result
	err    error
}

func (d staticDetector) Name() string { return d.name }

func (d staticDetector) Analyze(ctx context.Context, samples []float32, sampleRate int) (Result, error) {
	return d.result, d.err
}

func TestRunAll_CollectsAllResults(t *testing.T) {
	detectors := []Detector{
		staticDetector{name: SourceWhisper, result: Result{Detection: Machine, Confidence: 0.8, Source: SourceWhisper}},
		staticDetector{name: SourceVAD, result: Result{Detection: Human, Confidence: 0.7, Source: SourceVAD}},
	}
	results := RunAll(context.Background(), detectors, make([]float32, 100), 8000)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Detection != Machine || results[1].Detection != Human {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestRunAll_FailureBecomesUnknownVote(t *testing.T) {
	detectors := []Detector{
		staticDetector{name: SourceWhisper, err: errors.New("backend timeout")},
		staticDetector{name: SourceVAD, result: Result{Detection: Human, Confidence: 0.7, Source: SourceVAD}},
	}
	results := RunAll(context.Background(), detectors, make([]float32, 100), 8000)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	failed := results[0]
	if failed.Detection != Unknown {
		t.Errorf("expected failed detector to vote unknown, got %s", failed.Detection)
	}
	if failed.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", failed.Confidence)
	}
	if failed.Source != SourceWhisper {
		t.Errorf("expected failure attributed to %q, got %q", SourceWhisper, failed.Source)
	}
	if !strings.Contains(failed.Reasoning, "backend timeout") {
		t.Errorf("expected reasoning to carry the error, got %q", failed.Reasoning)
	}
}

func TestParseModelType(t *testing.T) {
	cases := []struct {
		in   string
		want ModelType
	}{
		{"", ModelEnsemble},
		{"ensemble", ModelEnsemble},
		{"Ensemble", ModelEnsemble},
		{" vad ", ModelVAD},
		{"whisper", ModelWhisper},
		{"wav2vec2", ModelWav2Vec2},
		{"transcript", ModelTranscript},
	}
	for _, c := range cases {
		got, err := ParseModelType(c.in)
		if err != nil {
			t.Errorf("ParseModelType(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseModelType(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseModelType_Unknown(t *testing.T) {
	if _, err := ParseModelType("gpt4"); err == nil {
		t.Error("expected error for unknown model type")
	}
}

func TestModelTypeString(t *testing.T) {
	for _, m := range []ModelType{ModelEnsemble, ModelVAD, ModelWhisper, ModelWav2Vec2, ModelTranscript} {
		parsed, err := ParseModelType(m.String())
		if err != nil {
			t.Errorf("%v: %v", m, err)
		}
		if parsed != m {
			t.Errorf("expected %v to round-trip, got %v", m, parsed)
		}
	}
}

func TestDetectionJSON(t *testing.T) {
	b, err := Machine.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"machine"` {
		t.Errorf("expected \"machine\", got %s", b)
	}
}
