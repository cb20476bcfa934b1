package detect

import (
	"context"
	"fmt"
	"strings"

	"amd-detection-service/internal/stt"
)

// Phrases that indicate an answering machine or IVR picked up.
var machinePhrases = []string{
	"you have reached",
	"please leave a message",
	"after the beep",
	"not available",
	"voicemail",
	"mailbox",
	"press",
	"dial",
	"extension",
	"automated",
	"system",
	"recording",
}

// Phrases that indicate a live person answered.
var humanPhrases = []string{
	"hello",
	"hi",
	"yes",
	"speaking",
	"this is",
	"how can i help",
	"what's up",
	"hey there",
}

func countPhrases(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

// ClassifyTranscript scores transcribed text against the fixed phrase lists.
// Transcripts shorter than 3 characters carry no signal and map to Unknown.
func ClassifyTranscript(transcript, source string) Result {
	text := strings.ToLower(strings.TrimSpace(transcript))
	if len(text) < 3 {
		return Result{
			Detection:  Unknown,
			Confidence: 0.5,
			Reasoning:  "transcript too short",
			Source:     source,
		}
	}

	machineScore := countPhrases(text, machinePhrases)
	humanScore := countPhrases(text, humanPhrases)

	switch {
	case machineScore > humanScore:
		return Result{
			Detection:  Machine,
			Confidence: min(0.9, 0.6+0.1*float64(machineScore)),
			Reasoning:  fmt.Sprintf("machine patterns detected: %d", machineScore),
			Source:     source,
		}
	case humanScore > machineScore:
		return Result{
			Detection:  Human,
			Confidence: min(0.9, 0.6+0.1*float64(humanScore)),
			Reasoning:  fmt.Sprintf("human patterns detected: %d", humanScore),
			Source:     source,
		}
	default:
		return Result{
			Detection:  Unknown,
			Confidence: 0.5,
			Reasoning:  "ambiguous transcript patterns",
			Source:     source,
		}
	}
}

// TranscriptDetector transcribes a window through an external speech-to-text
// capability and classifies the resulting text. The same implementation backs
// the "whisper", "wav2vec2" and "transcript" sources; only the transcriber
// and the weight key differ.
type TranscriptDetector struct {
	source      string
	transcriber stt.Transcriber
}

// NewTranscriptDetector builds a detector reporting under the given source.
func NewTranscriptDetector(source string, transcriber stt.Transcriber) *TranscriptDetector {
	return &TranscriptDetector{source: source, transcriber: transcriber}
}

func (d *TranscriptDetector) Name() string { return d.source }

// Analyze transcribes the window and scores the text.
func (d *TranscriptDetector) Analyze(ctx context.Context, samples []float32, sampleRate int) (Result, error) {
	text, err := d.transcriber.Transcribe(ctx, samples, sampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe: %w", err)
	}

	r := ClassifyTranscript(text, d.source)
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata["transcription"] = text
	return r, nil
}
