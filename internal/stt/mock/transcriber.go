// Package mock provides a canned transcriber for development and tests
// without cloud credentials. It cycles through phrases covering the
// interesting classification outcomes: greetings, voicemail prompts and
// silence.
package mock

import (
	"context"
	"sync"
)

// DefaultPhrases are the transcripts the mock cycles through.
var DefaultPhrases = []string{
	"hello this is maria speaking",
	"you have reached the voicemail of",
	"please leave a message after the beep",
	"hi how can i help you today",
	"",
}

// Transcriber implements stt.Transcriber with deterministic canned output.
type Transcriber struct {
	mu      sync.Mutex
	phrases []string
	next    int
}

// New creates a mock transcriber using DefaultPhrases.
func New() *Transcriber {
	return NewWithPhrases(DefaultPhrases)
}

// NewWithPhrases creates a mock transcriber cycling through the given
// transcripts. An empty list always transcribes to the empty string.
func NewWithPhrases(phrases []string) *Transcriber {
	return &Transcriber{phrases: phrases}
}

// Transcribe returns the next canned phrase, ignoring the audio.
func (t *Transcriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phrases) == 0 {
		return "", nil
	}
	phrase := t.phrases[t.next%len(t.phrases)]
	t.next++
	return phrase, nil
}
