// Package google provides a Google Cloud Speech-to-Text transcriber.
package google

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"amd-detection-service/internal/audio"
)

// Transcriber implements stt.Transcriber with synchronous Recognize calls.
// Analysis windows are a few seconds long, well under the one-minute limit
// for synchronous recognition.
type Transcriber struct {
	client       *speech.Client
	languageCode string
}

// New creates a Google transcriber. Requires GOOGLE_APPLICATION_CREDENTIALS
// to be set in the environment.
func New(ctx context.Context, languageCode string) (*Transcriber, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &Transcriber{client: c, languageCode: languageCode}, nil
}

// Transcribe sends the window as LINEAR16 content and joins the returned
// alternatives into one transcript.
func (t *Transcriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(sampleRate),
			LanguageCode:    t.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio.EncodePCM16(samples),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return strings.Join(parts, " "), nil
}

// Close releases the underlying client.
func (t *Transcriber) Close() error {
	return t.client.Close()
}
