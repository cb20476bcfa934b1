// Command streamclient exercises the streaming endpoint: it sends either a
// WAV file or a synthetic tone as base64 mu-law media frames and prints the
// analysis events pushed back by the service.
package main

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"flag"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"amd-detection-service/internal/audio"
	"amd-detection-service/internal/models"
)

const wavHeaderSize = 44

// 20ms frames at 8kHz, matching telephony media stream pacing.
const frameSamples = 160
const frameIntervalMs = 20

func main() {
	serverAddr := flag.String("server", "localhost:8001", "service address")
	callSID := flag.String("call", "test-call-"+time.Now().Format("150405"), "call SID")
	audioFile := flag.String("audio", "", "8kHz 16-bit mono WAV file; empty streams a synthetic tone")
	duration := flag.Duration("duration", 10*time.Second, "tone duration when no file is given")
	toneHz := flag.Float64("tone", 440, "tone frequency in Hz")
	flag.Parse()

	samples := loadSamples(*audioFile, *duration, *toneHz)

	url := "ws://" + *serverAddr + "/stream/" + *callSID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", url, err)
	}
	defer conn.Close()
	log.Printf("Connected to %s", url)

	// Print analysis events as they arrive.
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev models.AnalysisEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				log.Printf("Unreadable event: %v", err)
				continue
			}
			log.Printf("Analysis %d: %s (%.2f) - %s", ev.AnalysisCount, ev.Detection, ev.Confidence, ev.Reasoning)
		}
	}()

	startTime := time.Now()
	var frames int
	for i := 0; i+frameSamples <= len(samples); i += frameSamples {
		payload := base64.StdEncoding.EncodeToString(audio.EncodeMuLaw(samples[i : i+frameSamples]))
		msg := models.StreamInbound{
			Event: "media",
			Media: &models.MediaPayload{Payload: payload},
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Fatalf("Failed to send frame: %v", err)
		}
		frames++
		time.Sleep(frameIntervalMs * time.Millisecond)
	}
	log.Printf("Finished streaming: %d frames in %v", frames, time.Since(startTime))

	if err := conn.WriteJSON(models.StreamInbound{Event: "stop"}); err != nil {
		log.Fatalf("Failed to send stop: %v", err)
	}
	// Give the last analysis event a moment to arrive.
	time.Sleep(500 * time.Millisecond)
}

func loadSamples(path string, duration time.Duration, toneHz float64) []float32 {
	if path == "" {
		n := int(duration.Seconds() * 8000)
		samples := make([]float32, n)
		for i := range samples {
			samples[i] = 0.5 * float32(math.Sin(2*math.Pi*toneHz*float64(i)/8000))
		}
		return samples
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open audio file: %v", err)
	}
	defer f.Close()

	header := make([]byte, wavHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		log.Fatalf("Failed to read WAV header: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		log.Fatal("Not a valid WAV file")
	}
	if binary.LittleEndian.Uint16(header[20:22]) != 1 {
		log.Fatal("Only PCM format supported")
	}
	if rate := binary.LittleEndian.Uint32(header[24:28]); rate != 8000 {
		log.Printf("Warning: sample rate is %d Hz, expected 8000 Hz", rate)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		log.Fatalf("Failed to read audio: %v", err)
	}
	samples, err := audio.DecodePCM16(data[:len(data)&^1])
	if err != nil {
		log.Fatalf("Failed to decode audio: %v", err)
	}
	return samples
}
