// Package config loads service configuration from the environment.
// Invalid values fall back to defaults rather than failing startup.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Configuration is the full service configuration.
type Configuration struct {
	Service       ServiceConfig
	STT           STTConfig
	Window        WindowConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig identifies the service and its API listener.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// STTConfig selects the transcriber implementations behind the
// transcript-based detectors.
type STTConfig struct {
	Provider          string // mock, google
	SecondaryProvider string // backs the wav2vec2 source; empty reuses Provider
	LanguageCode      string
}

// WindowConfig fixes the streaming analysis window geometry.
type WindowConfig struct {
	DurationSeconds  float64
	OverlapFraction  float64
	SampleRate       int
	MaxBufferSeconds float64 // buffered-audio cap; 0 disables the bound
}

// MaxBufferSamples converts the buffered-audio cap to samples.
func (w WindowConfig) MaxBufferSamples() int {
	return int(w.MaxBufferSeconds * float64(w.SampleRate))
}

// KafkaConfig configures the analysis event publisher.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	TopicResult string
	TopicFinal  string
	Principal   string
}

// ObservabilityConfig configures logging and the metrics listener.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsPort string
}

// Load reads the configuration from the environment.
func Load() *Configuration {
	cfg := &Configuration{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-amd-detection"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8001"),
		},
		STT: STTConfig{
			Provider:          envOrDefault("STT_PROVIDER", "mock"),
			SecondaryProvider: envOrDefault("STT_SECONDARY_PROVIDER", ""),
			LanguageCode:      envOrDefault("STT_LANGUAGE_CODE", "en-US"),
		},
		Window: WindowConfig{
			DurationSeconds:  envOrDefaultFloat("WINDOW_DURATION_SECONDS", 3.0),
			OverlapFraction:  envOrDefaultFloat("WINDOW_OVERLAP_FRACTION", 0.5),
			SampleRate:       envOrDefaultInt("WINDOW_SAMPLE_RATE_HZ", 8000),
			MaxBufferSeconds: envOrDefaultFloat("WINDOW_MAX_BUFFER_SECONDS", 30.0),
		},
		Kafka: KafkaConfig{
			Enabled:     envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:     envOrDefaultStrings("KAFKA_BROKERS", nil),
			TopicResult: envOrDefault("KAFKA_TOPIC_RESULT", "amd.analysis.result"),
			TopicFinal:  envOrDefault("KAFKA_TOPIC_FINAL", "amd.analysis.final"),
			Principal:   envOrDefault("KAFKA_PRINCIPAL", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}

	// Kafka principal falls back to the service principal.
	if cfg.Kafka.Principal == "" {
		cfg.Kafka.Principal = cfg.Service.Principal
	}

	// Window geometry must stay sane; a full-overlap window would never
	// consume any audio.
	if cfg.Window.DurationSeconds <= 0 {
		cfg.Window.DurationSeconds = 3.0
	}
	if cfg.Window.OverlapFraction < 0 || cfg.Window.OverlapFraction >= 1 {
		cfg.Window.OverlapFraction = 0.5
	}
	if cfg.Window.SampleRate <= 0 {
		cfg.Window.SampleRate = 8000
	}

	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultStrings(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
