package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amd-detection-service/internal/api/httpapi"
	"amd-detection-service/internal/api/ws"
	"amd-detection-service/internal/config"
	"amd-detection-service/internal/detect"
	"amd-detection-service/internal/events"
	"amd-detection-service/internal/observability"
	"amd-detection-service/internal/observability/logging"
	"amd-detection-service/internal/session"
	"amd-detection-service/internal/stt"
	"amd-detection-service/internal/stt/google"
	"amd-detection-service/internal/stt/mock"
)

func main() {
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})
	log := logging.WithComponent("main")

	ctx := context.Background()

	primary, closePrimary, err := buildTranscriber(ctx, cfg.STT.Provider, cfg.STT.LanguageCode)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.STT.Provider).Msg("Failed to initialize transcriber")
	}
	defer closePrimary()

	secondary := primary
	closeSecondary := func() {}
	if cfg.STT.SecondaryProvider != "" && cfg.STT.SecondaryProvider != cfg.STT.Provider {
		secondary, closeSecondary, err = buildTranscriber(ctx, cfg.STT.SecondaryProvider, cfg.STT.LanguageCode)
		if err != nil {
			log.Fatal().Err(err).Str("provider", cfg.STT.SecondaryProvider).Msg("Failed to initialize secondary transcriber")
		}
	}
	defer closeSecondary()

	suite := detect.NewSuite(primary, secondary, detect.NewEnergyClassifier())

	publisher := events.New(&events.Config{
		Enabled:     cfg.Kafka.Enabled,
		Brokers:     cfg.Kafka.Brokers,
		TopicResult: cfg.Kafka.TopicResult,
		TopicFinal:  cfg.Kafka.TopicFinal,
		Principal:   cfg.Kafka.Principal,
	})
	defer publisher.Close()

	registry := session.NewRegistry(session.Config{
		WindowSeconds:    cfg.Window.DurationSeconds,
		OverlapFraction:  cfg.Window.OverlapFraction,
		SampleRate:       cfg.Window.SampleRate,
		MaxBufferSamples: cfg.Window.MaxBufferSamples(),
		Detectors:        suite.Streaming(),
	})

	obs := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obs.Start()

	router := httpapi.NewRouter(
		httpapi.NewHandler(suite, registry),
		ws.NewHandler(registry, publisher),
	)
	server := &http.Server{
		Addr:        ":" + cfg.Service.HTTPPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("AMD detection service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability server shutdown failed")
	}
}

// buildTranscriber selects the transcriber implementation behind the
// transcript detectors. The returned cleanup is safe to call always.
func buildTranscriber(ctx context.Context, provider, languageCode string) (stt.Transcriber, func(), error) {
	switch provider {
	case "google":
		t, err := google.New(ctx, languageCode)
		if err != nil {
			return nil, func() {}, err
		}
		return t, func() { _ = t.Close() }, nil
	default:
		return mock.New(), func() {}, nil
	}
}
