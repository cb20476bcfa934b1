package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"amd-detection-service/internal/audio"
	"amd-detection-service/internal/detect"
	"amd-detection-service/internal/models"
	"amd-detection-service/internal/observability/logging"
	"amd-detection-service/internal/observability/metrics"
	"amd-detection-service/internal/session"
)

const defaultSampleRate = 8000

// Handler serves the batch analysis and introspection endpoints.
type Handler struct {
	suite    *detect.Suite
	registry *session.Registry
	log      zerolog.Logger
}

// NewHandler wires the REST surface to the detector suite and the live
// session registry.
func NewHandler(suite *detect.Suite, registry *session.Registry) *Handler {
	return &Handler{
		suite:    suite,
		registry: registry,
		log:      logging.WithComponent("httpapi"),
	}
}

// Analyze runs one batch classification over base64 16-bit PCM audio.
// Malformed input is a request-level failure; detector failures degrade
// to unknown votes inside the pipeline and still produce a 200.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	m := metrics.DefaultMetrics

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.RecordBatchRequest("invalid", "bad_request", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	modelType, err := detect.ParseModelType(req.ModelType)
	if err != nil {
		m.RecordBatchRequest("invalid", "bad_request", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sampleRate := req.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}
	if sampleRate < 0 {
		m.RecordBatchRequest(modelType.String(), "bad_request", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, "sample_rate must be positive")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.AudioData)
	if err != nil {
		m.RecordBatchRequest(modelType.String(), "bad_request", time.Since(start).Seconds())
		writeError(w, http.StatusBadRequest, "audio_data is not valid base64: "+err.Error())
		return
	}
	samples, err := audio.DecodePCM16(raw)
	if err != nil {
		m.RecordBatchRequest(modelType.String(), "bad_request", time.Since(start).Seconds())
		if errors.Is(err, audio.ErrOddPCMLength) {
			writeError(w, http.StatusBadRequest, "audio_data is not 16-bit PCM: "+err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detectors := h.suite.ForModel(modelType)
	results := detect.RunAll(r.Context(), detectors, samples, sampleRate)

	var final detect.Result
	if modelType == detect.ModelEnsemble {
		final = detect.Fuse(results)
	} else {
		final = results[0]
	}

	latency := time.Since(start)
	m.RecordBatchRequest(modelType.String(), "ok", latency.Seconds())
	h.log.Info().
		Str("modelType", modelType.String()).
		Str("detection", final.Detection.String()).
		Float64("confidence", final.Confidence).
		Dur("latency", latency).
		Msg("Batch analysis completed")

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Detection:  final.Detection.String(),
		Confidence: final.Confidence,
		LatencyMs:  latency.Milliseconds(),
		ModelUsed:  final.Source,
		Reasoning:  final.Reasoning,
		Metadata:   final.Metadata,
	})
}

// Sessions lists the live streaming sessions.
func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.registry.List()
	writeJSON(w, http.StatusOK, models.SessionsResponse{
		ActiveSessions: len(sessions),
		Sessions:       sessions,
	})
}

// Models lists the available detectors.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ModelsResponse{
		AvailableModels: h.suite.Names(),
		ModelInfo:       h.suite.Info(),
	})
}

// Health reports the loaded-detector and active-session counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:         "healthy",
		ModelsLoaded:   len(h.suite.Names()),
		ActiveSessions: h.registry.Len(),
		Timestamp:      float64(time.Now().UnixMilli()) / 1000.0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
