// Package models defines the wire schemas for the batch, streaming and
// introspection surfaces, plus the events published to Kafka.
package models

// AnalyzeRequest is the batch analysis request body. AudioData carries
// base64-encoded little-endian 16-bit PCM samples.
type AnalyzeRequest struct {
	AudioData  string `json:"audio_data"`
	SampleRate int    `json:"sample_rate"`
	ModelType  string `json:"model_type"`
}

// AnalyzeResponse is the batch analysis response body.
type AnalyzeResponse struct {
	Detection  string         `json:"detection"`
	Confidence float64        `json:"confidence"`
	LatencyMs  int64          `json:"latency_ms"`
	ModelUsed  string         `json:"model_used"`
	Reasoning  string         `json:"reasoning"`
	Metadata   map[string]any `json:"metadata"`
}

// StreamInbound is a message received on the streaming connection.
// Event is "media" (with a payload) or "stop".
type StreamInbound struct {
	Event string        `json:"event"`
	Media *MediaPayload `json:"media,omitempty"`
}

// MediaPayload carries one base64-encoded G.711 mu-law audio frame.
type MediaPayload struct {
	Payload string `json:"payload"`
}

// AnalysisEvent is pushed to the caller after each completed window
// analysis.
type AnalysisEvent struct {
	Event         string  `json:"event"`
	SessionID     string  `json:"session_id"`
	CallSID       string  `json:"call_sid"`
	Detection     string  `json:"detection"`
	Confidence    float64 `json:"confidence"`
	AnalysisCount int     `json:"analysis_count"`
	Reasoning     string  `json:"reasoning"`
}

// SessionSummary is one row of the live-session listing.
type SessionSummary struct {
	SessionID     string `json:"session_id"`
	CallSID       string `json:"call_sid"`
	BufferSize    int    `json:"buffer_size"`
	AnalysisCount int    `json:"analysis_count"`
	LastDetection string `json:"last_detection"`
}

// SessionsResponse lists all live streaming sessions.
type SessionsResponse struct {
	ActiveSessions int              `json:"active_sessions"`
	Sessions       []SessionSummary `json:"sessions"`
}

// ModelsResponse lists the available detectors.
type ModelsResponse struct {
	AvailableModels []string          `json:"available_models"`
	ModelInfo       map[string]string `json:"model_info"`
}

// HealthResponse is the health summary.
type HealthResponse struct {
	Status         string  `json:"status"`
	ModelsLoaded   int     `json:"models_loaded"`
	ActiveSessions int     `json:"active_sessions"`
	Timestamp      float64 `json:"timestamp"`
}

// ErrorResponse carries a request-level failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AnalysisResultEvent is the Kafka event published per completed window
// analysis.
type AnalysisResultEvent struct {
	EventType     string  `json:"eventType"`
	SessionID     string  `json:"sessionId"`
	CallSID       string  `json:"callSid"`
	Detection     string  `json:"detection"`
	Confidence    float64 `json:"confidence"`
	AnalysisCount int     `json:"analysisCount"`
	Reasoning     string  `json:"reasoning"`
	Timestamp     int64   `json:"timestamp"`
}

// FinalVerdictEvent is the Kafka event published once when a streaming
// session ends, carrying the aggregated per-call verdict.
type FinalVerdictEvent struct {
	EventType     string  `json:"eventType"`
	SessionID     string  `json:"sessionId"`
	CallSID       string  `json:"callSid"`
	Detection     string  `json:"detection"`
	Confidence    float64 `json:"confidence"`
	AnalysisCount int     `json:"analysisCount"`
	Timestamp     int64   `json:"timestamp"`
}
