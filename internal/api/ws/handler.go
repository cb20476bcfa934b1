// Package ws implements the realtime media streaming endpoint: inbound
// base64 mu-law frames, outbound analysis results, one session per
// connection.
package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"amd-detection-service/internal/audio"
	"amd-detection-service/internal/events"
	"amd-detection-service/internal/models"
	"amd-detection-service/internal/observability/logging"
	"amd-detection-service/internal/observability/metrics"
	"amd-detection-service/internal/session"
)

const (
	handshakeTimeout = 10 * time.Second
	maxMessageSize   = 1024 * 1024
)

// Handler upgrades streaming connections and drives the per-call session.
type Handler struct {
	registry  *session.Registry
	publisher *events.Publisher
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

// NewHandler wires the streaming endpoint to the registry and publisher.
func NewHandler(registry *session.Registry, publisher *events.Publisher) *Handler {
	return &Handler{
		registry:  registry,
		publisher: publisher,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: handshakeTimeout,
			// Media streams originate from telephony gateways, not
			// browsers; origin checks happen at the edge.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logging.WithComponent("stream"),
	}
}

// ServeHTTP handles one streaming connection for the call in the path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	callSID := chi.URLParam(r, "call_sid")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Str("callSid", callSID).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	m := metrics.DefaultMetrics
	m.RecordStreamStart()
	start := time.Now()

	sess := h.registry.Create(callSID)
	log := logging.WithSession(sess.ID(), callSID)
	log.Info().Msg("Streaming session started")

	// Teardown runs exactly once per connection: the registry entry is
	// removed and the terminal verdict published regardless of how the
	// loop exits.
	defer func() {
		sess.Terminate()
		verdict, confidence := sess.FinalVerdict()
		count := sess.Snapshot().AnalysisCount
		ev := models.FinalVerdictEvent{
			EventType:     events.EventTypeFinal,
			SessionID:     sess.ID(),
			CallSID:       callSID,
			Detection:     verdict.String(),
			Confidence:    confidence,
			AnalysisCount: count,
			Timestamp:     time.Now().UnixMilli(),
		}
		if err := h.publisher.PublishFinal(context.Background(), callSID, ev); err != nil {
			log.Error().Err(err).Msg("Failed to publish final verdict")
		}
		h.registry.Remove(sess.ID())
		m.RecordStreamEnd(time.Since(start).Seconds())
		log.Info().
			Str("verdict", verdict.String()).
			Int("analyses", count).
			Msg("Streaming session cleaned up")
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Msg("Failed to read streaming message")
			} else {
				log.Info().Msg("Streaming connection closed")
			}
			return
		}

		var msg models.StreamInbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Error().Err(err).Msg("Malformed streaming message, terminating session")
			return
		}

		switch msg.Event {
		case "media":
			if msg.Media == nil {
				log.Error().Msg("Media event without payload, terminating session")
				return
			}
			payload, err := base64.StdEncoding.DecodeString(msg.Media.Payload)
			if err != nil {
				log.Error().Err(err).Msg("Media payload is not valid base64, terminating session")
				return
			}
			m.RecordAudioReceived(len(payload))

			analysis, err := sess.PushAudio(r.Context(), audio.DecodeMuLaw(payload))
			if err != nil {
				log.Warn().Err(err).Msg("Audio rejected")
				return
			}
			if analysis == nil {
				continue
			}
			if err := h.emit(r.Context(), conn, sess, callSID, analysis, log); err != nil {
				return
			}
		case "stop":
			log.Info().Msg("Stop event received")
			return
		default:
			log.Error().Str("event", msg.Event).Msg("Unknown streaming event, terminating session")
			return
		}
	}
}

// emit delivers one analysis result to the caller and onto the bus.
func (h *Handler) emit(ctx context.Context, conn *websocket.Conn, sess *session.Session, callSID string, a *session.Analysis, log zerolog.Logger) error {
	out := models.AnalysisEvent{
		Event:         "analysis_result",
		SessionID:     sess.ID(),
		CallSID:       callSID,
		Detection:     a.Result.Detection.String(),
		Confidence:    a.Result.Confidence,
		AnalysisCount: a.AnalysisCount,
		Reasoning:     a.Result.Reasoning,
	}
	if err := conn.WriteJSON(out); err != nil {
		log.Error().Err(err).Msg("Failed to deliver analysis result")
		return err
	}

	ev := models.AnalysisResultEvent{
		EventType:     events.EventTypeResult,
		SessionID:     sess.ID(),
		CallSID:       callSID,
		Detection:     out.Detection,
		Confidence:    out.Confidence,
		AnalysisCount: out.AnalysisCount,
		Reasoning:     out.Reasoning,
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := h.publisher.PublishResult(ctx, callSID, ev); err != nil {
		// Bus trouble must not tear down the call.
		log.Error().Err(err).Msg("Failed to publish analysis result")
	}
	return nil
}
