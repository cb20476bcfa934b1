package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"amd-detection-service/internal/detect"
	"amd-detection-service/internal/models"
)

// Config fixes the windowing parameters and detector set shared by every
// session a registry creates.
type Config struct {
	WindowSeconds    float64
	OverlapFraction  float64
	SampleRate       int
	MaxBufferSamples int
	Detectors        []detect.Detector
}

// Registry owns the mapping from session identifier to live session.
// It is built once by the composition root and passed explicitly to the
// streaming handler; there is no ambient global.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Create allocates a new identifier, inserts an active session and
// returns it.
func (r *Registry) Create(callSID string) *Session {
	s := newSession(uuid.NewString(), callSID, r.cfg)
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

// Get looks a session up by identifier.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes the entry. Idempotent if already absent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// List returns a snapshot of every live session, ordered by session
// identifier so successive snapshots of an unchanged registry are equal.
func (r *Registry) List() []models.SessionSummary {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Snapshot())
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SessionID < summaries[j].SessionID
	})
	return summaries
}
