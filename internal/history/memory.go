package history

import (
	"sync"

	"rulebot/internal/domain"
)

// MemoryStore keeps session transcripts in process memory. Transcripts are
// created lazily on first append, are unbounded, and vanish on exit. The
// mutex makes access safe if the loop and ingestion ever run on different
// goroutines; there is still only one writer per session in practice.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]domain.Message)}
}

// History returns a copy of the transcript for the session, oldest first.
// Unknown sessions yield an empty transcript.
func (s *MemoryStore) History(sessionID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	transcript := s.sessions[sessionID]
	out := make([]domain.Message, len(transcript))
	copy(out, transcript)
	return out
}

// Append adds messages to the end of the session's transcript.
func (s *MemoryStore) Append(sessionID string, messages ...domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], messages...)
}
