package memory

import (
	"context"
	"sync"

	id "certhub/pkg/domain"
	audit "certhub/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.CertificateID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.CertificateID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.CertificateID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CertificateID] = append(s.events[event.CertificateID], event)
	return nil
}

// ListByCertificate returns events for one certificate, oldest first.
func (s *InMemoryStore) ListByCertificate(_ context.Context, certificateID id.CertificateID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[certificateID]...), nil
}
