// Package review persists the append-only review log.
package review

import (
	"context"
	"sync"

	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	"certhub/pkg/platform/sentinel"
)

// InMemoryStore keeps review entries per certificate in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	reviews map[id.CertificateID][]models.Review
	seen    map[id.ReviewID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		reviews: make(map[id.CertificateID][]models.Review),
		seen:    make(map[id.ReviewID]struct{}),
	}
}

func (s *InMemoryStore) Append(_ context.Context, review models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[review.ID]; ok {
		return sentinel.ErrConflict
	}
	s.seen[review.ID] = struct{}{}
	s.reviews[review.CertificateID] = append(s.reviews[review.CertificateID], review)
	return nil
}

// ListByCertificate returns the log oldest first. An unknown certificate has
// an empty log.
func (s *InMemoryStore) ListByCertificate(_ context.Context, certificateID id.CertificateID) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.reviews[certificateID]
	out := make([]models.Review, len(entries))
	copy(out, entries)
	return out, nil
}
