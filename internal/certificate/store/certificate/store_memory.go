// Package certificate persists certificate aggregates.
package certificate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"certhub/internal/certificate/models"
	id "certhub/pkg/domain"
	"certhub/pkg/platform/sentinel"
)

// InMemoryStore keeps certificates in memory. Callers always receive copies.
type InMemoryStore struct {
	mu           sync.RWMutex
	certificates map[id.CertificateID]*models.Certificate
}

// NewInMemory constructs an in-memory certificate store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		certificates: make(map[id.CertificateID]*models.Certificate),
	}
}

func (s *InMemoryStore) Create(_ context.Context, cert *models.Certificate) error {
	if cert == nil {
		return fmt.Errorf("certificate is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certificates[cert.ID]; ok {
		return sentinel.ErrConflict
	}
	s.certificates[cert.ID] = cert.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, certificateID id.CertificateID) (*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certificates[certificateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cert.Clone(), nil
}

// List returns matching certificates, most recently created first.
func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Certificate, 0, len(s.certificates))
	for _, cert := range s.certificates {
		if filter.Matches(cert) {
			out = append(out, cert.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit := filter.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Execute runs validate and mutate against a copy of the stored certificate
// under the store lock and swaps it in with the version bumped. An
// expectedVersion of zero skips the version check.
func (s *InMemoryStore) Execute(
	_ context.Context,
	certificateID id.CertificateID,
	expectedVersion int64,
	validate func(*models.Certificate) error,
	mutate func(*models.Certificate) error,
) (*models.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.certificates[certificateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if expectedVersion != 0 && current.Version != expectedVersion {
		return nil, sentinel.ErrVersionMismatch
	}

	working := current.Clone()
	if validate != nil {
		if err := validate(working); err != nil {
			return nil, err
		}
	}
	if mutate != nil {
		if err := mutate(working); err != nil {
			return nil, err
		}
	}
	working.Version = current.Version + 1
	s.certificates[certificateID] = working
	return working.Clone(), nil
}
