package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certhub/pkg/domain"
	audit "certhub/pkg/platform/audit"
	"certhub/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }
func (failingStore) ListByCertificate(context.Context, id.CertificateID) ([]audit.Event, error) {
	return nil, nil
}

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with a timestamp", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		p := New(store)
		certID := id.NewCertificateID()

		require.NoError(t, p.Emit(ctx, audit.ComplianceEvent{
			CertificateID: certID,
			Action:        string(audit.EventCertificateApproved),
			ActorID:       "reviewer-1",
		}))

		events, err := store.ListByCertificate(ctx, certID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
		assert.False(t, events[0].Timestamp.IsZero())
		assert.Equal(t, certID.String(), events[0].Subject)
	})

	t.Run("requires certificate and action", func(t *testing.T) {
		p := New(memory.NewInMemoryStore())
		err := p.Emit(ctx, audit.ComplianceEvent{})
		assert.ErrorIs(t, err, errMissingCertificate)
		assert.ErrorIs(t, err, errMissingAction)
	})

	t.Run("rejects editing activity", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		p := New(store)
		certID := id.NewCertificateID()
		err := p.Emit(ctx, audit.ComplianceEvent{CertificateID: certID, Action: string(audit.EventCircuitAdded)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a compliance action")

		events, err := store.ListByCertificate(ctx, certID)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("fails closed", func(t *testing.T) {
		p := New(failingStore{})
		err := p.Emit(ctx, audit.ComplianceEvent{
			CertificateID: id.NewCertificateID(),
			Action:        string(audit.EventCertificateRejected),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Contains(t, err.Error(), "certificate_rejected")
	})
}
