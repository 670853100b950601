package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certhub/pkg/domain"
	audit "certhub/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	certA, certB := id.NewCertificateID(), id.NewCertificateID()

	require.NoError(t, store.Append(ctx, audit.Event{CertificateID: certA, Action: "certificate_submitted"}))
	require.NoError(t, store.Append(ctx, audit.Event{CertificateID: certA, Action: "certificate_approved"}))
	require.NoError(t, store.Append(ctx, audit.Event{CertificateID: certB, Action: "certificate_created"}))

	events, err := store.ListByCertificate(ctx, certA)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "certificate_submitted", events[0].Action)
	assert.Equal(t, "certificate_approved", events[1].Action)

	store.Clear()
	events, err = store.ListByCertificate(ctx, certA)
	require.NoError(t, err)
	assert.Empty(t, events)
}
