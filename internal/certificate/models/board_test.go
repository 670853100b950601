package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/internal/certificate/templates"
	id "certhub/pkg/domain"
	dErrors "certhub/pkg/domain-errors"
)

func newTestBoard(t *testing.T) Board {
	t.Helper()
	b, err := NewBoard(id.NewCertificateID(), BoardPatch{Name: ptr("DB1")}, 0, time.Now())
	require.NoError(t, err)
	return b
}

func TestBoardCircuitNumbering(t *testing.T) {
	now := time.Now()

	t.Run("next number follows the highest", func(t *testing.T) {
		b := newTestBoard(t)
		_, err := b.AddCircuit(CircuitPatch{Number: ptr(4), Designation: ptr("Cooker")}, now)
		require.NoError(t, err)

		c, err := b.AddCircuit(CircuitPatch{Designation: ptr("Lights")}, now)
		require.NoError(t, err)
		assert.Equal(t, 5, c.Number)
	})

	t.Run("duplicate number is rejected", func(t *testing.T) {
		b := newTestBoard(t)
		_, err := b.AddCircuit(CircuitPatch{Number: ptr(1)}, now)
		require.NoError(t, err)

		_, err = b.AddCircuit(CircuitPatch{Number: ptr(1)}, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("renumbering onto a sibling is rejected", func(t *testing.T) {
		b := newTestBoard(t)
		first, err := b.AddCircuit(CircuitPatch{}, now)
		require.NoError(t, err)
		_, err = b.AddCircuit(CircuitPatch{}, now)
		require.NoError(t, err)

		_, err = b.UpdateCircuit(first.ID, CircuitPatch{Number: ptr(2)}, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = b.UpdateCircuit(first.ID, CircuitPatch{Number: ptr(1)}, now)
		assert.NoError(t, err)
	})
}

func TestBoardBulkAddSpares(t *testing.T) {
	now := time.Now()
	b := newTestBoard(t)
	b.AddFromTemplate(mustTemplate(t, "cooker"), now)
	_, err := b.AddCircuit(CircuitPatch{Number: ptr(7)}, now)
	require.NoError(t, err)

	added, err := b.BulkAddSpares(10, now)
	require.NoError(t, err)
	require.Len(t, added, 10)
	for i, c := range added {
		assert.Equal(t, 8+i, c.Number)
		assert.Equal(t, "Spare", c.Designation)
		assert.Nil(t, c.MaxZs)
	}
	assert.Len(t, b.Circuits, 12)

	_, err = b.BulkAddSpares(0, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	_, err = b.BulkAddSpares(MaxBulkCircuits+1, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestBoardReorder(t *testing.T) {
	now := time.Now()
	b := newTestBoard(t)
	added, err := b.BulkAddSpares(4, now)
	require.NoError(t, err)

	t.Run("permutation rewrites order exactly", func(t *testing.T) {
		ordered := []id.CircuitID{added[2].ID, added[0].ID, added[3].ID, added[1].ID}
		require.NoError(t, b.CanReorder(ordered))
		b.ApplyReorder(ordered, now)

		for i, c := range b.Circuits {
			assert.Equal(t, ordered[i], c.ID)
			assert.Equal(t, i, c.SortOrder)
		}
	})

	t.Run("foreign id is an ownership mismatch", func(t *testing.T) {
		before := b.clone()
		ordered := []id.CircuitID{added[0].ID, added[1].ID, added[2].ID, id.NewCircuitID()}
		err := b.CanReorder(ordered)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeOwnershipMismatch))
		assert.Equal(t, before.Circuits, b.Circuits)
	})

	t.Run("partial list is rejected", func(t *testing.T) {
		err := b.CanReorder([]id.CircuitID{added[0].ID})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		err := b.CanReorder([]id.CircuitID{added[0].ID, added[0].ID, added[1].ID, added[2].ID})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestNewBoardRequiresName(t *testing.T) {
	_, err := NewBoard(id.NewCertificateID(), BoardPatch{}, 0, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewBoard(id.NewCertificateID(), BoardPatch{Name: ptr("DB1"), Phases: ptr(2)}, 0, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func mustTemplate(t *testing.T, key string) templates.Template {
	t.Helper()
	tmpl, err := templates.Lookup(key)
	require.NoError(t, err)
	return tmpl
}
