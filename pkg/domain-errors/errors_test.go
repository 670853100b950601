package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("HasCode matches outermost code", func(t *testing.T) {
		err := New(CodeInvalidState, "certificate is locked")
		assert.True(t, HasCode(err, CodeInvalidState))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrapped by fmt keeps code", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeConflict, "version mismatch"))
		assert.True(t, Is(err, CodeConflict))
		assert.Equal(t, CodeConflict, CodeOf(err))
	})

	t.Run("Wrap preserves cause", func(t *testing.T) {
		cause := errors.New("db down")
		err := Wrap(cause, CodeInternal, "failed to load certificate")
		require.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to load certificate: db down", err.Error())
	})

	t.Run("Wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("uncoded errors default to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}
