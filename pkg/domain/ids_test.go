package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certhub/pkg/domain-errors"
)

func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCertificateID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseCertificateID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseCertificateID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseCertificateID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, CertificateID(valid), id)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE certificates;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCircuitID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	parsers := map[string]func(string) error{
		"certificate": func(s string) error { _, err := ParseCertificateID(s); return err },
		"board":       func(s string) error { _, err := ParseBoardID(s); return err },
		"circuit":     func(s string) error { _, err := ParseCircuitID(s); return err },
		"observation": func(s string) error { _, err := ParseObservationID(s); return err },
		"review":      func(s string) error { _, err := ParseReviewID(s); return err },
	}
	valid := uuid.NewString()
	for name, parse := range parsers {
		assert.NoError(t, parse(valid), name)
		assert.Error(t, parse("invalid"), name)
		assert.Error(t, parse(""), name)
	}
}

func TestIDsSerializeAsUUIDStrings(t *testing.T) {
	id := NewBoardID()
	raw, err := json.Marshal(map[string]BoardID{"board_id": id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"board_id":"`+id.String()+`"}`, string(raw))

	var decoded map[string]BoardID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded["board_id"])
}

func TestIDsScanFromDatabaseValues(t *testing.T) {
	want := NewObservationID()
	var got ObservationID
	require.NoError(t, got.Scan(want.String()))
	assert.Equal(t, want, got)

	value, err := want.Value()
	require.NoError(t, err)
	assert.Equal(t, want.String(), value)
}
