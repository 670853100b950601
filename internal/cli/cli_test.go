package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "certhub/pkg/domain"
	"certhub/pkg/platform/audit"
	"certhub/pkg/platform/middleware/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImpedanceLookup(t *testing.T) {
	out, err := execute(t, "impedance", "--device", "b", "--rating", "32")
	require.NoError(t, err)
	assert.Equal(t, "B 32A: 1.37 ohm\n", out)
}

func TestImpedanceOutsideTable(t *testing.T) {
	out, err := execute(t, "impedance", "--device", "C", "--rating", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "not in table")
}

func TestImpedanceRejectsUnknownDevice(t *testing.T) {
	_, err := execute(t, "impedance", "--device", "Z", "--rating", "32")
	assert.Error(t, err)
}

func TestImpedanceTable(t *testing.T) {
	out, err := execute(t, "impedance", "--table")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "DEVICE"))
	assert.Contains(t, out, "1.37")
}

func TestTemplatesAndCodes(t *testing.T) {
	out, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "cooker")

	out, err = execute(t, "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "C1")
	assert.Contains(t, out, "FI")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestTokenRoundTrips(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "cli-test-key")
	t.Setenv("JWT_ISSUER", "certhub-test")

	out, err := execute(t, "token", "--actor", "qs-2", "--role", "reviewer", "--ttl", "5m")
	require.NoError(t, err)

	claims, err := auth.NewHS256Validator("cli-test-key", "certhub-test").ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "qs-2", claims.ActorID)
	assert.Equal(t, []string{"reviewer"}, claims.Roles)
}

func TestTokenRequiresActor(t *testing.T) {
	_, err := execute(t, "token")
	assert.Error(t, err)
}

func TestPrintSinkWritesJSONLines(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	sink := &printSink{cmd: cmd}
	certID := id.NewCertificateID()

	require.NoError(t, sink.Append(context.Background(), audit.Event{
		Timestamp:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		CertificateID: certID,
		Action:        string(audit.EventCertificateApproved),
		FromStatus:    "submitted",
		ToStatus:      "approved",
		ActorID:       "qs-2",
		Fingerprint:   "abc123",
	}))

	var line printedEvent
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, certID.String(), line.CertificateID)
	assert.Equal(t, "submitted -> approved", line.Transition)
	assert.Equal(t, "abc123", line.Fingerprint)
}
