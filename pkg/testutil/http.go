// Package testutil holds helpers shared by handler and full-stack tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Request describes one JSON call against a handler. Zero fields are left
// off the request.
type Request struct {
	Method    string
	Path      string
	Body      any
	Token     string
	IfMatch   int64
	UserAgent string
}

// Serve runs r against h and returns the recorded response.
func (r Request) Serve(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if r.Body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.Body), "encode request body")
	}
	req := httptest.NewRequest(r.Method, r.Path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.IfMatch > 0 {
		req.Header.Set("If-Match", strconv.Quote(strconv.FormatInt(r.IfMatch, 10)))
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the response body, failing the test on malformed JSON.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "decode response: %s", rec.Body.String())
	return &out
}

// ETagVersion reads the certificate version a response was tagged with.
func ETagVersion(t *testing.T, rec *httptest.ResponseRecorder) int64 {
	t.Helper()
	raw := rec.Header().Get("ETag")
	require.NotEmpty(t, raw, "response has no ETag")
	v, err := strconv.ParseInt(strings.Trim(raw, `"`), 10, 64)
	require.NoError(t, err, "malformed ETag %q", raw)
	return v
}

func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}

// AssertError checks the status and the machine-readable error code.
func AssertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rec, status)
	body := Decode[struct {
		Error string `json:"error"`
	}](t, rec)
	assert.Equal(t, code, body.Error)
}
