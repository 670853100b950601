package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certhub/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("invalid state surfaces as locked conflict", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInvalidState, "certificate is locked"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "invalid_state" {
			t.Fatalf("expected error code invalid_state, got %q", body["error"])
		}
		if body["error_description"] != "certificate is locked" {
			t.Fatalf("expected error_description to be returned")
		}
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeNotFound:           http.StatusNotFound,
		dErrors.CodeValidation:         http.StatusUnprocessableEntity,
		dErrors.CodeOwnershipMismatch:  http.StatusUnprocessableEntity,
		dErrors.CodeConflict:           http.StatusConflict,
		dErrors.CodePreconditionFailed: http.StatusPreconditionFailed,
		dErrors.CodeForbidden:          http.StatusForbidden,
		dErrors.CodeBadRequest:         http.StatusBadRequest,
	}
	for code, status := range cases {
		assert.Equal(t, status, StatusFor(code), string(code))
	}
}

type sampleRequest struct {
	Reason string `json:"reason" validate:"required,max=10"`
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("rejects failing tags", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reason":""}`))
		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req-1")
		require.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reason":"x","extra":1}`))
		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("accepts valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reason":"damp"}`))
		req, ok := DecodeAndPrepare[sampleRequest](w, r, logger, r.Context(), "req-3")
		require.True(t, ok)
		assert.Equal(t, "damp", req.Reason)
	})
}

type optionalRequest struct {
	Comments string `json:"comments" validate:"max=8"`
}

func TestDecodeOptionalAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("empty body is the zero value", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		req, ok := DecodeOptionalAndPrepare[optionalRequest](w, r, logger, r.Context(), "req-1")
		require.True(t, ok)
		assert.Empty(t, req.Comments)
	})

	t.Run("present body is still validated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"comments":"far too long"}`))
		_, ok := DecodeOptionalAndPrepare[optionalRequest](w, r, logger, r.Context(), "req-2")
		require.False(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("truncated body is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"comments":`))
		_, ok := DecodeOptionalAndPrepare[optionalRequest](w, r, logger, r.Context(), "req-3")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("required decode still refuses an empty body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		_, ok := DecodeAndPrepare[optionalRequest](w, r, logger, r.Context(), "req-4")
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
