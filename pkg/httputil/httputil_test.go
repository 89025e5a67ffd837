package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/qswap/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidTopology, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeCandidateExhausted, http.StatusUnprocessableEntity},
		{errors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{errors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{errors.ErrCodeInvariant, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.code); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return resp
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New(errors.ErrCodeNotFound, "run %q not found", "abc"))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	resp := decodeError(t, w)
	if resp.Code != errors.ErrCodeNotFound || resp.Message != `run "abc" not found` {
		t.Errorf("body = %+v", resp)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestWriteErrorHidesUncodedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, stderrors.New("dial tcp 10.0.0.1:27017: connection refused"))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if resp := decodeError(t, w); strings.Contains(resp.Message, "10.0.0.1") {
		t.Errorf("internal details leaked: %q", resp.Message)
	}
}

func TestWriteErrorRateLimited(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, &errors.RateLimitedError{RetryAfter: 3})
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Retry-After = %q, want 3", got)
	}
	if resp := decodeError(t, w); resp.Code != errors.ErrCodeRateLimited {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestWriteErrorCancelled(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, context.Canceled)
	if w.Code != 499 {
		t.Errorf("status = %d, want 499", w.Code)
	}
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"valid", `{"name":"a","count":2}`, ""},
		{"empty body", ``, ""},
		{"unknown field", `{"name":"a","extra":1}`, errors.ErrCodeMalformedInput},
		{"wrong type", `{"count":"two"}`, errors.ErrCodeMalformedInput},
		{"trailing data", `{"name":"a"} {"name":"b"}`, errors.ErrCodeMalformedInput},
		{"too large", `{"name":"` + strings.Repeat("x", 100) + `"}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var p payload
			err := DecodeJSON(w, r, &p, 64)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}
