package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finqa/internal/artifact"
	"finqa/internal/domain"
)

type fakeAnswerer struct {
	err error
}

func (f fakeAnswerer) Synthesize(_ context.Context, q string) (domain.SynthesizedAnswer, error) {
	if f.err != nil {
		return domain.SynthesizedAnswer{}, f.err
	}
	return domain.SynthesizedAnswer{Query: q, Answer: "42", SubQueries: []string{q}, Sources: []domain.Citation{}}, nil
}

type fakeManifests struct {
	m   artifact.Manifest
	err error
}

func (f fakeManifests) LoadManifest() (artifact.Manifest, error) { return f.m, f.err }

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, NewServer(fakeAnswerer{}, fakeManifests{}, nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body)
	}
}

func TestAsk(t *testing.T) {
	s := NewServer(fakeAnswerer{}, fakeManifests{}, nil)
	rec := do(t, s, http.MethodPost, "/api/ask", `{"query":"  What was revenue?  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var got domain.SynthesizedAnswer
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Query != "What was revenue?" || got.Answer != "42" {
		t.Errorf("unexpected answer %+v", got)
	}
}

func TestAsk_BadRequests(t *testing.T) {
	s := NewServer(fakeAnswerer{}, fakeManifests{}, nil)
	for _, body := range []string{`not json`, `{"query":"   "}`, `{}`} {
		if rec := do(t, s, http.MethodPost, "/api/ask", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{artifact.ErrIndexNotBuilt, http.StatusServiceUnavailable},
		{errors.New("embedding backend down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s := NewServer(fakeAnswerer{err: tt.err}, fakeManifests{}, nil)
		rec := do(t, s, http.MethodPost, "/api/ask", `{"query":"q"}`)
		if rec.Code != tt.code {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.code, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%v: expected a JSON error body, got %s", tt.err, rec.Body)
		}
	}
}

func TestManifest(t *testing.T) {
	built := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s := NewServer(fakeAnswerer{}, fakeManifests{m: artifact.Manifest{Embedder: "tfidf", Chunks: 12, BuiltAt: built}}, nil)
	rec := do(t, s, http.MethodGet, "/api/manifest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var m artifact.Manifest
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.Embedder != "tfidf" || m.Chunks != 12 || !m.BuiltAt.Equal(built) {
		t.Errorf("unexpected manifest %+v", m)
	}

	missing := NewServer(fakeAnswerer{}, fakeManifests{err: artifact.ErrIndexNotBuilt}, nil)
	if rec := do(t, missing, http.MethodGet, "/api/manifest", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without an index, got %d", rec.Code)
	}
}
