package auth_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"roadwatch/internal/auth"
	"roadwatch/internal/config"
	"roadwatch/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newVerifier(url string) *auth.HTTPVerifier {
	return auth.NewHTTPVerifier(config.AuthConfig{VerifyURL: url, Timeout: 5 * time.Second}, newTestLogger())
}

func TestHTTPVerifier_OK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"full_name":"Marko"}`))
	}))
	defer srv.Close()

	reporter, err := newVerifier(srv.URL).Verify(context.Background(), "token-123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reporter.ID != 42 || reporter.FullName != "Marko" {
		t.Fatalf("unexpected reporter: %+v", reporter)
	}
}

func TestHTTPVerifier_EmptyToken(t *testing.T) {
	t.Parallel()

	_, err := newVerifier("http://localhost:0").Verify(context.Background(), "")
	if !errors.Is(err, e.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestHTTPVerifier_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newVerifier(srv.URL).Verify(context.Background(), "expired")
	if !errors.Is(err, e.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestHTTPVerifier_UpstreamFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newVerifier(srv.URL).Verify(context.Background(), "token")
	if !errors.Is(err, e.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestHTTPVerifier_MissingReporterID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"nobody"}`))
	}))
	defer srv.Close()

	_, err := newVerifier(srv.URL).Verify(context.Background(), "token")
	if !errors.Is(err, e.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
