package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/golang/mock/gomock"

	"roadwatch/internal/auth"
	mock_auth "roadwatch/internal/auth/mocks"
	"roadwatch/internal/domain"
	"roadwatch/internal/middleware"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mock_auth.NewMockVerifier(ctrl)
	reporter := &domain.Reporter{ID: 42, FullName: "Marko"}

	verifier.EXPECT().Verify(gomock.Any(), "token-123").Return(reporter, nil).Times(1)

	var seen *domain.Reporter
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.ReporterFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", nil)
	req.Header.Set("Authorization", "Bearer token-123")
	rr := httptest.NewRecorder()

	middleware.Authenticate(verifier, newTestLogger())(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
	if seen == nil || seen.ID != 42 {
		t.Fatalf("reporter not on context: %+v", seen)
	}
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mock_auth.NewMockVerifier(ctrl)

	verifier.EXPECT().Verify(gomock.Any(), "cookie-token").Return(&domain.Reporter{ID: 1}, nil).Times(1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	rr := httptest.NewRecorder()

	middleware.Authenticate(verifier, newTestLogger())(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected %d got %d", http.StatusOK, rr.Code)
	}
}

func TestAuthenticate_MissingToken_401(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mock_auth.NewMockVerifier(ctrl)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without a token")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", nil)
	rr := httptest.NewRecorder()

	middleware.Authenticate(verifier, newTestLogger())(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestAuthenticate_VerifyFailure_401(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mock_auth.NewMockVerifier(ctrl)

	verifier.EXPECT().Verify(gomock.Any(), "bad").Return(nil, errors.New("expired")).Times(1)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/incidents", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()

	middleware.Authenticate(verifier, newTestLogger())(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d got %d", http.StatusUnauthorized, rr.Code)
	}
}
