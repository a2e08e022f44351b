package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"steward/internal/jwtauth"
	"steward/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequireAuthMissingHeader(t *testing.T) {
	jwtSvc := jwtauth.NewService("test-key", "steward")
	handler := RequireAuth(jwtSvc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tokens", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without Authorization header, got %d", rec.Code)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	jwtSvc := jwtauth.NewService("test-key", "steward")
	handler := RequireAuth(jwtSvc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached with a bad token")
	}))

	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}
}

func TestRequireAuthInjectsCaller(t *testing.T) {
	jwtSvc := jwtauth.NewService("test-key", "steward")
	token, err := jwtSvc.GenerateToken("ranger", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotCaller string
	handler := RequireAuth(jwtSvc, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = requestcontext.Caller(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
	if gotCaller != "ranger" {
		t.Fatalf("expected caller ranger in context, got %q", gotCaller)
	}
}

func TestRecoveryConvertsPanics(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = requestcontext.RequestID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID == "" {
		t.Fatal("expected a request id in the context")
	}
}
