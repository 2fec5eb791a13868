package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hskaicoach/backend/internal/aicache"
	"github.com/hskaicoach/backend/internal/app"
	"github.com/hskaicoach/backend/internal/auth"
	"github.com/hskaicoach/backend/internal/config"
	"github.com/hskaicoach/backend/internal/exam"
	"github.com/hskaicoach/backend/internal/models"
)

// newTestServer builds a server around the handlers that need no Postgres
// or Redis: exams, health, and the admin cache stats counters.
func newTestServer(t *testing.T) (*Server, *auth.TokenManager) {
	t.Helper()

	tokens, err := auth.NewTokenManager(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Issuer:    "coach-test",
	})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	container := &app.Container{
		Config: &config.Config{
			Server: config.ServerConfig{
				ListenAddr:  ":0",
				BodyLimitMB: 1,
				ReadTimeout: 5 * time.Second,
			},
			Admin: config.AdminConfig{APIKey: "admin-test-key"},
		},
		Tokens:     tokens,
		Exams:      exam.NewBank(),
		CacheStats: &aicache.Counters{},
	}

	srv, err := New(container)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, tokens
}

func bearerFor(t *testing.T, tokens *auth.TokenManager, userID string) string {
	t.Helper()
	token, _, err := tokens.Issue(&models.User{ID: userID, Plan: models.PlanFree})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + token
}

func TestExamRoutesRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/exams", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestExamListingAndRedaction(t *testing.T) {
	srv, tokens := newTestServer(t)
	bearer := bearerFor(t, tokens, "u-1")

	req := httptest.NewRequest(http.MethodGet, "/api/exams", nil)
	req.Header.Set("Authorization", bearer)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/exams/H51327", nil)
	req.Header.Set("Authorization", bearer)
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if strings.Contains(string(body), "correctIndex") || strings.Contains(string(body), "correctAnswer") {
		t.Fatal("served exam leaks answer keys")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/exams/H00000", nil)
	req.Header.Set("Authorization", bearer)
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown exam, got %d", resp.StatusCode)
	}
}

func TestExamGradingEndpoint(t *testing.T) {
	srv, tokens := newTestServer(t)
	bearer := bearerFor(t, tokens, "u-1")

	payload, _ := json.Marshal(map[string]any{
		"answers": []models.ExamAnswer{},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/exams/H51327/grade", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var grade models.ExamGrade
	if err := json.Unmarshal(body, &grade); err != nil {
		t.Fatalf("decode grade: %v", err)
	}
	if grade.Correct != 0 || grade.Passed {
		t.Fatalf("empty submission should fail: %+v", grade)
	}
	if grade.Total == 0 || grade.Skipped != grade.Total {
		t.Fatalf("all objective questions should count as skipped: %+v", grade)
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/cache/stats", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/cache/stats", nil)
	req.Header.Set("X-Admin-Key", "admin-test-key")
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", resp.StatusCode)
	}

	var snap aicache.Snapshot
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Total != 0 {
		t.Fatalf("fresh counters should be empty: %+v", snap)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Secret!", true},
		{"S3cr3t@x", true},
		{"short", false},
		{"nouppercase1!", false},
		{"NoSpecial123", false},
	}
	for _, tc := range cases {
		msg := validatePassword(tc.password)
		if tc.ok && msg != "" {
			t.Errorf("password %q rejected: %s", tc.password, msg)
		}
		if !tc.ok && msg == "" {
			t.Errorf("password %q should be rejected", tc.password)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
