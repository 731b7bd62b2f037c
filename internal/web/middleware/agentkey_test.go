package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/conley21p/alpine-outdoor-living/internal/agentauth"
)

func TestAgentKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AgentKey("s3cret")(next)

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"valid key", "s3cret", http.StatusNoContent},
		{"wrong key", "wrong", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/agent/contacts", nil)
		if c.key != "" {
			req.Header.Set(agentauth.HeaderName, c.key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.want)
		}
		if c.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "Unauthorized") {
			t.Errorf("%s: body = %q, want the JSON error envelope", c.name, rec.Body.String())
		}
	}
}

func TestAgentKeyUnconfiguredRejectsEverything(t *testing.T) {
	handler := AgentKey("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/agent/contacts", nil)
	req.Header.Set(agentauth.HeaderName, "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
