package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected forwarded address, got %q", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.5:4321"
	if got := ClientIP(req); got != "192.0.2.5" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestJSONErrorShape(t *testing.T) {
	rr := httptest.NewRecorder()
	JSONError(rr, http.StatusUnprocessableEntity, "EMPTY_QUOTE", "add at least one seat", nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{`"code":"EMPTY_QUOTE"`, `"message":"add at least one seat"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %q missing %q", body, want)
		}
	}
}
