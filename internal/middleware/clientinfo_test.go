// AngelaMos | 2026
// clientinfo_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientInfoPrefersForwardedFor(t *testing.T) {
	var gotIP, gotUA string
	handler := ClientInfo(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotIP = GetClientIP(r.Context())
			gotUA = GetUserAgent(r.Context())
		},
	))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotIP != "203.0.113.9" {
		t.Errorf("client ip = %q, want last forwarded hop", gotIP)
	}
	if gotUA != "Mozilla/5.0" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestClientInfoFallsBackToRemoteAddr(t *testing.T) {
	var gotIP string
	handler := ClientInfo(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotIP = GetClientIP(r.Context())
		},
	))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotIP != "10.0.0.1" {
		t.Errorf("client ip = %q, want 10.0.0.1", gotIP)
	}
}
