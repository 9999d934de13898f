package security

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applog "ledgerboard/internal/log"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/u1", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Cache-Control":           "no-store",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard/u1", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{"wildcard", []string{"*"}, "https://app.example", "*"},
		{"listed", []string{"https://app.example/", " https://b.example"}, "https://app.example", "https://app.example"},
		{"not listed", []string{"https://b.example"}, "https://app.example", ""},
		{"no origin header", []string{"*"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCORS(tt.origins).Middleware(okHandler)
			req := httptest.NewRequest(http.MethodGet, "/dashboard/u1", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d", rec.Code)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewCORS([]string{"https://app.example"}).Middleware(okHandler)
	req := httptest.NewRequest(http.MethodOptions, "/dashboard/u1", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "GET, OPTIONS" {
		t.Fatalf("methods = %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		realIP string
		want   string
	}{
		{"direct", "203.0.113.7:1234", "", "", "203.0.113.7"},
		{"trusted proxy", "10.0.0.2:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"nearest untrusted hop wins", "10.0.0.2:80", "192.0.2.9, 198.51.100.1, 10.0.0.3", "", "198.51.100.1"},
		{"all hops trusted", "10.0.0.2:80", "192.168.1.5, 10.0.0.3", "", "192.168.1.5"},
		{"untrusted proxy ignored", "203.0.113.7:1234", "198.51.100.1", "", "203.0.113.7"},
		{"real ip header", "127.0.0.1:80", "", "198.51.100.4", "198.51.100.4"},
		{"ipv6 peer", "[2001:db8::1]:443", "198.51.100.1", "", "2001:db8::1"},
		{"bad forwarded value", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := d.ExtractClientIP(req); got != tt.want {
				t.Errorf("ExtractClientIP = %q, want %q", got, tt.want)
			}
		})
	}
	if d.GetMetrics().InvalidIPAttempts != 1 {
		t.Errorf("InvalidIPAttempts = %d, want 1", d.GetMetrics().InvalidIPAttempts)
	}
}

func TestMatch(t *testing.T) {
	d := NewDetector("/dashboard/{userId}", "/healthz", "/readyz")
	tests := []struct {
		path   string
		known  bool
		userID string
	}{
		{"/dashboard/u1", true, "u1"},
		{"/healthz", true, ""},
		{"/readyz", true, ""},
		{"/dashboard/", false, ""},
		{"/dashboard/u1/extra", false, ""},
		{"/", false, ""},
		{"/admin", false, ""},
	}
	for _, tt := range tests {
		params, known := d.Match(tt.path)
		if known != tt.known {
			t.Errorf("Match(%s) known = %v, want %v", tt.path, known, tt.known)
		}
		if got := params["userId"]; got != tt.userID {
			t.Errorf("Match(%s) userId = %q, want %q", tt.path, got, tt.userID)
		}
	}

	if _, known := NewDetector().Match("/anything"); !known {
		t.Error("a detector without routes should accept every path")
	}
}

func TestInspect(t *testing.T) {
	d := NewDetector("/dashboard/{userId}", "/healthz", "/readyz")
	tests := []struct {
		method string
		target string
		agent  string
		reason string
	}{
		{http.MethodGet, "/dashboard/u1?year=2025", "Mozilla/5.0", ""},
		{http.MethodGet, "/dashboard/u1", "curl/8.0", ""},
		{http.MethodOptions, "/dashboard/u1", "", ""},
		{http.MethodGet, "/.env", "", ReasonAttackPattern},
		{http.MethodGet, "/dashboard/u1?year=../../etc/passwd", "", ReasonAttackPattern},
		{http.MethodGet, "/metrics", "", ReasonUnknownRoute},
		{http.MethodPost, "/dashboard/u1", "", ReasonMethod},
		{http.MethodGet, "/dashboard/u1", "sqlmap/1.7", ReasonScanner},
		{http.MethodGet, "/dashboard/u1?year=" + strings.Repeat("9", 2100), "", ReasonOversizedURL},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		req.Header.Set("User-Agent", tt.agent)
		finding, flagged := d.Inspect(req)
		if flagged != (tt.reason != "") || finding.Reason != tt.reason {
			t.Errorf("Inspect(%s %.40s) = %q/%v, want %q", tt.method, tt.target, finding.Reason, flagged, tt.reason)
		}
	}

	m := d.GetMetrics()
	if m.SuspiciousRequests != 6 {
		t.Errorf("SuspiciousRequests = %d, want 6", m.SuspiciousRequests)
	}
	if m.UnknownRoutes != 2 {
		t.Errorf("UnknownRoutes = %d, want 2", m.UnknownRoutes)
	}
}

func TestInspectProxyChain(t *testing.T) {
	d := NewDetector("/healthz")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2, 3.3.3.3, 4.4.4.4, 5.5.5.5, 6.6.6.6")
	if finding, ok := d.Inspect(req); !ok || finding.Reason != ReasonProxyChain {
		t.Fatalf("Inspect = %q/%v, want %q", finding.Reason, ok, ReasonProxyChain)
	}
}

func TestDetectorMiddlewareTagsUser(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, JSON: true, Output: &buf})

	d := NewDetector("/dashboard/{userId}")
	h := d.Middleware(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/u42", nil)
	req.Header.Set("User-Agent", "nikto")
	req = req.WithContext(context.WithValue(req.Context(), applog.LoggerContextKey, logger))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, flagged requests must pass through", rec.Code)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	want := map[string]any{
		"msg":       "Suspicious request",
		"component": applog.ComponentSecurity,
		"reason":    ReasonScanner,
		"user_id":   "u42",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/dashboard/u42", nil)
	req = req.WithContext(context.WithValue(req.Context(), applog.LoggerContextKey, logger))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if buf.Len() != 0 {
		t.Errorf("clean request was logged: %s", buf.String())
	}
}
