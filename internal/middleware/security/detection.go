package security

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"

	applog "ledgerboard/internal/log"
)

// Reasons reported for a flagged request.
const (
	ReasonAttackPattern = "attack_pattern"
	ReasonUnknownRoute  = "unknown_route"
	ReasonMethod        = "method"
	ReasonScanner       = "scanner_agent"
	ReasonOversizedURL  = "oversized_url"
	ReasonProxyChain    = "proxy_chain"
)

const (
	maxURLLength     = 2048
	maxForwardedHops = 5
)

var (
	attackPatterns = []string{
		"..", ".env", ".git", ".php", "wp-", "etc/passwd",
		"<script", "javascript:", "union select", "cmd.exe",
	}
	scannerAgents = []string{
		"sqlmap", "nikto", "nmap", "masscan", "zgrab", "gobuster",
	}
	allowedMethods = map[string]bool{
		http.MethodGet:     true,
		http.MethodHead:    true,
		http.MethodOptions: true,
	}
	defaultTrustedProxies = []netip.Prefix{
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("172.16.0.0/12"),
		netip.MustParsePrefix("192.168.0.0/16"),
		netip.MustParsePrefix("::1/128"),
	}
)

// DetectionMetrics counts flagged traffic.
type DetectionMetrics struct {
	SuspiciousRequests int64
	UnknownRoutes      int64
	InvalidIPAttempts  int64
}

// Finding describes why a request was flagged. Params holds the wildcard
// values of the API route the path matched, if any.
type Finding struct {
	Reason string
	Params map[string]string
}

// Detector flags requests that fall outside the JSON API surface.
type Detector struct {
	routes         [][]string
	trustedProxies []netip.Prefix

	suspicious    atomic.Int64
	unknownRoutes atomic.Int64
	invalidIPs    atomic.Int64
}

// NewDetector builds a detector that knows the given route patterns, written
// the way ServeMux writes paths ("/dashboard/{userId}"). With no patterns
// every path is accepted.
func NewDetector(patterns ...string) *Detector {
	d := &Detector{trustedProxies: defaultTrustedProxies}
	for _, p := range patterns {
		d.routes = append(d.routes, splitPath(p))
	}
	return d
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

// Match reports whether path belongs to a known route and returns the
// route's wildcard values.
func (d *Detector) Match(path string) (map[string]string, bool) {
	if len(d.routes) == 0 {
		return nil, true
	}
	segments := splitPath(path)
	for _, route := range d.routes {
		if params, ok := matchRoute(route, segments); ok {
			return params, true
		}
	}
	return nil, false
}

func matchRoute(route, segments []string) (map[string]string, bool) {
	if len(route) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range route {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:len(seg)-1]] = segments[i]
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// Inspect checks r against the API surface and known attack signatures.
func (d *Detector) Inspect(r *http.Request) (Finding, bool) {
	params, known := d.Match(r.URL.Path)
	reason := ""

	switch {
	case containsAny(strings.ToLower(r.URL.Path), attackPatterns),
		containsAny(strings.ToLower(r.URL.RawQuery), attackPatterns):
		reason = ReasonAttackPattern
	case !known:
		reason = ReasonUnknownRoute
	case !allowedMethods[r.Method]:
		reason = ReasonMethod
	case containsAny(strings.ToLower(r.UserAgent()), scannerAgents):
		reason = ReasonScanner
	case len(r.URL.String()) > maxURLLength:
		reason = ReasonOversizedURL
	case strings.Count(r.Header.Get("X-Forwarded-For"), ",") >= maxForwardedHops:
		reason = ReasonProxyChain
	default:
		return Finding{}, false
	}

	d.suspicious.Add(1)
	if !known {
		d.unknownRoutes.Add(1)
	}
	return Finding{Reason: reason, Params: params}, true
}

func containsAny(s string, patterns []string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// ExtractClientIP returns the caller's address. Forwarded headers are honored
// only when the direct peer is a trusted proxy; X-Forwarded-For is walked from
// the nearest hop outwards, skipping trusted proxies.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	direct, err := netip.ParseAddr(host)
	if err != nil || !d.isTrustedProxy(direct) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				d.invalidIPs.Add(1)
				return host
			}
			if i == 0 || !d.isTrustedProxy(hop) {
				return hop.Unmap().String()
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
		d.invalidIPs.Add(1)
	}
	return host
}

func (d *Detector) isTrustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range d.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// GetMetrics returns a snapshot of the counters.
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: d.suspicious.Load(),
		UnknownRoutes:      d.unknownRoutes.Load(),
		InvalidIPAttempts:  d.invalidIPs.Load(),
	}
}

// Middleware logs flagged requests and passes everything through; unknown
// routes still end in the mux's 404.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if finding, ok := d.Inspect(r); ok {
			fields := applog.NewFields().WithClientIP(d.ExtractClientIP(r))
			if userID := finding.Params["userId"]; userID != "" {
				fields.WithUserID(userID)
			}
			args := append(fields.ToSlice(),
				"reason", finding.Reason,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.UserAgent())
			applog.FromContext(r.Context()).WithComponent(applog.ComponentSecurity).
				WarnContext(r.Context(), "Suspicious request", args...)
		}
		next.ServeHTTP(w, r)
	})
}
