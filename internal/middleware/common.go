package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ClientIP returns the host of r.RemoteAddr. Forwarding headers are only
// honoured through TrustProxy, which rewrites RemoteAddr first.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	if net.ParseIP(addr) != nil {
		return addr
	}
	return ""
}

// TrustProxy is for deployments behind exactly one reverse proxy. It sets
// RemoteAddr to the right-most X-Forwarded-For entry, the address the proxy
// itself saw; entries to its left are client supplied and ignored.
func TrustProxy(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := lastForwardedFor(r.Header.Values("X-Forwarded-For")); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}

func lastForwardedFor(values []string) string {
	for i := len(values) - 1; i >= 0; i-- {
		hops := strings.Split(values[i], ",")
		for j := len(hops) - 1; j >= 0; j-- {
			hop := strings.TrimSpace(hops[j])
			if hop == "" {
				continue
			}
			if net.ParseIP(hop) == nil {
				return ""
			}
			return hop
		}
	}
	return ""
}
