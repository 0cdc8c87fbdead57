// Package middleware contains HTTP middleware for the daemon's API:
// IP allowlisting and per-remote-IP rate limiting.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"

	"shev/pkg/api"
)

// Allowlist enforces IP-based access control: loopback callers are
// always allowed; remote callers must appear in allowIPs (read access)
// or allowWriteIPs (read+write) depending on the request method.
func Allowlist(allowIPs, allowWriteIPs []string) func(http.Handler) http.Handler {
	reads := toSet(allowIPs)
	writes := toSet(allowWriteIPs)

	isWrite := func(method string) bool {
		switch method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			return true
		default:
			return false
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip := net.ParseIP(host)

			if ip != nil && ip.IsLoopback() {
				next.ServeHTTP(w, r)
				return
			}

			allowed := reads[host] || writes[host]
			if isWrite(r.Method) {
				allowed = writes[host]
			}
			if !allowed {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: "forbidden", Code: "403"})
}

func toSet(ips []string) map[string]bool {
	set := make(map[string]bool, len(ips))
	for _, ip := range ips {
		set[ip] = true
	}
	return set
}
