// Package util provides small helpers for the API layer.
package util

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the originating client address from a request,
// preferring proxy headers (X-Forwarded-For, then X-Real-IP) over the
// connection's RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		panic("request cannot be nil")
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			if ip := strings.TrimSpace(candidate); net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr carried no port; use it as-is.
		return r.RemoteAddr
	}
	return host
}
