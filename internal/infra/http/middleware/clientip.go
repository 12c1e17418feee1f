package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const clientIPKey contextKey = "client_ip"

// ClientIP resolves the caller address once per request. trustedHops is the
// number of reverse proxies in front of the service: with zero the TCP peer
// is the client, otherwise the client is the hop that many entries from the
// right of X-Forwarded-For plus the peer. Entries further left are ignored
// since the caller controls them.
func ClientIP(trustedHops int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := resolveClientIP(r, trustedHops)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientIPKey, ip)))
		})
	}
}

// ClientIPFromRequest returns the address stored by ClientIP, or the TCP
// peer when the middleware did not run.
func ClientIPFromRequest(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return peerIP(r)
}

func resolveClientIP(r *http.Request, trustedHops int) string {
	peer := peerIP(r)
	if trustedHops <= 0 {
		return peer
	}

	var chain []string
	for _, values := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(values, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				chain = append(chain, hop)
			}
		}
	}
	chain = append(chain, peer)

	idx := len(chain) - 1 - trustedHops
	if idx < 0 {
		idx = 0
	}
	return chain[idx]
}

func peerIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
