package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"docsage/internal/logging"
)

// ipAllowlist restricts API access to a fixed set of client IPs. The single
// entry "*" disables the check entirely.
type ipAllowlist struct {
	// allowAll is true when the list is "*".
	allowAll bool
	// ips is the set of permitted client IPs.
	ips map[string]bool
}

// parseAllowedIPs builds an ipAllowlist from a comma-separated list. Each
// entry must be "*" or a valid IP address; hostnames and CIDR ranges are
// rejected at startup rather than silently never matching.
func parseAllowedIPs(spec string) (*ipAllowlist, error) {
	al := &ipAllowlist{ips: make(map[string]bool)}

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == "*" {
			al.allowAll = true
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("server: ALLOWED_IPS entry %q is not a valid IP address", entry)
		}
		al.ips[ip.String()] = true
	}

	if !al.allowAll && len(al.ips) == 0 {
		return nil, fmt.Errorf("server: ALLOWED_IPS must contain at least one IP or \"*\"")
	}
	return al, nil
}

// allowed reports whether the given client IP may use the API.
func (al *ipAllowlist) allowed(ip string) bool {
	if al.allowAll {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return al.ips[parsed.String()]
}

// middleware returns an http.Handler that rejects clients outside the
// allow-list with 403 Forbidden before delegating to next.
func (al *ipAllowlist) middleware(next http.Handler) http.Handler {
	if al.allowAll {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !al.allowed(ip) {
			logging.FromContext(r.Context()).Warn("allowlist: rejected client",
				"ip", ip,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}
