package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Headers are consulted in order before falling back to RemoteAddr. Only
// deploy behind a proxy that overwrites them.
var Headers = []string{"X-Forwarded-For", "X-Real-IP"}

// GetIP returns the normalized client address of r, or "" when none of the
// sources holds a valid IP. For comma-separated headers the first valid
// entry wins.
func GetIP(r *http.Request) string {
	for _, h := range Headers {
		for ip := range strings.SplitSeq(r.Header.Get(h), ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
