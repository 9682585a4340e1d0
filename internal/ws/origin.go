package ws

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// OriginChecker returns a CheckOrigin function for the upgrader. With no
// configured origins, or with "*" among them, every origin is accepted.
// Requests without an Origin header come from non-browser clients and are
// always accepted.
func OriginChecker(origins []string) func(r *http.Request) bool {
	allowed, allowAll := normalizeOrigins(origins)
	if allowAll || len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		header := r.Header.Get("Origin")
		if header == "" {
			return true
		}
		origin, ok := normalizeOrigin(header)
		if ok {
			if _, found := allowed[origin]; found {
				return true
			}
		}
		slog.Warn("Blocked WebSocket connection from disallowed origin", "origin", header)
		return false
	}
}

func normalizeOrigins(origins []string) (map[string]struct{}, bool) {
	allowed := make(map[string]struct{}, len(origins))
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			slog.Warn("Ignoring invalid origin in configuration", "origin", origin)
			continue
		}
		allowed[normalized] = struct{}{}
	}
	return allowed, allowAll
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
