package auth

import (
	"net/http"
	"strings"
)

// Role classifies an authenticated caller.
type Role int

const (
	RoleUnauth Role = iota
	RoleFrontend
	RoleBackend
	RoleAdmin
)

// SecConfig is the security configuration consumed by the request gateway.
type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	BackendKeys    map[string]struct{}
	FrontendKeys   map[string]struct{}
	AdminKeys      map[string]struct{}
}

// apiKey extracts the caller's API key from X-API-Key or a bearer token.
func apiKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return k
	}
	authz := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

// authenticate resolves the caller's role from its API key. The returned
// key doubles as the rate-limiter bucket; unauthenticated callers are
// bucketed by remote address.
func authenticate(r *http.Request, cfg SecConfig) (Role, string, bool) {
	key := apiKey(r)
	if key == "" {
		return RoleUnauth, r.RemoteAddr, false
	}
	if _, ok := cfg.AdminKeys[key]; ok {
		return RoleAdmin, key, true
	}
	if _, ok := cfg.BackendKeys[key]; ok {
		return RoleBackend, key, true
	}
	if _, ok := cfg.FrontendKeys[key]; ok {
		return RoleFrontend, key, true
	}
	return RoleUnauth, key, false
}

// frontendAllowed scopes frontend keys away from provisioning and admin
// surfaces; room provisioning is a backend/admin operation.
func frontendAllowed(r *http.Request) bool {
	if r.Method == http.MethodPost && r.URL.Path == "/v1/chatrooms" {
		return false
	}
	return r.URL.Path != "/metrics"
}
