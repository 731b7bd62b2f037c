package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/agentauth"
)

// AgentKey returns middleware that gates the agent API behind the shared
// x-agent-key header. Every failure mode, including the key being
// unconfigured on the server, answers 401 with the same body.
func AgentKey(configuredKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !agentauth.Validate(r.Header.Get(agentauth.HeaderName), configuredKey) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Unauthorized",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
