// Package agentauth gates the agent-facing API behind a shared secret.
package agentauth

import "crypto/subtle"

// HeaderName is the request header carrying the agent's shared secret.
const HeaderName = "x-agent-key"

// Validate reports whether candidate matches the configured key. The
// comparison is constant time so a near-miss takes as long as a full
// mismatch. An unconfigured key rejects everything.
func Validate(candidate, configured string) bool {
	if configured == "" || candidate == "" {
		return false
	}
	a := []byte(candidate)
	b := []byte(configured)
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
