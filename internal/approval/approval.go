// Package approval signs and verifies payment approval links.
//
// Links embedded in owner email carry a one-time token, an action and an
// HMAC-SHA256 signature over "token:action". When no webhook secret is
// configured the scheme runs open: Sign returns "" and Verify accepts
// anything, leaving the security posture to token secrecy alone.
package approval

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Actions accepted on approval links.
const (
	ActionApprove = "approve"
	ActionDeny    = "deny"
)

// Signer derives and checks approval-link signatures with a fixed secret.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer. An empty secret produces an open-mode signer.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (s *Signer) Enabled() bool {
	return len(s.secret) > 0
}

// Sign returns the lowercase hex HMAC-SHA256 of "token:action", or the
// empty string when no secret is configured.
func (s *Signer) Sign(token, action string) string {
	if !s.Enabled() {
		return ""
	}
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%s", token, action)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a provided signature against the expected one. Length is
// compared first; the constant-time comparator only runs on equal-length
// buffers. With no secret configured Verify always succeeds.
func (s *Signer) Verify(token, action, signature string) bool {
	if !s.Enabled() {
		return true
	}
	expected := s.Sign(token, action)
	if len(signature) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}

// GenerateToken returns a cryptographically random 32-byte hex token for
// one-time approval links.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate approval token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
