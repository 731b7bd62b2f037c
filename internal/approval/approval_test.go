package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s := NewSigner("topsecret")
	require.True(t, s.Enabled())

	sig := s.Sign("token123", ActionApprove)
	assert.Len(t, sig, 64, "hex sha256 digest")
	assert.True(t, s.Verify("token123", ActionApprove, sig))

	assert.False(t, s.Verify("token123", ActionDeny, sig), "signature is bound to the action")
	assert.False(t, s.Verify("othertoken", ActionApprove, sig), "signature is bound to the token")
	assert.False(t, s.Verify("token123", ActionApprove, "short"), "length mismatch rejects")
	assert.False(t, s.Verify("token123", ActionApprove, ""))
}

func TestSignIsDeterministic(t *testing.T) {
	a := NewSigner("secret").Sign("tok", ActionDeny)
	b := NewSigner("secret").Sign("tok", ActionDeny)
	assert.Equal(t, a, b)

	c := NewSigner("different").Sign("tok", ActionDeny)
	assert.NotEqual(t, a, c)
}

func TestOpenMode(t *testing.T) {
	s := NewSigner("")
	assert.False(t, s.Enabled())
	assert.Empty(t, s.Sign("tok", ActionApprove))
	assert.True(t, s.Verify("tok", ActionApprove, ""), "open mode accepts anything")
	assert.True(t, s.Verify("tok", ActionApprove, "garbage"))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, a, 64, "32 random bytes, hex encoded")

	b, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
