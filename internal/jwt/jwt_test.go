package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateSigner_GenerateAndVerify(t *testing.T) {
	s := New("test-secret", 10*time.Minute)

	state, err := s.Generate("google")
	require.NoError(t, err)
	assert.NotEmpty(t, state)

	assert.NoError(t, s.Verify(state, "google"))
}

func TestStateSigner_Unique(t *testing.T) {
	s := New("test-secret", time.Minute)

	a, err := s.Generate("google")
	require.NoError(t, err)
	b, err := s.Generate("google")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStateSigner_Verify_Failures(t *testing.T) {
	s := New("test-secret", time.Minute)
	good, err := s.Generate("google")
	require.NoError(t, err)

	expired := New("test-secret", -time.Minute)
	old, err := expired.Generate("google")
	require.NoError(t, err)

	other := New("other-secret", time.Minute)
	forged, err := other.Generate("google")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, StateClaims{Provider: "google"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		state    string
		provider string
	}{
		{"WrongProvider", good, "facebook"},
		{"Expired", old, "google"},
		{"WrongSecret", forged, "google"},
		{"Unsigned", unsigned, "google"},
		{"Garbage", "invalid.token.string", "google"},
		{"Empty", "", "google"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Verify(tt.state, tt.provider), ErrInvalidState)
		})
	}
}

func TestStateSigner_ClockSkew(t *testing.T) {
	s := New("test-secret", time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }

	state, err := s.Generate("facebook")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	assert.ErrorIs(t, s.Verify(state, "facebook"), ErrInvalidState)
}
