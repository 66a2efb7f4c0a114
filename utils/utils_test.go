package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	for raw, want := range map[string]uint{"7": 7, "007": 7, " 7 ": 7, "+7": 7, "\t12\n": 12} {
		got, ok := ParseID(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "0", "-7", "7a", "0x7", "1.0", "99999999999999999999"} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestTokenRoundTripAndExpiry(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	raw, err := tokens.Generate(42, false)
	require.NoError(t, err)
	claims, err := tokens.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.False(t, claims.IsAdmin)

	expired, err := NewTokenManager("secret", -time.Minute).Generate(42, false)
	require.NoError(t, err)
	_, err = tokens.Validate(expired)
	assert.Error(t, err)
}
