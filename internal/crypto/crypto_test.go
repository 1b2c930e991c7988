package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b, "две соли не должны совпадать")
}

func TestDeriveKey(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	k1, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	// Детерминированность
	k2, err := DeriveKey("passphrase", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := DeriveKey("other", salt)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = DeriveKey("", salt)
	assert.Error(t, err)

	_, err = DeriveKey("passphrase", salt[:8])
	assert.Error(t, err)
}

func TestNewSealer_InvalidKey(t *testing.T) {
	_, err := NewSealer(make([]byte, 16))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{1}, KeySize))
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "session record", plaintext: []byte(`{"accessToken":"T1","refreshToken":"R1"}`)},
		{name: "single byte", plaintext: []byte("x")},
		{name: "empty", plaintext: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := s.Seal(tt.plaintext, []byte("user"))
			require.NoError(t, err)
			assert.NotEqual(t, tt.plaintext, sealed)

			opened, err := s.Open(sealed, []byte("user"))
			require.NoError(t, err)
			assert.Equal(t, string(tt.plaintext), string(opened))
		})
	}
}

func TestSealer_Randomness(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{2}, KeySize))
	require.NoError(t, err)

	a, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "nonce должен быть случайным")
}

func TestSealer_OpenFailures(t *testing.T) {
	s, err := NewSealer(bytes.Repeat([]byte{3}, KeySize))
	require.NoError(t, err)
	other, err := NewSealer(bytes.Repeat([]byte{4}, KeySize))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("payload"), []byte("user"))
	require.NoError(t, err)

	_, err = s.Open(sealed, []byte("userProfile"))
	assert.Error(t, err, "другой additional data")

	_, err = other.Open(sealed, []byte("user"))
	assert.Error(t, err, "другой ключ")

	_, err = s.Open([]byte("short"), nil)
	assert.Error(t, err)

	tampered := bytes.Clone(sealed)
	tampered[len(tampered)-1] ^= 0xff
	_, err = s.Open(tampered, []byte("user"))
	assert.Error(t, err)
}
