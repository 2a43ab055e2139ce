// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	require.NoError(t, err)

	ok, err := VerifyPassword("Sup3rSecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "$bcrypt$nope")
	assert.Error(t, err)
}

func TestRehashOnOutdatedParams(t *testing.T) {
	old := currentArgon
	currentArgon = argonParams{memory: 8 * 1024, time: 1, threads: 1, keyLen: 32}
	hash, err := HashPassword("Sup3rSecret")
	currentArgon = old
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("Sup3rSecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, newHash)
	assert.False(t, needsRehash(newHash))
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestTokenHashing(t *testing.T) {
	token, err := GenerateRefreshToken()
	require.NoError(t, err)

	hash := HashToken(token)
	assert.Len(t, hash, 64)
	assert.True(t, CompareTokenHash(token, hash))
	assert.False(t, CompareTokenHash(token+"x", hash))
}
