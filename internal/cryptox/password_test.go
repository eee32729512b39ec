package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash, "plaintext must never be stored")

	require.True(t, CheckPassword("s3cret", hash))
	require.False(t, CheckPassword("wrong", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	h1, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestHashPassword_InvalidCost(t *testing.T) {
	_, err := HashPassword("x", bcrypt.MaxCost+1)
	require.Error(t, err)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	require.False(t, CheckPassword("x", "not-a-bcrypt-hash"))
}
