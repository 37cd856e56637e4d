package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinoflow/cinema-reservation/internal/utils"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := utils.HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.True(t, utils.VerifyPassword(hash, "s3cret!"))
	assert.False(t, utils.VerifyPassword(hash, "wrong"))
	assert.False(t, utils.VerifyPassword("not-a-hash", "s3cret!"))
}

func TestNewAccessToken(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, "user", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.False(t, tok.Exp.IsZero())
}
