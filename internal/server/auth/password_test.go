package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret1234")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1234", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)

	assert.True(t, h.Verify("Secret1234", hash))
	assert.False(t, h.Verify("secret1234", hash))
	assert.False(t, h.Verify("", hash))
}

func TestPasswordHasher_Salted(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "plaintext", "$2a$04$short", "$9z$99$" + strings.Repeat("x", 53)} {
		assert.False(t, h.Verify("whatever", bad), bad)
	}
}

func TestPasswordHasher_LongPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	base := strings.Repeat("a", 100)
	hash, err := h.Hash(base + "1")
	require.NoError(t, err)

	assert.True(t, h.Verify(base+"1", hash))
	assert.False(t, h.Verify(base+"2", hash), "suffix past 72 bytes must count")
}

func TestPasswordHasher_CostClamped(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99).cost)
}

func TestPasswordHasher_VerifyDummy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	h.VerifyDummy("anything")
	assert.NotEmpty(t, h.dummy)
}
