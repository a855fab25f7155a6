package security_test

import (
	"strings"
	"testing"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
	"github.com/angelmondragon/sellercenter-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHasher(t *testing.T) *security.Hasher {
	t.Helper()
	h, err := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	return h
}

func TestHashAndVerifyPassword(t *testing.T) {
	h := newHasher(t)

	hash, err := h.Hash("very-secure-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))

	ok, err := h.Verify("very-secure-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("bogus-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	h.VerifyMissing("anything")
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := newHasher(t).Hash("")
	assert.Error(t, err)
}

func TestVerifyPasswordBadHash(t *testing.T) {
	h := newHasher(t)
	for _, bad := range []string{"not-a-hash", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5"} {
		_, err := h.Verify("irrelevant", bad)
		assert.ErrorIs(t, err, security.ErrInvalidHash, bad)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)
	assert.NotContains(t, pw, "0")
	assert.NotContains(t, pw, "l")

	_, err = security.GenerateTempPassword(0)
	assert.Error(t, err)
}
