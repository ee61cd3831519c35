package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("a-long-admin-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("a-long-admin-password", encoded))
	assert.False(t, Verify("a-different-password", encoded))
}

func TestVerifyMalformedEncoding(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536"))
	assert.False(t, Verify("anything", "$bcrypt$v=19$m=1,t=1,p=1$salt$hash"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
