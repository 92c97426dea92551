package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rverdone/quadro/internal/storage"
	"github.com/rverdone/quadro/internal/storage/sqlite"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	store := storage.New(sqlite.New(nil), nil, true)
	require.True(t, store.Init())
	return New(store)
}

func TestFirstSubmissionSetsSecret(t *testing.T) {
	v := newTestVault(t)

	// No key exists yet: the first secret is accepted and stored.
	assert.True(t, v.Verify("hunter2", "credential-1"))

	// From then on only that secret unlocks.
	assert.True(t, v.Verify("hunter2", "credential-1"))
	assert.False(t, v.Verify("wrong", "credential-1"))
}

func TestSecretsAreScopedPerCredential(t *testing.T) {
	v := newTestVault(t)

	assert.True(t, v.Verify("alpha", "credential-a"))
	assert.True(t, v.Verify("beta", "credential-b"))

	assert.False(t, v.Verify("beta", "credential-a"))
	assert.True(t, v.Verify("alpha", "credential-a"))
}

func TestSeededKeyIsHonored(t *testing.T) {
	v := newTestVault(t)

	// The sample database ships a default key; a fresh submission must
	// not overwrite it.
	assert.False(t, v.Verify("guess", "default-key"))
	assert.True(t, v.Verify("hashed_master_password_would_go_here", "default-key"))
}

func TestHint(t *testing.T) {
	v := newTestVault(t)
	assert.Equal(t, "Your favorite color", v.Hint("default-key"))
	assert.Equal(t, "", v.Hint("credential-without-key"))
}
