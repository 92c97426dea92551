// Package vault is the credential-unlock predicate used by protected widgets.
// It is deliberately naive: the first submitted secret for a credential is
// stored as-is and later submissions are compared in plaintext. Hardening
// this is an explicit non-goal of the storage core; callers should treat
// Verify as an opaque yes/no check.
package vault

import (
	"time"

	"github.com/rverdone/quadro/internal/storage"
)

type Vault struct {
	store *storage.Store
}

func New(store *storage.Store) *Vault {
	return &Vault{store: store}
}

// Verify reports whether secret unlocks credentialID. When no key exists yet
// for the credential the submitted secret becomes the key and the unlock
// succeeds. A successful check refreshes lastUsed.
func (v *Vault) Verify(secret, credentialID string) bool {
	resp := v.store.Query(`SELECT key_hash FROM vault_keys WHERE id = ?`, credentialID)
	if !resp.Success {
		return false
	}

	now := storage.Timestamp(time.Now())
	if len(resp.Results) == 0 {
		ins := v.store.Execute(`
			INSERT OR REPLACE INTO vault_keys (id, key_hash, hint, createdAt, lastUsed)
			VALUES (?, ?, NULL, ?, ?)`,
			credentialID, secret, now, now,
		)
		if ins.Success {
			v.store.Persist()
		}
		return ins.Success
	}

	if storage.Text(resp.Results[0]["key_hash"]) != secret {
		return false
	}

	if upd := v.store.Execute(`UPDATE vault_keys SET lastUsed = ? WHERE id = ?`, now, credentialID); upd.Success {
		v.store.Persist()
	}
	return true
}

// Hint returns the stored hint for a credential, or "" when none exists.
func (v *Vault) Hint(credentialID string) string {
	resp := v.store.Query(`SELECT hint FROM vault_keys WHERE id = ?`, credentialID)
	if !resp.Success || len(resp.Results) == 0 {
		return ""
	}
	return storage.Text(resp.Results[0]["hint"])
}
