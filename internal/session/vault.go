package session

import (
	"context"
	"hash/fnv"
	"sync"

	"medichat-web/pkg/medapi"
)

const vaultStripes = 64

// Vault owns the auth-adjacent data of a browser: the token cookies and the
// cached profile. Everything that touches both goes through here, under a
// per-client lock.
type Vault struct {
	tokens *TokenStore
	local  *LocalStore
	locks  [vaultStripes]sync.Mutex
}

func NewVault(tokens *TokenStore, local *LocalStore) *Vault {
	return &Vault{tokens: tokens, local: local}
}

// Lock serializes auth changes of one client and returns the unlock func.
func (v *Vault) Lock(clientID string) func() {
	h := fnv.New32a()
	h.Write([]byte(clientID))
	mu := &v.locks[h.Sum32()%vaultStripes]
	mu.Lock()
	return mu.Unlock
}

func (v *Vault) StoreToken(jar CookieJar, pair *medapi.TokenPair) {
	v.tokens.SetTokens(jar, pair.AccessToken, pair.RefreshToken)
}

func (v *Vault) StoreProfile(ctx context.Context, clientID string, profile medapi.Profile) {
	v.local.SetCachedProfile(ctx, clientID, profile)
}

// Clear drops token and profile together.
func (v *Vault) Clear(ctx context.Context, jar CookieJar, clientID string) {
	v.tokens.ClearTokens(jar)
	v.local.ClearProfile(ctx, clientID)
}

func (v *Vault) HasToken(jar CookieJar) bool {
	return v.tokens.HasToken(jar)
}

func (v *Vault) AccessToken(jar CookieJar) string {
	return v.tokens.AccessToken(jar)
}

func (v *Vault) Profile(ctx context.Context, clientID string) (medapi.Profile, bool) {
	return v.local.GetCachedProfile(ctx, clientID)
}

// IsAuthenticated needs both halves present.
func (v *Vault) IsAuthenticated(ctx context.Context, jar CookieJar, clientID string) bool {
	if !v.tokens.HasToken(jar) {
		return false
	}
	_, ok := v.local.GetCachedProfile(ctx, clientID)
	return ok
}
