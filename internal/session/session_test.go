package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/contract"
	"medichat-web/internal/repository/memory"
	"medichat-web/pkg/medapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenRepository struct {
	calls int
}

func (r *brokenRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.calls++
	return "", false, contract.ErrStoreUnavailable
}

func (r *brokenRepository) Set(ctx context.Context, key, value string) error {
	r.calls++
	return contract.ErrStoreUnavailable
}

func (r *brokenRepository) Delete(ctx context.Context, key string) error {
	r.calls++
	return errors.New("boom")
}

func newTestVault() (*Vault, *LocalStore, contract.KeyValueRepository) {
	repo := memory.NewKeyValueRepository()
	local := NewLocalStore(repo, logger.NewNop())
	return NewVault(NewTokenStore(), local), local, repo
}

func TestGetSessionIDIsStable(t *testing.T) {
	ctx := context.Background()
	_, local, _ := newTestVault()

	first := local.GetSessionID(ctx, "client-1")
	second := local.GetSessionID(ctx, "client-1")
	other := local.GetSessionID(ctx, "client-2")

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestEnsureSessionIDRestoresMissingValue(t *testing.T) {
	ctx := context.Background()
	_, local, repo := newTestVault()

	id := local.GetSessionID(ctx, "client-1")
	require.NoError(t, repo.Delete(ctx, storageKey("client-1", SessionIDKey)))

	assert.Equal(t, id, local.EnsureSessionID(ctx, "client-1", id))
	assert.Equal(t, id, local.GetSessionID(ctx, "client-1"))
}

func TestCorruptedProfileIsDropped(t *testing.T) {
	ctx := context.Background()
	_, local, repo := newTestVault()

	require.NoError(t, repo.Set(ctx, storageKey("c", ProfileKey), "{not json"))

	_, ok := local.GetCachedProfile(ctx, "c")
	assert.False(t, ok)

	_, present, _ := repo.Get(ctx, storageKey("c", ProfileKey))
	assert.False(t, present)
}

func TestProfileRoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	_, local, _ := newTestVault()

	local.SetCachedProfile(ctx, "c", medapi.Profile{"user_name": "An", "user_role": "doctor"})
	profile, ok := local.GetCachedProfile(ctx, "c")
	require.True(t, ok)
	assert.Equal(t, "An", profile.DisplayName())

	local.ClearProfile(ctx, "c")
	_, ok = local.GetCachedProfile(ctx, "c")
	assert.False(t, ok)
}

func TestUnavailableStorageDegradesSilently(t *testing.T) {
	ctx := context.Background()
	repo := &brokenRepository{}
	local := NewLocalStore(repo, logger.NewNop())

	id := local.GetSessionID(ctx, "c")
	assert.NotEmpty(t, id)
	assert.True(t, local.Degraded("c"))

	calls := repo.calls
	local.SetCachedProfile(ctx, "c", medapi.Profile{"name": "x"})
	_, ok := local.GetCachedProfile(ctx, "c")
	local.ClearProfile(ctx, "c")

	assert.False(t, ok)
	assert.Equal(t, calls, repo.calls)
}

// selectiveRepository fails only for keys of one client.
type selectiveRepository struct {
	contract.KeyValueRepository
	failFor string
	err     error
}

func (r *selectiveRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.HasPrefix(key, r.failFor+":") {
		return "", false, r.err
	}
	return r.KeyValueRepository.Get(ctx, key)
}

func TestStorageFailureStaysWithOneClient(t *testing.T) {
	ctx := context.Background()
	repo := &selectiveRepository{
		KeyValueRepository: memory.NewKeyValueRepository(),
		failFor:            "bob",
		err:                contract.ErrStoreUnavailable,
	}
	local := NewLocalStore(repo, logger.NewNop())

	local.SetCachedProfile(ctx, "alice", medapi.Profile{"name": "Alice"})
	_, ok := local.GetCachedProfile(ctx, "bob")
	assert.False(t, ok)
	assert.True(t, local.Degraded("bob"))

	profile, ok := local.GetCachedProfile(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, "Alice", profile.DisplayName())
	assert.False(t, local.Degraded("alice"))
}

func TestCancelledContextDoesNotDegrade(t *testing.T) {
	ctx := context.Background()
	repo := &selectiveRepository{
		KeyValueRepository: memory.NewKeyValueRepository(),
		failFor:            "carol",
		err:                context.Canceled,
	}
	local := NewLocalStore(repo, logger.NewNop())

	_, ok := local.GetCachedProfile(ctx, "carol")
	assert.False(t, ok)
	assert.False(t, local.Degraded("carol"))

	repo.failFor = "nobody"
	local.SetCachedProfile(ctx, "carol", medapi.Profile{"name": "Carol"})
	_, ok = local.GetCachedProfile(ctx, "carol")
	assert.True(t, ok)
}

func TestTokenStorePlaceholderRefresh(t *testing.T) {
	jar := NewMemoryJar()
	store := NewTokenStore()

	store.SetTokens(jar, "tok", "")
	assert.True(t, store.HasToken(jar))
	assert.Equal(t, "tok", store.AccessToken(jar))
	assert.Equal(t, PlaceholderRefreshToken, jar.Cookie(RefreshTokenCookie))

	store.ClearTokens(jar)
	assert.False(t, store.HasToken(jar))
	assert.Empty(t, jar.Cookie(RefreshTokenCookie))
}

func TestVaultAuthenticationNeedsBothHalves(t *testing.T) {
	ctx := context.Background()
	vault, _, _ := newTestVault()
	jar := NewMemoryJar()

	assert.False(t, vault.IsAuthenticated(ctx, jar, "c"))

	vault.StoreToken(jar, &medapi.TokenPair{AccessToken: "tok"})
	assert.False(t, vault.IsAuthenticated(ctx, jar, "c"))

	vault.StoreProfile(ctx, "c", medapi.Profile{"name": "Binh"})
	assert.True(t, vault.IsAuthenticated(ctx, jar, "c"))

	vault.Clear(ctx, jar, "c")
	assert.False(t, vault.HasToken(jar))
	_, ok := vault.Profile(ctx, "c")
	assert.False(t, ok)
}

func TestVaultLockIsPerClient(t *testing.T) {
	vault, _, _ := newTestVault()

	unlock := vault.Lock("a")
	unlock()
	unlock = vault.Lock("a")
	unlock()
}
