package memory

import (
	"context"
	"testing"

	"medichat-web/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewKeyValueRepository()

	_, ok, err := repo.Get(ctx, "c1:chat_session_id")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "c1:chat_session_id", "abc"))
	v, ok, err := repo.Get(ctx, "c1:chat_session_id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, repo.Delete(ctx, "c1:chat_session_id"))
	_, ok, _ = repo.Get(ctx, "c1:chat_session_id")
	assert.False(t, ok)
}

func TestSessionRepositoryGetOrCreate(t *testing.T) {
	type state struct{ n int }
	repo := NewSessionRepository[state]()

	calls := 0
	create := func() *state {
		calls++
		return &state{n: calls}
	}

	first := repo.GetOrCreate("client-a", create)
	second := repo.GetOrCreate("client-a", create)
	other := repo.GetOrCreate("client-b", create)

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, calls)

	repo.Delete("client-a")
	_, ok := repo.Get("client-a")
	assert.False(t, ok)
}

func TestServiceUserRepositoryEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceUserRepository()

	user := &entity.ServiceUser{UserId: "google-123", Email: "a@example.com"}
	require.NoError(t, repo.EnsureWithCredit(ctx, user))
	firstID := user.Id

	again := &entity.ServiceUser{UserId: "google-123", Email: "changed@example.com"}
	require.NoError(t, repo.EnsureWithCredit(ctx, again))
	assert.Equal(t, firstID, again.Id)
	assert.Equal(t, "a@example.com", again.Email)

	credit, err := repo.FindCredit(ctx, "google-123")
	require.NoError(t, err)
	require.NotNil(t, credit)
	assert.Equal(t, int64(0), credit.Balance)

	assert.True(t, repo.SetBalance("google-123", 40))
	credit, _ = repo.FindCredit(ctx, "google-123")
	assert.Equal(t, int64(40), credit.Balance)

	missing, err := repo.FindCredit(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
