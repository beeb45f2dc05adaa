package auth

import (
	"context"
	"testing"

	"go-chms/internal/common/models"
	"go-chms/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionStore(storage.NewMemoryStore())

	_, err := sessions.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	user := &models.User{ID: "u1", Roles: []string{"MEMBER"}, PrimaryRole: "MEMBER"}
	require.NoError(t, sessions.Save(ctx, "tok", user))

	session, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "u1", session.User.ID)

	require.NoError(t, sessions.Clear(ctx))
	_, err = sessions.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStoreCorrupt(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	sessions := NewSessionStore(store)

	require.NoError(t, store.Set(ctx, storage.KeyAuthToken, []byte("tok")))
	require.NoError(t, store.Set(ctx, storage.KeyUserData, []byte("[1,2")))

	_, err := sessions.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSession)
}
