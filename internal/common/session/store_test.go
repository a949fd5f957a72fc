// internal/common/session/store_test.go
package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-portal/internal/common/config"
	"admission-portal/internal/models"
)

func testSession() *Session {
	return &Session{
		Token: "tok-123",
		Profile: &models.Profile{
			FirstName: "Asha",
			LastName:  "Kulkarni",
			Email:     "asha@example.com",
			PhoneNo:   "9876543210",
			Institutes: []models.Institute{
				{Code: "METIPD"},
			},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound{})

	require.NoError(t, store.Save(ctx, testSession()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", loaded.Token)
	assert.Equal(t, "asha@example.com", loaded.Profile.Email)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound{})
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession()))

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first.Token = "mutated"

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", second.Token)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(config.RedisConfig{Address: mr.Addr()}, time.Hour)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound{})

	sess := testSession()
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, loaded.Token)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "METIPD", loaded.Profile.Institutes[0].Code)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound{})
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(config.RedisConfig{Address: mr.Addr()}, time.Minute)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession()))

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound{})
}
