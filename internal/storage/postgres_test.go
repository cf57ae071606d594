package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, dbURL, 3, time.Second)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runStoreContract(t, func(t *testing.T, clock *stepClock) Store {
		store := NewPostgresStore(pool, WithClock(clock.Now))
		require.NoError(t, store.EnsureSchema(context.Background()))
		_, err := store.DeleteAll(context.Background())
		require.NoError(t, err)
		return store
	})
}
