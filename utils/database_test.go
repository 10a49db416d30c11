package utils

import (
	"context"
	"os"
	"testing"
	"time"

	"wenbucks-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set TEST_DATABASE_URL to run against a real Postgres instance
func TestPostgresStoreSaveAndLoad(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := OpenPostgresStore(ctx, databaseURL)
	require.NoError(t, err)
	defer store.Close()

	userID := "test-" + time.Now().Format("150405.000000")
	require.NoError(t, store.Save(ctx, map[string]models.Account{
		userID: {MessageCount: 1, Balance: 9},
	}))

	accounts, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Account{MessageCount: 1, Balance: 9}, accounts[userID])

	_, err = store.pool.Exec(ctx, `DELETE FROM wenbucks_accounts WHERE user_id = $1`, userID)
	require.NoError(t, err)
}

func TestOpenPostgresStoreRejectsBadURL(t *testing.T) {
	_, err := OpenPostgresStore(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = OpenPostgresStore(context.Background(), "postgres://%zz")
	assert.ErrorIs(t, err, ErrConfiguration)
}
