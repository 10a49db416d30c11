package utils

import (
	"context"
	"path/filepath"
	"testing"

	"wenbucks-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), WenbucksSQLiteName))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreEmptyIsNotFound(t *testing.T) {
	store := openTestSQLiteStore(t)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSQLiteStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLiteStore(t)

	require.NoError(t, store.Save(ctx, map[string]models.Account{
		"alice": {MessageCount: 2, Balance: 30},
		"bob":   {MessageCount: 4, Balance: 0},
	}))
	require.NoError(t, store.Save(ctx, map[string]models.Account{
		"alice": {MessageCount: 3, Balance: 25},
		"bob":   {MessageCount: 0, Balance: 5},
	}))

	accounts, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]models.Account{
		"alice": {MessageCount: 3, Balance: 25},
		"bob":   {MessageCount: 0, Balance: 5},
	}, accounts)
}

func TestSQLiteStoreBacksLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), WenbucksSQLiteName)

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	ledger := NewLedger(store)
	require.NoError(t, ledger.Load(ctx))
	_, err = ledger.Credit(ctx, "alice", 12)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	reloaded := NewLedger(reopened)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, int64(12), reloaded.Balance("alice"))
}

func TestOpenSQLiteStoreRequiresPath(t *testing.T) {
	_, err := OpenSQLiteStore("")
	assert.ErrorIs(t, err, ErrConfiguration)
}
