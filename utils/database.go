package utils

import (
	"context"
	"fmt"
	"time"

	"wenbucks-go/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the snapshot in a Postgres table
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ AccountStore = (*PostgresStore)(nil)

// OpenPostgresStore initializes the database connection pool
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is required for the postgres store", ErrConfiguration)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse database URL: %v", ErrConfiguration, err)
	}

	// Snapshot writes are serialized by the ledger, so a small pool is plenty
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 45 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.RuntimeParams = map[string]string{
		"application_name":                    "wenbucks-bot",
		"timezone":                            "UTC",
		"statement_timeout":                   "30s",
		"idle_in_transaction_session_timeout": "60s",
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, persistenceError("create connection pool", err)
	}

	// Test the connection
	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, persistenceError("acquire connection", err)
	}
	conn.Release()

	store := &PostgresStore{pool: pool}
	if err := store.createAccountsTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// createAccountsTable creates the wenbucks_accounts table if it does not exist
func (ps *PostgresStore) createAccountsTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS wenbucks_accounts (
		user_id TEXT PRIMARY KEY,
		messages INTEGER NOT NULL DEFAULT 0,
		balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_wenbucks_accounts_balance ON wenbucks_accounts(balance DESC, user_id);`
	if _, err := ps.pool.Exec(ctx, query); err != nil {
		return persistenceError("create wenbucks_accounts table", err)
	}
	return nil
}

// Load reads every account row
func (ps *PostgresStore) Load(ctx context.Context) (map[string]models.Account, error) {
	rows, err := ps.pool.Query(ctx, `SELECT user_id, messages, balance FROM wenbucks_accounts`)
	if err != nil {
		return nil, persistenceError("query accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]models.Account)
	for rows.Next() {
		var userID string
		var account models.Account
		if err := rows.Scan(&userID, &account.MessageCount, &account.Balance); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", ErrSnapshotCorrupt, err)
		}
		accounts[userID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate accounts", err)
	}

	if len(accounts) == 0 {
		return nil, ErrSnapshotNotFound
	}
	return accounts, nil
}

// Save upserts the whole snapshot as one batch inside a transaction
func (ps *PostgresStore) Save(ctx context.Context, accounts map[string]models.Account) error {
	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return persistenceError("begin snapshot transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wenbucks_accounts (user_id, messages, balance, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id) DO UPDATE
		SET messages = EXCLUDED.messages, balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at`

	batch := &pgx.Batch{}
	for userID, account := range accounts {
		batch.Queue(query, userID, account.MessageCount, account.Balance)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return persistenceError("upsert accounts", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return persistenceError("commit snapshot", err)
	}
	return nil
}

// Close closes the database connection pool
func (ps *PostgresStore) Close() error {
	if ps != nil && ps.pool != nil {
		ps.pool.Close()
	}
	return nil
}
