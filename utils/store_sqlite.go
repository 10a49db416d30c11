package utils

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"wenbucks-go/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	user_id  TEXT PRIMARY KEY,
	messages INTEGER NOT NULL DEFAULT 0,
	balance  INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0)
);`

// SQLiteStore keeps the snapshot in a local SQLite database.
type SQLiteStore struct {
	sqlDB *sql.DB
}

var _ AccountStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (creating if needed) the database at path
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrConfiguration)
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, persistenceError("open sqlite db", err)
	}
	// One writer keeps snapshot transactions from tripping over each other.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, persistenceError("ping sqlite db", err)
	}
	if _, err := sqlDB.Exec(sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, persistenceError("create accounts table", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Load reads every account row
func (s *SQLiteStore) Load(ctx context.Context) (map[string]models.Account, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT user_id, messages, balance FROM accounts`)
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

// Save upserts the whole snapshot in one transaction
func (s *SQLiteStore) Save(ctx context.Context, accounts map[string]models.Account) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError("begin snapshot transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (user_id, messages, balance) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET messages = excluded.messages, balance = excluded.balance`)
	if err != nil {
		return persistenceError("prepare account upsert", err)
	}
	defer stmt.Close()

	for userID, account := range accounts {
		if _, err := stmt.ExecContext(ctx, userID, account.MessageCount, account.Balance); err != nil {
			return persistenceError(fmt.Sprintf("upsert account %s", userID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistenceError("commit snapshot", err)
	}
	return nil
}

// Close closes the SQLite handle
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
