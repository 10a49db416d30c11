package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"wenbucks-go/models"
)

// AccountStore persists whole-ledger snapshots.
//
// Load returns ErrSnapshotNotFound when nothing has been saved yet and an
// error wrapping ErrSnapshotCorrupt when the stored data cannot be decoded.
type AccountStore interface {
	Load(ctx context.Context) (map[string]models.Account, error)
	Save(ctx context.Context, accounts map[string]models.Account) error
	Close() error
}

const (
	snapshotFileMode = 0o600
	snapshotDirMode  = 0o700
)

// FileStore keeps the snapshot in a single JSON document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ AccountStore = (*FileStore)(nil)

// NewFileStore creates a store backed by the JSON file at path
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: snapshot path is empty", ErrConfiguration)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}
	return &FileStore{path: filepath.Clean(absPath)}, nil
}

// Path returns the snapshot file location
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the snapshot. A file that fails to decode is moved aside to
// <path>.corrupt-<unix> so the next Save does not overwrite it.
func (fs *FileStore) Load(ctx context.Context) (map[string]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError("read snapshot file", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, persistenceError("read snapshot file", err)
	}

	accounts := make(map[string]models.Account)
	if err := json.Unmarshal(data, &accounts); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", fs.path, time.Now().Unix())
		if renameErr := os.Rename(fs.path, backup); renameErr != nil {
			log.Printf("Failed to move corrupt snapshot aside: %v", renameErr)
		} else {
			log.Printf("Corrupt snapshot moved to %s", backup)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, fs.path, err)
	}

	return accounts, nil
}

// Save replaces the snapshot atomically through a temp file and rename
func (fs *FileStore) Save(ctx context.Context, accounts map[string]models.Account) error {
	if err := ctx.Err(); err != nil {
		return persistenceError("write snapshot file", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return persistenceError("encode snapshot", err)
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, snapshotDirMode); err != nil {
		return persistenceError("create snapshot directory", err)
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(fs.path)+"-*.tmp")
	if err != nil {
		return persistenceError("create temp snapshot", err)
	}
	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return persistenceError("write temp snapshot", err)
	}
	if err := tempFile.Chmod(snapshotFileMode); err != nil {
		_ = tempFile.Close()
		return persistenceError("chmod temp snapshot", err)
	}
	if err := tempFile.Close(); err != nil {
		return persistenceError("close temp snapshot", err)
	}
	if err := os.Rename(tempName, fs.path); err != nil {
		return persistenceError("replace snapshot", err)
	}
	cleanup = false

	return nil
}

// Close is a no-op; the file is not held open between saves
func (fs *FileStore) Close() error {
	return nil
}

// MemoryStore keeps snapshots in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	saved    bool
	saves    int
	failWith error
}

var _ AccountStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the last saved snapshot
func (ms *MemoryStore) Load(ctx context.Context) (map[string]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError("load snapshot", err)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.saved {
		return nil, ErrSnapshotNotFound
	}
	return copyAccounts(ms.accounts), nil
}

// Save stores a copy of the snapshot
func (ms *MemoryStore) Save(ctx context.Context, accounts map[string]models.Account) error {
	if err := ctx.Err(); err != nil {
		return persistenceError("save snapshot", err)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.failWith != nil {
		return persistenceError("save snapshot", ms.failWith)
	}
	ms.accounts = copyAccounts(accounts)
	ms.saved = true
	ms.saves++
	return nil
}

// Close is a no-op
func (ms *MemoryStore) Close() error {
	return nil
}

// Saves returns how many snapshots have been written
func (ms *MemoryStore) Saves() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.saves
}

// FailSaves makes every following Save return err; nil restores normal saves
func (ms *MemoryStore) FailSaves(err error) {
	ms.mu.Lock()
	ms.failWith = err
	ms.mu.Unlock()
}

func copyAccounts(accounts map[string]models.Account) map[string]models.Account {
	out := make(map[string]models.Account, len(accounts))
	for userID, account := range accounts {
		out[userID] = account
	}
	return out
}
