package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"wenbucks-go/models"
)

// Ledger holds every account in memory and writes a full snapshot to its
// store after each mutation.
//
// A crash after an in-memory mutation but before its snapshot lands loses
// that one mutation; the previous snapshot stays intact.
type Ledger struct {
	accounts map[string]*models.Account
	mutex    sync.RWMutex
	saveMu   sync.Mutex
	store    AccountStore
}

// NewLedger creates an empty ledger persisted through store
func NewLedger(store AccountStore) *Ledger {
	return &Ledger{
		accounts: make(map[string]*models.Account),
		store:    store,
	}
}

// Load replaces the in-memory state with the stored snapshot. A missing
// snapshot starts empty and is written immediately; a corrupt one starts
// empty with a warning.
func (l *Ledger) Load(ctx context.Context) error {
	accounts, err := l.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSnapshotNotFound):
		log.Println("No Wenbucks snapshot found, starting with an empty ledger")
		l.reset(nil)
		return l.Persist(ctx)
	case errors.Is(err, ErrSnapshotCorrupt):
		log.Printf("WARNING: Wenbucks snapshot is unreadable, starting with an empty ledger: %v", err)
		l.reset(nil)
		return nil
	default:
		return fmt.Errorf("load ledger: %w", err)
	}

	l.reset(accounts)
	log.Printf("Loaded %d Wenbucks accounts", len(accounts))
	return nil
}

func (l *Ledger) reset(accounts map[string]models.Account) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.accounts = make(map[string]*models.Account, len(accounts))
	for userID, account := range accounts {
		account := account
		l.accounts[userID] = &account
	}
}

// getOrCreateLocked must be called with l.mutex held for writing
func (l *Ledger) getOrCreateLocked(userID string) *models.Account {
	account, exists := l.accounts[userID]
	if !exists {
		account = &models.Account{}
		l.accounts[userID] = account
	}
	return account
}

// GetOrCreate returns a copy of the user's account, creating it if needed
func (l *Ledger) GetOrCreate(userID string) models.Account {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return *l.getOrCreateLocked(userID)
}

// Balance returns the user's balance; unknown users have zero
func (l *Ledger) Balance(userID string) int64 {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if account, exists := l.accounts[userID]; exists {
		return account.Balance
	}
	return 0
}

// Credit adds amount to the user's balance and persists
func (l *Ledger) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit of negative amount %d", amount)
	}

	l.mutex.Lock()
	account := l.getOrCreateLocked(userID)
	account.Balance += amount
	balance := account.Balance
	l.mutex.Unlock()

	return balance, l.Persist(ctx)
}

// Debit removes amount from the user's balance and persists. Callers check
// the balance first; the debit still refuses to overdraw so two racing
// debits cannot take the balance below zero.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("debit of negative amount %d", amount)
	}

	l.mutex.Lock()
	account := l.getOrCreateLocked(userID)
	if account.Balance < amount {
		balance := account.Balance
		l.mutex.Unlock()
		return balance, ErrInsufficientBalance
	}
	account.Balance -= amount
	balance := account.Balance
	l.mutex.Unlock()

	return balance, l.Persist(ctx)
}

// RecordMessage counts one message for the user. When the count reaches
// threshold it resets to zero and reward is credited. The ledger is
// persisted on every call.
func (l *Ledger) RecordMessage(ctx context.Context, userID string, threshold int, reward int64) (models.Account, bool, error) {
	l.mutex.Lock()
	account := l.getOrCreateLocked(userID)
	account.MessageCount++
	rewarded := false
	if account.MessageCount >= threshold {
		account.MessageCount = 0
		account.Balance += reward
		rewarded = true
	}
	result := *account
	l.mutex.Unlock()

	return result, rewarded, l.Persist(ctx)
}

// Persist writes the current snapshot. Snapshots are taken under saveMu so
// they reach the store in mutation order.
func (l *Ledger) Persist(ctx context.Context) error {
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	if err := l.store.Save(ctx, l.Snapshot()); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Snapshot returns a copy of every account
func (l *Ledger) Snapshot() map[string]models.Account {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	snapshot := make(map[string]models.Account, len(l.accounts))
	for userID, account := range l.accounts {
		snapshot[userID] = *account
	}
	return snapshot
}

// Size returns the number of known accounts
func (l *Ledger) Size() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.accounts)
}
