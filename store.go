package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds all dashboard state in process memory. Nothing survives a
// restart and nothing is shared across instances; that is the intended
// deployment model. The store is constructed explicitly and handed to the
// server so tests can run against isolated instances.
//
// All multi-step mutations (find by id, modify, write back) happen under the
// store mutex, so an update by id can never lose a concurrent update.
type Store struct {
	mu           sync.RWMutex
	transactions []Transaction
	accounts     []BankAccount
	syncHistory  []BankSync
}

// AccountPatch carries the mutable BankAccount fields for a partial update.
// Nil pointers mean "leave unchanged".
type AccountPatch struct {
	BankName      *string  `json:"bankName"`
	AccountName   *string  `json:"accountName"`
	AccountNumber *string  `json:"accountNumber"`
	AccountType   *string  `json:"accountType"`
	Balance       *float64 `json:"balance"`
	Currency      *string  `json:"currency"`
	IsActive      *bool    `json:"isActive"`
	LastSyncedAt  *string  `json:"lastSyncedAt"`
}

// NewStore returns a store preloaded with a few starter transactions so the
// dashboard isn't empty on first run.
func NewStore() *Store {
	now := time.Now().UTC()
	created := now.Format(time.RFC3339)
	return &Store{
		transactions: []Transaction{
			{
				ID:          uuid.NewString(),
				Type:        "income",
				Amount:      5000,
				Category:    "Salary",
				Description: "Monthly salary",
				Date:        now.AddDate(0, 0, -27).Format("2006-01-02"),
				CreatedAt:   created,
			},
			{
				ID:          uuid.NewString(),
				Type:        "expense",
				Amount:      1200,
				Category:    "Rent",
				Description: "Monthly rent payment",
				Date:        now.AddDate(0, 0, -23).Format("2006-01-02"),
				CreatedAt:   created,
			},
			{
				ID:          uuid.NewString(),
				Type:        "expense",
				Amount:      450,
				Category:    "Groceries",
				Description: "Weekly groceries",
				Date:        now.AddDate(0, 0, -18).Format("2006-01-02"),
				CreatedAt:   created,
			},
		},
	}
}

// NewEmptyStore returns a store with no seed data. Used by tests.
func NewEmptyStore() *Store {
	return &Store{}
}

// Transactions returns a copy of the transaction list.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// AddTransaction appends a transaction, filling in ID and CreatedAt when the
// caller left them empty, and returns the stored record.
func (s *Store) AddTransaction(t Transaction) Transaction {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return t
}

// AddTransactions appends a batch, typically from a bank sync.
func (s *Store) AddTransactions(batch []Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, batch...)
}

// DeleteTransaction removes the transaction with the given id. Deleting an
// unknown id is a no-op, matching the upstream behavior.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
}

// Accounts returns a copy of the linked bank accounts.
func (s *Store) Accounts() []BankAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BankAccount, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Account returns the account with the given id.
func (s *Store) Account(id string) (BankAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return BankAccount{}, false
}

// AddAccount links a new bank account, assigning ID and LinkedAt.
func (s *Store) AddAccount(a BankAccount) BankAccount {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.LinkedAt == "" {
		a.LinkedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
	return a
}

// PatchAccount merges the non-nil patch fields into the account with the
// given id and returns the merged record. The whole merge runs under the
// store lock.
func (s *Store) PatchAccount(id string, patch AccountPatch) (BankAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID != id {
			continue
		}
		a := &s.accounts[i]
		if patch.BankName != nil {
			a.BankName = *patch.BankName
		}
		if patch.AccountName != nil {
			a.AccountName = *patch.AccountName
		}
		if patch.AccountNumber != nil {
			a.AccountNumber = *patch.AccountNumber
		}
		if patch.AccountType != nil {
			a.AccountType = *patch.AccountType
		}
		if patch.Balance != nil {
			a.Balance = *patch.Balance
		}
		if patch.Currency != nil {
			a.Currency = *patch.Currency
		}
		if patch.IsActive != nil {
			a.IsActive = *patch.IsActive
		}
		if patch.LastSyncedAt != nil {
			a.LastSyncedAt = *patch.LastSyncedAt
		}
		return *a, true
	}
	return BankAccount{}, false
}

// DeleteAccount unlinks the account with the given id. Transactions and sync
// history referencing it are deliberately left behind; there is no cascade.
func (s *Store) DeleteAccount(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.accounts = kept
}

// TouchAccountSync stamps lastSyncedAt on an account. Returns false when the
// account no longer exists (deleted mid-sync); callers treat that as
// best-effort and ignore it.
func (s *Store) TouchAccountSync(id, syncedAt string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts[i].LastSyncedAt = syncedAt
			return true
		}
	}
	return false
}

// AppendSyncRecord adds a record to the append-only sync history.
func (s *Store) AppendSyncRecord(rec BankSync) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncHistory = append(s.syncHistory, rec)
}

// UpdateSyncRecord applies fn to the record with the given id, atomically
// under the store lock. Returns false when no such record exists.
func (s *Store) UpdateSyncRecord(id string, fn func(*BankSync)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.syncHistory {
		if s.syncHistory[i].ID == id {
			fn(&s.syncHistory[i])
			return true
		}
	}
	return false
}

// SyncHistory returns a copy of the sync history.
func (s *Store) SyncHistory() []BankSync {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BankSync, len(s.syncHistory))
	copy(out, s.syncHistory)
	return out
}
