package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultSyncDelay simulates the latency of a real bank provider API.
const defaultSyncDelay = 2 * time.Second

// SyncEngine pulls (mock) transactions from a linked bank account into the
// store. Each invocation appends one BankSync record to the history and
// drives it syncing -> success or syncing -> failed. There is no idempotency:
// syncing the same account twice imports two independent batches.
type SyncEngine struct {
	store *Store

	// delay is the artificial provider latency injected before fabrication.
	delay time.Duration

	// generate produces the batch for an account. Replaceable in tests to
	// exercise the failure path.
	generate func(accountID string) ([]Transaction, error)
}

// NewSyncEngine returns an engine with the default delay and the canned
// transaction generator.
func NewSyncEngine(store *Store) *SyncEngine {
	return &SyncEngine{
		store:    store,
		delay:    defaultSyncDelay,
		generate: generateMockBankTransactions,
	}
}

// Sync runs one sync for accountID and returns the imported batch.
//
// On success the sync record is rewritten in place to success with the batch
// size and a fresh lastSyncTime, and the account's lastSyncedAt is stamped
// best-effort: if the account was deleted while the sync ran, the sync still
// reports success and the two timestamps diverge.
func (e *SyncEngine) Sync(accountID string) ([]Transaction, error) {
	rec := BankSync{
		ID:            uuid.NewString(),
		BankAccountID: accountID,
		Status:        SyncStatusSyncing,
		LastSyncTime:  nowISO(),
	}
	e.store.AppendSyncRecord(rec)

	time.Sleep(e.delay)

	batch, err := e.generate(accountID)
	if err != nil {
		e.store.UpdateSyncRecord(rec.ID, func(r *BankSync) {
			r.Status = SyncStatusFailed
			r.Error = err.Error()
			r.LastSyncTime = nowISO()
		})
		return nil, fmt.Errorf("bank sync for account %s: %w", accountID, err)
	}

	e.store.AddTransactions(batch)
	e.store.UpdateSyncRecord(rec.ID, func(r *BankSync) {
		r.Status = SyncStatusSuccess
		r.TransactionsSynced = len(batch)
		r.LastSyncTime = nowISO()
	})

	if !e.store.TouchAccountSync(accountID, nowISO()) {
		log.Printf("Warning: account %s missing after sync; lastSyncedAt not updated", accountID)
	}

	return batch, nil
}

// mockBankEntry is one row of the canned provider response.
type mockBankEntry struct {
	amount      float64
	description string
	merchant    string
	category    string
	txType      string
	location    string
}

var mockBankEntries = []mockBankEntry{
	{150.00, "Grocery Shopping", "Whole Foods Market", "Groceries", "expense", "San Francisco, CA"},
	{45.50, "Gas Station", "Shell", "Transportation", "expense", "Oakland, CA"},
	{3500.00, "Salary Deposit", "Company Inc", "Salary", "income", "Direct Deposit"},
	{89.99, "Online Shopping", "Amazon", "Shopping", "expense", "Online"},
	{25.00, "Coffee Shop", "Starbucks", "Food & Dining", "expense", "Berkeley, CA"},
}

// generateMockBankTransactions fabricates the fixed five-entry batch with
// randomized identifiers and dates spread over the past week. Income arrives
// by bank transfer, expenses by debit card.
func generateMockBankTransactions(accountID string) ([]Transaction, error) {
	now := time.Now().UTC()
	batch := make([]Transaction, 0, len(mockBankEntries))
	for _, m := range mockBankEntries {
		paymentMethod := "debit_card"
		if m.txType == "income" {
			paymentMethod = "bank_transfer"
		}
		daysBack := rand.Float64() * 7
		batch = append(batch, Transaction{
			ID:                fmt.Sprintf("bank_%d_%s", now.UnixMilli(), randomBase36(9)),
			Type:              m.txType,
			Amount:            m.amount,
			Category:          m.category,
			Description:       m.description,
			Date:              now.Add(-time.Duration(daysBack * float64(24*time.Hour))).Format("2006-01-02"),
			CreatedAt:         now.Format(time.RFC3339),
			BankAccountID:     accountID,
			PaymentMethod:     paymentMethod,
			MerchantName:      m.merchant,
			Location:          m.location,
			IsAutoSync:        true,
			BankTransactionID: "BTX" + strings.ToUpper(randomBase36(9)),
		})
	}
	return batch, nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
