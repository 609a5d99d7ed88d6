package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(store *Store) (*gin.Engine, *Server) {
	gin.SetMode(gin.TestMode)
	s := NewServer(store, nil)
	s.engine.delay = 0
	r := gin.New()
	registerRoutes(r, s)
	return r, s
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "healthy", body["status"])
}

func TestGetCategories(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var categories []Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.Len(t, categories, 12)
	assert.Equal(t, "Salary", categories[0].Name)
}

func TestGetTransactionsSummary(t *testing.T) {
	store := NewEmptyStore()
	store.AddTransaction(Transaction{Type: "income", Amount: 5000, Category: "Salary", Date: "2026-08-01"})
	store.AddTransaction(Transaction{Type: "expense", Amount: 1200, Category: "Rent", Date: "2026-08-05"})
	store.AddTransaction(Transaction{Type: "expense", Amount: 450, Category: "Groceries", Date: "2026-08-10"})
	r, _ := newTestServer(store)

	w := doJSON(t, r, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp transactionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 5000.0, resp.Summary.TotalIncome)
	assert.Equal(t, 1650.0, resp.Summary.TotalExpenses)
	assert.Equal(t, 3350.0, resp.Summary.Balance)
	assert.Equal(t, 3, resp.Summary.TransactionCount)

	// Sorted newest first.
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, "2026-08-10", resp.Transactions[0].Date)

	rent := resp.CategoryBreakdown["Rent"]
	assert.Equal(t, 1200.0, rent.Expense)
	assert.Equal(t, 1, rent.Count)

	aug := resp.MonthlyData["Aug"]
	assert.Equal(t, 5000.0, aug.Income)
	assert.Equal(t, 1650.0, aug.Expense)
}

func TestAddAndDeleteTransaction(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodPost, "/api/transactions", gin.H{
		"type":        "expense",
		"amount":      33.10,
		"category":    "Groceries",
		"description": "Corner store",
		"date":        "2026-08-27",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	w = doJSON(t, r, http.MethodDelete, "/api/transactions?id="+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])

	w = doJSON(t, r, http.MethodDelete, "/api/transactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBankAccountDefaults(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodPost, "/api/banks", gin.H{
		"bankName":      "Chase Bank",
		"accountName":   "Main",
		"accountNumber": "1234",
		"accountType":   "checking",
		"balance":       100,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var account BankAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "USD", account.Currency)
	assert.True(t, account.IsActive)
	assert.NotEmpty(t, account.LinkedAt)

	// An explicit false must stick.
	w = doJSON(t, r, http.MethodPost, "/api/banks", gin.H{
		"bankName": "Dormant Bank",
		"isActive": false,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))
	assert.False(t, account.IsActive)
}

func TestPatchBank(t *testing.T) {
	store := NewEmptyStore()
	account := store.AddAccount(BankAccount{BankName: "Chase Bank", Balance: 100, Currency: "USD"})
	r, _ := newTestServer(store)

	w := doJSON(t, r, http.MethodPatch, "/api/banks", gin.H{
		"id":      account.ID,
		"balance": 420.69,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var patched BankAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, 420.69, patched.Balance)
	assert.Equal(t, "Chase Bank", patched.BankName)

	w = doJSON(t, r, http.MethodPatch, "/api/banks", gin.H{"balance": 1.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/banks", gin.H{"id": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteBankRequiresID(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodDelete, "/api/banks", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncRequiresAccountID(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodPost, "/api/banks/sync", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Link an account, sync it, and walk the whole happy path the dashboard
// takes: 201 -> sync success with 5 imports -> history shows the record.
func TestBankSyncEndToEnd(t *testing.T) {
	r, _ := newTestServer(NewEmptyStore())

	w := doJSON(t, r, http.MethodPost, "/api/banks", gin.H{
		"bankName":      "Chase Bank",
		"accountName":   "Main",
		"accountNumber": "1234",
		"accountType":   "checking",
		"balance":       100,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var account BankAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))

	w = doJSON(t, r, http.MethodPost, "/api/banks/sync", gin.H{"accountId": account.ID})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["transactionsSynced"])
	assert.Len(t, body["transactions"], 5)

	w = doJSON(t, r, http.MethodGet, "/api/banks/sync-history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histResp struct {
		History []BankSync `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &histResp))
	require.NotEmpty(t, histResp.History)
	assert.Equal(t, SyncStatusSuccess, histResp.History[0].Status)
	assert.Equal(t, 5, histResp.History[0].TransactionsSynced)

	// The account now carries lastSyncedAt.
	w = doJSON(t, r, http.MethodGet, "/api/banks", nil)
	var banksResp struct {
		Accounts []BankAccount `json:"accounts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banksResp))
	require.Len(t, banksResp.Accounts, 1)
	assert.NotEmpty(t, banksResp.Accounts[0].LastSyncedAt)
}

func TestSyncFailureReturns500(t *testing.T) {
	store := NewEmptyStore()
	account := store.AddAccount(BankAccount{BankName: "Chase Bank"})
	r, s := newTestServer(store)
	s.engine.generate = func(string) ([]Transaction, error) {
		return nil, errors.New("provider timeout")
	}

	w := doJSON(t, r, http.MethodPost, "/api/banks/sync", gin.H{"accountId": account.ID})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "provider timeout")
}

// Deleting an account must leave its synced transactions reachable.
func TestDeleteBankLeavesTransactionsBehind(t *testing.T) {
	store := NewEmptyStore()
	r, _ := newTestServer(store)

	w := doJSON(t, r, http.MethodPost, "/api/banks", gin.H{"bankName": "Chase Bank"})
	require.Equal(t, http.StatusCreated, w.Code)
	var account BankAccount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &account))

	w = doJSON(t, r, http.MethodPost, "/api/banks/sync", gin.H{"accountId": account.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/banks?id="+account.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/transactions", nil)
	var resp transactionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Transactions, 5)
	for _, tx := range resp.Transactions {
		assert.Equal(t, account.ID, tx.BankAccountID)
	}
}
