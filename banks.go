package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// createBankRequest mirrors the POST /api/banks body. IsActive is a pointer
// so that an omitted field defaults to true while an explicit false sticks.
type createBankRequest struct {
	BankName      string  `json:"bankName"`
	AccountName   string  `json:"accountName"`
	AccountNumber string  `json:"accountNumber"`
	AccountType   string  `json:"accountType"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	IsActive      *bool   `json:"isActive"`
}

// patchBankRequest is the PATCH /api/banks body: the target id plus any
// subset of mutable fields.
type patchBankRequest struct {
	ID string `json:"id"`
	AccountPatch
}

// syncRequest is the POST /api/banks/sync body.
type syncRequest struct {
	AccountID string `json:"accountId"`
}

// getBanks lists linked accounts, most recently linked first.
func (s *Server) getBanks(c *gin.Context) {
	accounts := s.store.Accounts()
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].LinkedAt > accounts[j].LinkedAt
	})
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// addBank links a new account.
func (s *Server) addBank(c *gin.Context) {
	var req createBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := BankAccount{
		BankName:      req.BankName,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
		Balance:       req.Balance,
		Currency:      req.Currency,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if account.Currency == "" {
		account.Currency = "USD"
	}

	created := s.store.AddAccount(account)
	c.JSON(http.StatusCreated, created)
}

// patchBank merges updates into an existing account.
func (s *Server) patchBank(c *gin.Context) {
	var req patchBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account ID required"})
		return
	}

	account, ok := s.store.PatchAccount(req.ID, req.AccountPatch)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// deleteBank unlinks an account. Synced transactions and sync history for
// the account survive; nothing cascades.
func (s *Server) deleteBank(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account ID required"})
		return
	}

	s.store.DeleteAccount(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// syncBank runs one mock bank sync for an account.
func (s *Server) syncBank(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AccountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account ID required"})
		return
	}

	batch, err := s.engine.Sync(req.AccountID)

	// Either outcome rewrote the sync record and possibly the transaction
	// list, so derived response caches are stale.
	s.invalidateTransactionCache()
	s.invalidateSyncHistoryCache()

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"transactionsSynced": len(batch),
		"transactions":       batch,
	})
}

// getSyncHistory lists sync records, most recent first, with optional Redis
// response caching.
func (s *Server) getSyncHistory(c *gin.Context) {
	ctx := context.Background()

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, "sync-history").Result()
		if err == nil {
			var history []BankSync
			if err := json.Unmarshal([]byte(cached), &history); err == nil {
				c.JSON(http.StatusOK, gin.H{"history": history})
				return
			}
		}
	}

	history := s.store.SyncHistory()
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].LastSyncTime > history[j].LastSyncTime
	})

	if s.redis != nil {
		if data, err := json.Marshal(history); err == nil {
			s.redis.SetEx(ctx, "sync-history", data, 30*time.Second)
		}
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
