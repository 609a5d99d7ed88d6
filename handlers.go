package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"expense-dashboard-backend/web3cache"
)

// Server bundles the injected dependencies every handler needs. redis may be
// nil, in which case response caching is disabled.
type Server struct {
	store  *Store
	engine *SyncEngine
	web3   *web3cache.Cache
	redis  *redis.Client
}

// NewServer wires a server around the given store.
func NewServer(store *Store, redisClient *redis.Client) *Server {
	return &Server{
		store:  store,
		engine: NewSyncEngine(store),
		web3:   web3cache.New(),
		redis:  redisClient,
	}
}

// transactionsResponse is the full payload for GET /api/transactions.
type transactionsResponse struct {
	Transactions      []Transaction                `json:"transactions"`
	Summary           TransactionSummary           `json:"summary"`
	CategoryBreakdown map[string]CategoryBreakdown `json:"categoryBreakdown"`
	MonthlyData       map[string]MonthlyBreakdown  `json:"monthlyData"`
}

// healthCheck handles the health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "expense-dashboard-backend",
		"cache":   s.web3.HealthCheck(),
	})
}

// getTransactions returns all transactions plus summary, category and
// monthly breakdowns, with optional Redis response caching.
func (s *Server) getTransactions(c *gin.Context) {
	ctx := context.Background()

	// Try to get from cache
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, "transactions").Result()
		if err == nil {
			var resp transactionsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	transactions := s.store.Transactions()
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date > transactions[j].Date
	})

	summary := TransactionSummary{TransactionCount: len(transactions)}
	categoryBreakdown := make(map[string]CategoryBreakdown)
	monthlyData := make(map[string]MonthlyBreakdown)

	for _, t := range transactions {
		cb := categoryBreakdown[t.Category]
		cb.Count++
		if t.Type == "income" {
			summary.TotalIncome += t.Amount
			cb.Income += t.Amount
		} else {
			summary.TotalExpenses += t.Amount
			cb.Expense += t.Amount
		}
		categoryBreakdown[t.Category] = cb

		if d, err := time.Parse("2006-01-02", t.Date); err == nil {
			month := d.Format("Jan")
			md := monthlyData[month]
			if t.Type == "income" {
				md.Income += t.Amount
			} else {
				md.Expense += t.Amount
			}
			monthlyData[month] = md
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpenses

	resp := transactionsResponse{
		Transactions:      transactions,
		Summary:           summary,
		CategoryBreakdown: categoryBreakdown,
		MonthlyData:       monthlyData,
	}

	// Cache for 60 seconds
	if s.redis != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redis.SetEx(ctx, "transactions", data, 60*time.Second)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// addTransaction creates a new transaction
func (s *Server) addTransaction(c *gin.Context) {
	var t Transaction
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// IDs are always server-assigned.
	t.ID = ""
	t.CreatedAt = ""
	created := s.store.AddTransaction(t)

	s.invalidateTransactionCache()
	c.JSON(http.StatusCreated, created)
}

// deleteTransaction removes a transaction by ID
func (s *Server) deleteTransaction(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction ID required"})
		return
	}

	s.store.DeleteTransaction(id)
	s.invalidateTransactionCache()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// staticCategories is the fixed category list offered by the dashboard.
var staticCategories = []Category{
	{ID: "1", Name: "Salary", Type: "income"},
	{ID: "2", Name: "Freelance", Type: "income"},
	{ID: "3", Name: "Investment", Type: "income"},
	{ID: "4", Name: "Other Income", Type: "income"},
	{ID: "5", Name: "Rent", Type: "expense"},
	{ID: "6", Name: "Groceries", Type: "expense"},
	{ID: "7", Name: "Utilities", Type: "expense"},
	{ID: "8", Name: "Transportation", Type: "expense"},
	{ID: "9", Name: "Entertainment", Type: "expense"},
	{ID: "10", Name: "Healthcare", Type: "expense"},
	{ID: "11", Name: "Shopping", Type: "expense"},
	{ID: "12", Name: "Other", Type: "expense"},
}

// getCategories retrieves the fixed category list
func (s *Server) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, staticCategories)
}
