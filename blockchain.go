package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ethAddressRe matches a 20-byte hex Ethereum address.
var ethAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func isValidEthAddress(addr string) bool {
	return ethAddressRe.MatchString(addr)
}

const hexDigits = "0123456789abcdef"

func randomHex(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return string(b)
}

// getBlockchainTransactions lists mock on-chain transactions for an address.
// The fabricated list is cached briefly so the history widget's polling
// doesn't rebuild it on every request.
func (s *Server) getBlockchainTransactions(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	v, err := s.web3.GetOrSet(c.Request.Context(), "chain-txs:"+address, func(ctx context.Context) (any, error) {
		now := float64(time.Now().Unix())
		return []BlockchainTransaction{
			{
				Hash:        "0x1234567890abcdef",
				From:        address,
				To:          "0xabcdef1234567890",
				Value:       "0.5",
				Token:       "ETH",
				Timestamp:   now,
				Status:      "confirmed",
				Type:        "expense",
				Category:    "Food",
				Description: "Restaurant payment",
			},
			{
				Hash:        "0xfedcba0987654321",
				From:        "0x9876543210fedcba",
				To:          address,
				Value:       "1.2",
				Token:       "ETH",
				Timestamp:   now - 3600,
				Status:      "confirmed",
				Type:        "income",
				Category:    "Salary",
				Description: "Freelance payment",
			},
		}, nil
	}, 15*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blockchain transactions"})
		return
	}

	transactions := v.([]BlockchainTransaction)
	total := len(transactions)
	if limit < total {
		transactions = transactions[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        total,
	})
}

// createBlockchainTransactionRequest is the POST body for a new transfer.
// Value arrives as a decimal string, the way wallets format it.
type createBlockchainTransactionRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	Token       string `json:"token"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// createBlockchainTransaction records a mock pending transfer. Addresses and
// value are validated strictly; garbage here used to flow straight into the
// history widget.
func (s *Server) createBlockchainTransaction(c *gin.Context) {
	var req createBlockchainTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.From == "" || req.To == "" || req.Value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if !isValidEthAddress(req.From) || !isValidEthAddress(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Ethereum address"})
		return
	}
	value, err := strconv.ParseFloat(req.Value, 64)
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value must be a positive number"})
		return
	}

	token := req.Token
	if token == "" {
		token = "ETH"
	}

	tx := BlockchainTransaction{
		Hash:        "0x" + randomHex(16),
		From:        req.From,
		To:          req.To,
		Value:       req.Value,
		Token:       token,
		Timestamp:   float64(time.Now().Unix()),
		Status:      "pending",
		Category:    req.Category,
		Description: req.Description,
	}

	// Cached histories for either address are stale now.
	s.web3.InvalidatePattern(regexp.MustCompile("^chain-txs:"))

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"transaction": tx,
	})
}

// gasEstimateRequest is the POST /api/blockchain/gas body.
type gasEstimateRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Value   string `json:"value"`
	Data    string `json:"data"`
	ChainID string `json:"chainId"`
}

// estimateGas returns a fixed mock fee quote. A payload with calldata gets
// the contract-call gas limit, a plain transfer gets 21000.
func (s *Server) estimateGas(c *gin.Context) {
	var req gasEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	chainID := req.ChainID
	if chainID == "" {
		chainID = "0x1"
	}

	estimate := GasEstimate{
		GasLimit:             "21000",
		GasPrice:             "25000000000", // 25 Gwei
		MaxFeePerGas:         "30000000000", // 30 Gwei
		MaxPriorityFeePerGas: "2000000000",  // 2 Gwei
		EstimatedCostETH:     "0.000525",
		EstimatedCostUSD:     1.05,
		ChainID:              chainID,
	}
	if req.Data != "" {
		estimate.GasLimit = "100000"
		estimate.EstimatedCostETH = "0.0025"
		estimate.EstimatedCostUSD = 5.0
	}

	c.JSON(http.StatusOK, estimate)
}

// contractState holds the canned per-contract dashboard data.
var contractState = map[string]gin.H{
	"expenseTracker": {
		"totalExpenses": "2547.89",
		"expenseCount":  42,
		"budget": gin.H{
			"monthlyLimit": "3000.00",
			"currentSpent": "1247.50",
			"remaining":    "1752.50",
		},
		"recentExpenses": []gin.H{
			{
				"id":          0,
				"amount":      "50.00",
				"category":    "Food",
				"description": "Groceries",
				"timestamp":   float64(time.Now().Unix()),
			},
		},
	},
	"tokenPayment": {
		"supportedTokens": []string{"USDC", "USDT", "DAI"},
		"paymentCount":    15,
		"totalVolume":     "5000.00",
	},
	"nftReceipt": {
		"mintedCount": 8,
		"receipts":    []gin.H{},
	},
}

// getContractState returns canned state for one of the demo contracts. An
// unknown contract name yields an empty object, not an error.
func (s *Server) getContractState(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}

	state, ok := contractState[c.Query("contract")]
	if !ok {
		state = gin.H{}
	}
	c.JSON(http.StatusOK, state)
}

// contractInteractRequest is the POST /api/contracts body.
type contractInteractRequest struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Params   any    `json:"params"`
}

// contractInteract acknowledges a mock contract call.
func (s *Server) contractInteract(c *gin.Context) {
	var req contractInteractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Contract == "" || req.Method == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Contract and method are required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"transactionHash": "0x" + randomHex(16),
		"message":         fmt.Sprintf("%s executed successfully on %s", req.Method, req.Contract),
		"data":            req.Params,
	})
}

// getNFTReceipts lists mock receipt NFTs owned by an address.
func (s *Server) getNFTReceipts(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}

	v, err := s.web3.GetOrSet(c.Request.Context(), "nft:"+address, func(ctx context.Context) (any, error) {
		now := float64(time.Now().Unix())
		return []NFTReceipt{
			{
				TokenID:         "1",
				Owner:           address,
				TransactionHash: "0xabc123",
				Metadata: NFTReceiptMetadata{
					Amount:      "50.00",
					Category:    "Food",
					Description: "Restaurant expense",
					Timestamp:   now,
					Merchant:    "Pizza Place",
				},
				ImageURL: "https://via.placeholder.com/300",
			},
			{
				TokenID:         "2",
				Owner:           address,
				TransactionHash: "0xdef456",
				Metadata: NFTReceiptMetadata{
					Amount:      "100.00",
					Category:    "Transport",
					Description: "Gas station",
					Timestamp:   now - 86400,
					Merchant:    "Shell",
				},
				ImageURL: "https://via.placeholder.com/300",
			},
		}, nil
	}, time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch NFT receipts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"receipts": v.([]NFTReceipt)})
}

// mintNFTReceiptRequest is the POST /api/nft/receipts body.
type mintNFTReceiptRequest struct {
	Address         string `json:"address"`
	Amount          string `json:"amount"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Merchant        string `json:"merchant"`
	TransactionHash string `json:"transactionHash"`
}

// mintNFTReceipt fabricates a minted receipt for an expense.
func (s *Server) mintNFTReceipt(c *gin.Context) {
	var req mintNFTReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Address == "" || req.Amount == "" || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	hash := req.TransactionHash
	if hash == "" {
		hash = "0x" + randomHex(16)
	}
	merchant := req.Merchant
	if merchant == "" {
		merchant = "Unknown"
	}

	receipt := NFTReceipt{
		TokenID:         strconv.Itoa(rand.Intn(10000)),
		Owner:           req.Address,
		TransactionHash: hash,
		Metadata: NFTReceiptMetadata{
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Timestamp:   float64(time.Now().Unix()),
			Merchant:    merchant,
		},
		ImageURL: "https://via.placeholder.com/300",
		MintedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// The owner's cached gallery no longer reflects reality.
	s.web3.Clear("nft:" + req.Address)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
		"message": "NFT receipt minted successfully",
	})
}

// getTokenBalances returns the fixed stablecoin holdings for an address.
func (s *Server) getTokenBalances(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}
	chainID := c.DefaultQuery("chainId", "0x1")

	v, err := s.web3.GetOrSet(c.Request.Context(), "tokens:"+address+":"+chainID, func(ctx context.Context) (any, error) {
		return []TokenBalance{
			{
				Symbol:   "USDC",
				Name:     "USD Coin",
				Balance:  "1000.50",
				Decimals: 6,
				Address:  "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				ValueUSD: 1000.50,
			},
			{
				Symbol:   "USDT",
				Name:     "Tether USD",
				Balance:  "500.25",
				Decimals: 6,
				Address:  "0xdAC17F958D2ee523a2206206994597C13D831ec7",
				ValueUSD: 500.25,
			},
			{
				Symbol:   "DAI",
				Name:     "Dai Stablecoin",
				Balance:  "250.75",
				Decimals: 18,
				Address:  "0x6B175474E89094C44Da98b954EedeAC495271d0F",
				ValueUSD: 250.75,
			},
		}, nil
	}, 30*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch token balances"})
		return
	}

	balances := v.([]TokenBalance)
	total := 0.0
	for _, b := range balances {
		total += b.ValueUSD
	}

	c.JSON(http.StatusOK, gin.H{
		"address":       address,
		"chainId":       chainID,
		"balances":      balances,
		"totalValueUSD": total,
	})
}

// getWallet returns a mock wallet snapshot.
func (s *Server) getWallet(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet address is required"})
		return
	}

	v, err := s.web3.GetOrSet(c.Request.Context(), "wallet:"+address, func(ctx context.Context) (any, error) {
		return gin.H{
			"address": address,
			"balance": "1.5234",
			"chainId": "0x1",
			"tokens": []gin.H{
				{"symbol": "USDC", "balance": "1000.50"},
				{"symbol": "USDT", "balance": "500.25"},
			},
			"nftReceipts": 5,
		}, nil
	}, 30*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet data"})
		return
	}

	c.JSON(http.StatusOK, v.(gin.H))
}

// walletActionRequest is the POST /api/wallet body.
type walletActionRequest struct {
	Address string `json:"address"`
	ChainID string `json:"chainId"`
	Action  string `json:"action"`
}

// walletAction acknowledges wallet connect/disconnect events.
func (s *Server) walletAction(c *gin.Context) {
	var req walletActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Action {
	case "connect":
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Wallet connected successfully",
			"address": req.Address,
			"chainId": req.ChainID,
		})
	case "disconnect":
		s.web3.Clear("wallet:" + req.Address)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Wallet disconnected successfully",
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
	}
}
