package main

// Transaction is a single income or expense entry. Bank-synced entries carry
// the bank* fields; manually entered ones leave them empty.
type Transaction struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"` // "income" or "expense"
	Amount            float64 `json:"amount"`
	Category          string  `json:"category"`
	Description       string  `json:"description"`
	Date              string  `json:"date"` // YYYY-MM-DD
	CreatedAt         string  `json:"createdAt"`
	BankAccountID     string  `json:"bankAccountId,omitempty"`
	PaymentMethod     string  `json:"paymentMethod,omitempty"`
	MerchantName      string  `json:"merchantName,omitempty"`
	Location          string  `json:"location,omitempty"`
	IsAutoSync        bool    `json:"isAutoSync,omitempty"`
	BankTransactionID string  `json:"bankTransactionId,omitempty"`
}

// Category is a fixed classification bucket for transactions.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "income" or "expense"
}

// BankAccount is a linked (mock) bank account.
type BankAccount struct {
	ID            string  `json:"id"`
	BankName      string  `json:"bankName"`
	AccountName   string  `json:"accountName"`
	AccountNumber string  `json:"accountNumber"` // last 4 digits only
	AccountType   string  `json:"accountType"`   // checking, savings, credit_card, investment
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	IsActive      bool    `json:"isActive"`
	LastSyncedAt  string  `json:"lastSyncedAt,omitempty"`
	LinkedAt      string  `json:"linkedAt"`
}

// Sync status values for BankSync records.
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// BankSync records one sync invocation for an account. History is
// append-only; a record is rewritten in place exactly once, at completion.
type BankSync struct {
	ID                 string `json:"id"`
	BankAccountID      string `json:"bankAccountId"`
	Status             string `json:"status"`
	LastSyncTime       string `json:"lastSyncTime,omitempty"`
	TransactionsSynced int    `json:"transactionsSynced"`
	Error              string `json:"error,omitempty"`
}

// TransactionSummary aggregates the full transaction list.
type TransactionSummary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

// CategoryBreakdown accumulates per-category totals.
type CategoryBreakdown struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Count   int     `json:"count"`
}

// MonthlyBreakdown accumulates per-month totals keyed by short month name.
type MonthlyBreakdown struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// BlockchainTransaction is an on-chain transfer as shown in the dashboard's
// transaction history widget.
type BlockchainTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Value       string  `json:"value"`
	Token       string  `json:"token"`
	Timestamp   float64 `json:"timestamp"` // unix seconds
	Status      string  `json:"status"`    // pending, confirmed
	Type        string  `json:"type,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// GasEstimate is a mock fee quote for a prospective transaction.
type GasEstimate struct {
	GasLimit             string  `json:"gasLimit"`
	GasPrice             string  `json:"gasPrice"`
	MaxFeePerGas         string  `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string  `json:"maxPriorityFeePerGas"`
	EstimatedCostETH     string  `json:"estimatedCostETH"`
	EstimatedCostUSD     float64 `json:"estimatedCostUSD"`
	ChainID              string  `json:"chainId"`
}

// TokenBalance is one ERC-20 holding in a wallet snapshot.
type TokenBalance struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Balance  string  `json:"balance"`
	Decimals int     `json:"decimals"`
	Address  string  `json:"address"`
	ValueUSD float64 `json:"valueUSD"`
}

// NFTReceiptMetadata holds the expense details embedded in a receipt NFT.
type NFTReceiptMetadata struct {
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Timestamp   float64 `json:"timestamp"`
	Merchant    string  `json:"merchant"`
}

// NFTReceipt is a minted proof-of-expense token.
type NFTReceipt struct {
	TokenID         string             `json:"tokenId"`
	Owner           string             `json:"owner"`
	TransactionHash string             `json:"transactionHash"`
	Metadata        NFTReceiptMetadata `json:"metadata"`
	ImageURL        string             `json:"imageUrl"`
	MintedAt        string             `json:"mintedAt,omitempty"`
}
