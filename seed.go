package main

import (
	"time"
)

// seedDemoData preloads a linked demo account and a month of transactions
// for presentations. Idempotent: it only runs against a store that has no
// linked accounts yet.
func seedDemoData(store *Store) error {
	if len(store.Accounts()) > 0 {
		return nil
	}

	account := store.AddAccount(BankAccount{
		BankName:      "Chase Bank",
		AccountName:   "Everyday Checking",
		AccountNumber: "4821",
		AccountType:   "checking",
		Balance:       5230.18,
		Currency:      "USD",
		IsActive:      true,
	})

	now := time.Now().UTC()
	created := now.Format(time.RFC3339)
	date := func(daysBack int) string {
		return now.AddDate(0, 0, -daysBack).Format("2006-01-02")
	}

	demo := []Transaction{
		{Type: "income", Amount: 3200.00, Category: "Salary", Description: "Monthly Salary", Date: date(28)},
		{Type: "income", Amount: 850.00, Category: "Freelance", Description: "Freelance: Landing Page", Date: date(25)},
		{Type: "expense", Amount: 1500.00, Category: "Rent", Description: "Rent - Apartment", Date: date(24)},
		{Type: "expense", Amount: 120.45, Category: "Utilities", Description: "Utilities - Electricity", Date: date(22)},
		{Type: "expense", Amount: 96.72, Category: "Groceries", Description: "Groceries - Whole Foods", Date: date(20)},
		{Type: "expense", Amount: 45.00, Category: "Transportation", Description: "Subway Pass", Date: date(19)},
		{Type: "expense", Amount: 28.50, Category: "Entertainment", Description: "Movie Night", Date: date(16)},
		{Type: "expense", Amount: 64.11, Category: "Groceries", Description: "Groceries - Trader Joes", Date: date(14)},
		{Type: "income", Amount: 600.00, Category: "Freelance", Description: "Freelance: Dashboard Charts", Date: date(13)},
		{Type: "expense", Amount: 60.00, Category: "Utilities", Description: "Utilities - Internet", Date: date(11)},
		{Type: "expense", Amount: 140.00, Category: "Entertainment", Description: "Concert Tickets", Date: date(8)},
		{Type: "expense", Amount: 132.39, Category: "Groceries", Description: "Groceries - Costco", Date: date(6)},
		{Type: "expense", Amount: 22.30, Category: "Transportation", Description: "Rideshare", Date: date(4)},
		{Type: "expense", Amount: 54.80, Category: "Entertainment", Description: "Dinner Out", Date: date(1)},
	}

	for _, t := range demo {
		t.BankAccountID = account.ID
		t.CreatedAt = created
		store.AddTransaction(t)
	}

	return nil
}
