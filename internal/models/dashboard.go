package models

import "github.com/shopspring/decimal"

// DashboardStats holds the aggregated figures shown on the dashboard
// for the current calendar month.
type DashboardStats struct {
	TotalAssets        decimal.Decimal        `json:"total_assets"`        // Sum of balances over active wallets
	MonthlyIncome      decimal.Decimal        `json:"monthly_income"`      // Income sum for the current month
	MonthlyExpense     decimal.Decimal        `json:"monthly_expense"`     // Expense sum for the current month
	SavingsRate        int64                  `json:"savings_rate"`        // round((income-expense)/income*100), 0 when income is 0
	Month              string                 `json:"month"`               // Human-readable month, e.g. "January 2026"
	RecentTransactions []TransactionWithNames `json:"recent_transactions"` // Five most recent transactions, newest first
}
