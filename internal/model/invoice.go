package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a receivable document read from the ledger store.
type Invoice struct {
	ID        string
	TenantID  string
	CompanyID string
	IssueDate time.Time
	DueDate   time.Time
	Total     decimal.Decimal
	Balance   decimal.Decimal // outstanding amount
	Status    string
}

// Expense is a cost document read from the ledger store.
type Expense struct {
	ID        string
	TenantID  string
	CompanyID string
	Date      time.Time
	Amount    decimal.Decimal
	Category  string
}

// Transaction is a raw money movement used by anomaly scanning.
type Transaction struct {
	ID          string
	TenantID    string
	CompanyID   string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}
