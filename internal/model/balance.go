package model

import "github.com/shopspring/decimal"

// AccountBalance is the derived debit/credit position of a single account as
// of an instant. It is recomputed on every query and never persisted, because
// ledger state may change between calls.
type AccountBalance struct {
	AccountID   string
	AccountCode string
	AccountName string
	AccountType string // declared type label, kept for section filtering
	Category    Category
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Net         decimal.Decimal // debit minus credit
}
