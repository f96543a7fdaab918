package model

// Category classifies an account into a statement section.
type Category string

const (
	CategoryAsset        Category = "asset"
	CategoryLiability    Category = "liability"
	CategoryEquity       Category = "equity"
	CategoryRevenue      Category = "revenue"
	CategoryExpense      Category = "expense"
	CategoryUnclassified Category = "unclassified"
)

// Account represents a chart-of-accounts entry. Accounts are owned by a
// company within a tenant and managed upstream; this service only reads them.
// Code conventionally starts with a digit signalling the section: 1 asset,
// 2 liability, 3 equity, 4 revenue, 5-9 expense.
type Account struct {
	ID         string
	TenantID   string
	CompanyID  string
	Code       string
	Name       string
	Type       string // free-text declared type label, e.g. "Current Asset"
	Active     bool
	Reconciled bool
}
