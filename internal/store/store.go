// Package store defines the query/command boundary to the ledger data store.
// The analytics core is read-only against ledger data; the only writes are
// the append-only generator records and the narrowly-scoped insight cleanup.
package store

import (
	"context"
	"time"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
)

// LedgerStore is the contract every backing store implements. Listing methods
// return rows scoped to a tenant and company; create methods append records
// produced by the generators.
type LedgerStore interface {
	// ListAccounts returns accounts for a company, optionally active only,
	// ordered by account code.
	ListAccounts(ctx context.Context, tenantID, companyID string, activeOnly bool) ([]model.Account, error)

	// ListJournalLines returns the lines of one account whose owning entry is
	// dated on or before asOf. When postedOnly is set, only entries with
	// status exactly POSTED are included.
	ListJournalLines(ctx context.Context, tenantID, companyID, accountID string, postedOnly bool, asOf time.Time) ([]model.JournalLine, error)

	// ListJournalEntries returns entries (with lines joined) whose status is
	// in statuses and whose date falls in [from, to]. A nil statuses slice
	// matches every status.
	ListJournalEntries(ctx context.Context, tenantID, companyID string, statuses []string, from, to time.Time) ([]model.JournalEntry, error)

	// ListInvoices returns invoices issued in [from, to].
	ListInvoices(ctx context.Context, tenantID, companyID string, from, to time.Time) ([]model.Invoice, error)

	// ListRecentInvoices returns up to limit invoices, newest issue date first.
	ListRecentInvoices(ctx context.Context, tenantID, companyID string, limit int) ([]model.Invoice, error)

	// ListExpenses returns expenses dated in [from, to].
	ListExpenses(ctx context.Context, tenantID, companyID string, from, to time.Time) ([]model.Expense, error)

	// ListTransactions returns up to limit transactions, newest first.
	ListTransactions(ctx context.Context, tenantID, companyID string, limit int) ([]model.Transaction, error)

	CreateAnomaly(ctx context.Context, a model.AnomalyRecord) error
	CreateInsight(ctx context.Context, in model.InsightRecord) error
	CreatePrediction(ctx context.Context, p model.PredictionRecord) error
	CreateRecommendation(ctx context.Context, r model.RecommendationRecord) error

	// DeleteInsightsMatching removes prior insights whose message contains any
	// of the given substrings, returning the number removed.
	DeleteInsightsMatching(ctx context.Context, tenantID, companyID string, patterns []string) (int, error)
}
