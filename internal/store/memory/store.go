// Package memory provides an in-memory LedgerStore used by tests and local
// runs. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

// Store holds ledger data in slices, in insertion order.
type Store struct {
	mu sync.Mutex

	accounts     []model.Account
	entries      []model.JournalEntry
	invoices     []model.Invoice
	expenses     []model.Expense
	transactions []model.Transaction

	anomalies       []model.AnomalyRecord
	insights        []model.InsightRecord
	predictions     []model.PredictionRecord
	recommendations []model.RecommendationRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// AddAccount seeds an account.
func (s *Store) AddAccount(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, a)
}

// AddJournalEntry seeds a journal entry with its lines. Line account codes
// left empty are filled from the seeded accounts.
func (s *Store) AddJournalEntry(e model.JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range e.Lines {
		if l.AccountCode == "" {
			for _, a := range s.accounts {
				if a.ID == l.AccountID {
					e.Lines[i].AccountCode = a.Code
					break
				}
			}
		}
		if l.EntryID == "" {
			e.Lines[i].EntryID = e.ID
		}
	}
	s.entries = append(s.entries, e)
}

// AddInvoice seeds an invoice.
func (s *Store) AddInvoice(inv model.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, inv)
}

// AddExpense seeds an expense.
func (s *Store) AddExpense(e model.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
}

// AddTransaction seeds a transaction.
func (s *Store) AddTransaction(t model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
}

func scoped(tenantID, companyID, rowTenant, rowCompany string) bool {
	return rowTenant == tenantID && rowCompany == companyID
}

func (s *Store) ListAccounts(_ context.Context, tenantID, companyID string, activeOnly bool) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Account
	for _, a := range s.accounts {
		if !scoped(tenantID, companyID, a.TenantID, a.CompanyID) {
			continue
		}
		if activeOnly && !a.Active {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) ListJournalLines(_ context.Context, tenantID, companyID, accountID string, postedOnly bool, asOf time.Time) ([]model.JournalLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.JournalLine
	for _, e := range s.entries {
		if !scoped(tenantID, companyID, e.TenantID, e.CompanyID) {
			continue
		}
		if postedOnly && e.Status != model.StatusPosted {
			continue
		}
		if e.Date.After(asOf) {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (s *Store) ListJournalEntries(_ context.Context, tenantID, companyID string, statuses []string, from, to time.Time) ([]model.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.JournalEntry
	for _, e := range s.entries {
		if !scoped(tenantID, companyID, e.TenantID, e.CompanyID) {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if statuses != nil && !containsStatus(statuses, e.Status) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *Store) ListInvoices(_ context.Context, tenantID, companyID string, from, to time.Time) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Invoice
	for _, inv := range s.invoices {
		if !scoped(tenantID, companyID, inv.TenantID, inv.CompanyID) {
			continue
		}
		if inv.IssueDate.Before(from) || inv.IssueDate.After(to) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (s *Store) ListRecentInvoices(_ context.Context, tenantID, companyID string, limit int) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Invoice
	for _, inv := range s.invoices {
		if scoped(tenantID, companyID, inv.TenantID, inv.CompanyID) {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListExpenses(_ context.Context, tenantID, companyID string, from, to time.Time) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Expense
	for _, e := range s.expenses {
		if !scoped(tenantID, companyID, e.TenantID, e.CompanyID) {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListTransactions(_ context.Context, tenantID, companyID string, limit int) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Transaction
	for _, t := range s.transactions {
		if scoped(tenantID, companyID, t.TenantID, t.CompanyID) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CreateAnomaly(_ context.Context, a model.AnomalyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalies = append(s.anomalies, a)
	return nil
}

func (s *Store) CreateInsight(_ context.Context, in model.InsightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = append(s.insights, in)
	return nil
}

func (s *Store) CreatePrediction(_ context.Context, p model.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions = append(s.predictions, p)
	return nil
}

func (s *Store) CreateRecommendation(_ context.Context, r model.RecommendationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendations = append(s.recommendations, r)
	return nil
}

func (s *Store) DeleteInsightsMatching(_ context.Context, tenantID, companyID string, patterns []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.insights[:0]
	removed := 0
	for _, in := range s.insights {
		if scoped(tenantID, companyID, in.TenantID, in.CompanyID) && matchesAny(in.Message, patterns) {
			removed++
			continue
		}
		kept = append(kept, in)
	}
	s.insights = kept
	return removed, nil
}

func matchesAny(message string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(message, p) {
			return true
		}
	}
	return false
}

// Anomalies returns a copy of the persisted anomaly records.
func (s *Store) Anomalies() []model.AnomalyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AnomalyRecord, len(s.anomalies))
	copy(out, s.anomalies)
	return out
}

// Insights returns a copy of the persisted insight records.
func (s *Store) Insights() []model.InsightRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InsightRecord, len(s.insights))
	copy(out, s.insights)
	return out
}

// Predictions returns a copy of the persisted prediction records.
func (s *Store) Predictions() []model.PredictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PredictionRecord, len(s.predictions))
	copy(out, s.predictions)
	return out
}

// Recommendations returns a copy of the persisted recommendation records.
func (s *Store) Recommendations() []model.RecommendationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RecommendationRecord, len(s.recommendations))
	copy(out, s.recommendations)
	return out
}

var _ store.LedgerStore = (*Store)(nil)
