// Package postgres implements the LedgerStore against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

// Store wraps a *sql.DB opened with the postgres driver.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListAccounts(ctx context.Context, tenantID, companyID string, activeOnly bool) ([]model.Account, error) {
	const query = `SELECT id, tenant_id, company_id, code, name, account_type, active, reconciled
		FROM accounts
		WHERE tenant_id = $1 AND company_id = $2 AND ($3 = false OR active = true)
		ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.TenantID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Active, &a.Reconciled); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) ListJournalLines(ctx context.Context, tenantID, companyID, accountID string, postedOnly bool, asOf time.Time) ([]model.JournalLine, error) {
	const query = `SELECT l.id, l.entry_id, l.account_id, a.code,
			COALESCE(l.debit, 0), COALESCE(l.credit, 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.id = l.account_id
		WHERE e.tenant_id = $1 AND e.company_id = $2 AND l.account_id = $3
			AND e.entry_date <= $4
			AND ($5 = false OR e.status = 'POSTED')
		ORDER BY e.entry_date, l.id`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, accountID, asOf, postedOnly)
	if err != nil {
		return nil, fmt.Errorf("listing journal lines: %w", err)
	}
	defer rows.Close()

	var lines []model.JournalLine
	for rows.Next() {
		var l model.JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scanning journal line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *Store) ListJournalEntries(ctx context.Context, tenantID, companyID string, statuses []string, from, to time.Time) ([]model.JournalEntry, error) {
	const query = `SELECT e.id, e.tenant_id, e.company_id, e.entry_date, e.status, COALESCE(e.memo, ''),
			l.id, l.account_id, a.code, COALESCE(l.debit, 0), COALESCE(l.credit, 0)
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.id
		JOIN accounts a ON a.id = l.account_id
		WHERE e.tenant_id = $1 AND e.company_id = $2
			AND e.entry_date >= $3 AND e.entry_date <= $4
			AND ($5::text[] IS NULL OR e.status = ANY($5))
		ORDER BY e.entry_date, e.id, l.id`

	var statusArg interface{}
	if statuses != nil {
		statusArg = pq.Array(statuses)
	}

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, from, to, statusArg)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	index := make(map[string]int)
	for rows.Next() {
		var e model.JournalEntry
		var l model.JournalLine
		if err := rows.Scan(&e.ID, &e.TenantID, &e.CompanyID, &e.Date, &e.Status, &e.Memo,
			&l.ID, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		l.EntryID = e.ID
		i, seen := index[e.ID]
		if !seen {
			index[e.ID] = len(entries)
			e.Lines = []model.JournalLine{l}
			entries = append(entries, e)
			continue
		}
		entries[i].Lines = append(entries[i].Lines, l)
	}
	return entries, rows.Err()
}

func (s *Store) ListInvoices(ctx context.Context, tenantID, companyID string, from, to time.Time) ([]model.Invoice, error) {
	const query = `SELECT id, tenant_id, company_id, issue_date, due_date,
			COALESCE(total, 0), COALESCE(balance, 0), status
		FROM invoices
		WHERE tenant_id = $1 AND company_id = $2 AND issue_date >= $3 AND issue_date <= $4
		ORDER BY issue_date`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (s *Store) ListRecentInvoices(ctx context.Context, tenantID, companyID string, limit int) ([]model.Invoice, error) {
	const query = `SELECT id, tenant_id, company_id, issue_date, due_date,
			COALESCE(total, 0), COALESCE(balance, 0), status
		FROM invoices
		WHERE tenant_id = $1 AND company_id = $2
		ORDER BY issue_date DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func scanInvoices(rows *sql.Rows) ([]model.Invoice, error) {
	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.CompanyID, &inv.IssueDate, &inv.DueDate,
			&inv.Total, &inv.Balance, &inv.Status); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *Store) ListExpenses(ctx context.Context, tenantID, companyID string, from, to time.Time) ([]model.Expense, error) {
	const query = `SELECT id, tenant_id, company_id, expense_date, COALESCE(amount, 0), COALESCE(category, '')
		FROM expenses
		WHERE tenant_id = $1 AND company_id = $2 AND expense_date >= $3 AND expense_date <= $4
		ORDER BY expense_date`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(&e.ID, &e.TenantID, &e.CompanyID, &e.Date, &e.Amount, &e.Category); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) ListTransactions(ctx context.Context, tenantID, companyID string, limit int) ([]model.Transaction, error) {
	const query = `SELECT id, tenant_id, company_id, txn_date, COALESCE(amount, 0), COALESCE(description, '')
		FROM transactions
		WHERE tenant_id = $1 AND company_id = $2
		ORDER BY txn_date DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, tenantID, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.TenantID, &t.CompanyID, &t.Date, &t.Amount, &t.Description); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (s *Store) CreateAnomaly(ctx context.Context, a model.AnomalyRecord) error {
	const query = `INSERT INTO anomalies (id, tenant_id, company_id, transaction_id, kind, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query, a.ID, a.TenantID, a.CompanyID, a.TransactionID, string(a.Kind), a.Confidence, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting anomaly: %w", err)
	}
	return nil
}

func (s *Store) CreateInsight(ctx context.Context, in model.InsightRecord) error {
	const query = `INSERT INTO insights (id, tenant_id, company_id, category, message, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query, in.ID, in.TenantID, in.CompanyID, in.Category, in.Message, string(in.Priority), in.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting insight: %w", err)
	}
	return nil
}

func (s *Store) CreatePrediction(ctx context.Context, p model.PredictionRecord) error {
	const query = `INSERT INTO predictions (id, tenant_id, company_id, prediction_type, predicted, confidence_low, confidence_high, target_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query, p.ID, p.TenantID, p.CompanyID, p.Type, p.Predicted, p.ConfidenceLow, p.ConfidenceHigh, p.TargetDate, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting prediction: %w", err)
	}
	return nil
}

func (s *Store) CreateRecommendation(ctx context.Context, r model.RecommendationRecord) error {
	const query = `INSERT INTO recommendations (id, tenant_id, company_id, recommendation_type, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query, r.ID, r.TenantID, r.CompanyID, r.Type, r.Message, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting recommendation: %w", err)
	}
	return nil
}

func (s *Store) DeleteInsightsMatching(ctx context.Context, tenantID, companyID string, patterns []string) (int, error) {
	const query = `DELETE FROM insights
		WHERE tenant_id = $1 AND company_id = $2 AND message LIKE ANY($3)`

	likes := make([]string, len(patterns))
	for i, p := range patterns {
		likes[i] = "%" + p + "%"
	}

	res, err := s.db.ExecContext(ctx, query, tenantID, companyID, pq.Array(likes))
	if err != nil {
		return 0, fmt.Errorf("deleting insights: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting insights: %w", err)
	}
	return int(n), nil
}

var _ store.LedgerStore = (*Store)(nil)
