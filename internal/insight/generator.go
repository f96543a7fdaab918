// Package insight derives financial insights over the trailing 30 days of
// invoices, expenses, and posted journal activity.
package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

// windowDays is the trailing analysis window.
const windowDays = 30

// stalePatterns match insight texts produced by a historical zero-value bug.
// Matching records are deleted before each run so reruns stay idempotent.
var stalePatterns = []string{"losing $0", "$0/month", "losing $0/month"}

// Generator produces insight records for one company.
type Generator struct {
	store store.LedgerStore
	pub   events.Publisher
	log   *runlog.Logger
	now   func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(st store.LedgerStore, pub events.Publisher, log *runlog.Logger) *Generator {
	return &Generator{store: st, pub: pub, log: log, now: time.Now}
}

// Generate computes trailing-window revenue and expenses and emits the
// triggered insights. Every failure after scope validation is recovered
// locally: a data-retrieval failure yields a single fallback insight, and
// cleanup or persistence failures are logged and swallowed.
func (g *Generator) Generate(ctx context.Context, tenantID, companyID string) ([]model.InsightRecord, error) {
	if tenantID == "" || companyID == "" {
		return nil, ledger.ErrMissingScope
	}

	now := g.now().UTC()
	start := now.AddDate(0, 0, -windowDays)

	revenue, expenses, invoices, err := g.windowTotals(ctx, tenantID, companyID, start, now)
	if err != nil {
		g.log.Record("insight", tenantID, companyID, runlog.OutcomeRecovered, err.Error())
		fallback := g.record(tenantID, companyID, "system", "Unable to analyze financial data for the last 30 days", model.PriorityLow, now)
		g.cleanupStale(ctx, tenantID, companyID)
		g.persist(ctx, fallback)
		return []model.InsightRecord{fallback}, nil
	}

	insights := g.derive(tenantID, companyID, revenue, expenses, invoices, now)

	// Remove stale zero-value insights from previous runs before writing the
	// new batch. Cleanup failures only hit the run log.
	g.cleanupStale(ctx, tenantID, companyID)
	for _, in := range insights {
		g.persist(ctx, in)
	}

	g.log.Record("insight", tenantID, companyID, runlog.OutcomeOK, fmt.Sprintf("%d insights", len(insights)))
	if err := g.pub.Publish(ctx, events.TopicInsights, events.RunSummary{
		Component: "insight", TenantID: tenantID, CompanyID: companyID,
		Produced: len(insights), At: now,
	}); err != nil {
		g.log.Record("insight", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("publishing summary: %v", err))
	}
	return insights, nil
}

// windowTotals sums invoice revenue and expense spend over the window,
// adjusted by posted journal lines: account codes starting with 4 move
// revenue (credit up, debit down), codes 5-9 move expenses (debit up, credit
// down).
func (g *Generator) windowTotals(ctx context.Context, tenantID, companyID string, start, end time.Time) (revenue, expenses decimal.Decimal, invoices []model.Invoice, err error) {
	invoices, err = g.store.ListInvoices(ctx, tenantID, companyID, start, end)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, fmt.Errorf("listing invoices: %w", err)
	}
	revenue = decimal.Zero
	for _, inv := range invoices {
		revenue = revenue.Add(inv.Total)
	}

	expenseRows, err := g.store.ListExpenses(ctx, tenantID, companyID, start, end)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, fmt.Errorf("listing expenses: %w", err)
	}
	expenses = decimal.Zero
	for _, e := range expenseRows {
		expenses = expenses.Add(e.Amount)
	}

	entries, err := g.store.ListJournalEntries(ctx, tenantID, companyID, model.PostedStatuses, start, end)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, fmt.Errorf("listing journal entries: %w", err)
	}
	for _, e := range entries {
		for _, l := range e.Lines {
			switch leadingDigit(l.AccountCode) {
			case '4':
				revenue = revenue.Add(l.Credit).Sub(l.Debit)
			case '5', '6', '7', '8', '9':
				expenses = expenses.Add(l.Debit).Sub(l.Credit)
			}
		}
	}
	return revenue, expenses, invoices, nil
}

func leadingDigit(code string) byte {
	if code == "" {
		return 0
	}
	return code[0]
}

// derive applies the insight rules; each triggers independently.
func (g *Generator) derive(tenantID, companyID string, revenue, expenses decimal.Decimal, invoices []model.Invoice, now time.Time) []model.InsightRecord {
	var out []model.InsightRecord

	if in, ok := g.revenueTrend(tenantID, companyID, invoices, now); ok {
		out = append(out, in)
	}

	if revenue.IsPositive() {
		margin := revenue.Sub(expenses).Div(revenue).Mul(decimal.NewFromInt(100))
		if margin.LessThan(decimal.NewFromInt(10)) {
			out = append(out, g.record(tenantID, companyID, "expenses",
				fmt.Sprintf("Profit margin is %s%%, below the 10%% healthy threshold", margin.StringFixed(1)),
				model.PriorityHigh, now))
		}
	}

	net := revenue.Sub(expenses)
	if net.IsNegative() {
		out = append(out, g.record(tenantID, companyID, "financial_crisis",
			fmt.Sprintf("Business is losing $%s/month", net.Abs().StringFixed(2)),
			model.PriorityHigh, now))
	}

	switch {
	case net.IsNegative():
		out = append(out, g.record(tenantID, companyID, "cashflow",
			fmt.Sprintf("Cash outflow exceeds inflow by $%s over the last 30 days", net.Abs().StringFixed(2)),
			model.PriorityMedium, now))
	case net.IsPositive():
		out = append(out, g.record(tenantID, companyID, "financial",
			fmt.Sprintf("Positive cash flow of $%s over the last 30 days", net.StringFixed(2)),
			model.PriorityMedium, now))
	}

	if revenue.IsZero() && expenses.IsZero() {
		out = append(out, g.record(tenantID, companyID, "system",
			"No financial activity recorded in the last 30 days",
			model.PriorityLow, now))
	}

	return out
}

// revenueTrend compares the first and last calendar months of invoice data.
// It needs at least two distinct months and fires when the month-over-month
// change exceeds 20% of the average monthly revenue.
func (g *Generator) revenueTrend(tenantID, companyID string, invoices []model.Invoice, now time.Time) (model.InsightRecord, bool) {
	monthly := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		key := inv.IssueDate.Format("2006-01")
		monthly[key] = monthly[key].Add(inv.Total)
	}
	if len(monthly) < 2 {
		return model.InsightRecord{}, false
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	first := monthly[months[0]]
	last := monthly[months[len(months)-1]]
	trend := last.Sub(first)

	total := decimal.Zero
	for _, v := range monthly {
		total = total.Add(v)
	}
	average := total.Div(decimal.NewFromInt(int64(len(monthly))))

	if !trend.GreaterThan(average.Mul(decimal.RequireFromString("0.2"))) {
		return model.InsightRecord{}, false
	}

	growth := decimal.NewFromInt(100)
	if first.IsPositive() {
		growth = trend.Div(first).Mul(decimal.NewFromInt(100))
	}
	return g.record(tenantID, companyID, "revenue",
		fmt.Sprintf("Revenue is up %s%% since %s", growth.StringFixed(1), months[0]),
		model.PriorityHigh, now), true
}

func (g *Generator) record(tenantID, companyID, category, message string, priority model.InsightPriority, now time.Time) model.InsightRecord {
	return model.InsightRecord{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		CompanyID: companyID,
		Category:  category,
		Message:   message,
		Priority:  priority,
		CreatedAt: now,
	}
}

func (g *Generator) cleanupStale(ctx context.Context, tenantID, companyID string) {
	if _, err := g.store.DeleteInsightsMatching(ctx, tenantID, companyID, stalePatterns); err != nil {
		g.log.Record("insight", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("cleaning stale insights: %v", err))
	}
}

func (g *Generator) persist(ctx context.Context, in model.InsightRecord) {
	if err := g.store.CreateInsight(ctx, in); err != nil {
		g.log.Record("insight", in.TenantID, in.CompanyID, runlog.OutcomeRecovered, fmt.Sprintf("persisting insight: %v", err))
	}
}

// IsStale reports whether an insight message matches the known stale
// zero-value patterns.
func IsStale(message string) bool {
	for _, p := range stalePatterns {
		if strings.Contains(message, p) {
			return true
		}
	}
	return false
}
