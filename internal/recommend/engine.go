// Package recommend derives rule-based suggestions from trailing-90-day
// invoice and expense activity.
package recommend

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

// Recommendation types.
const (
	TypePaymentTiming       = "payment_timing"
	TypeCostCutting         = "cost_cutting"
	TypeRevenueOptimization = "revenue_optimization"
)

const (
	windowDays        = 90
	topExpenseCount   = 10
	recentInvoiceMax  = 20
	paymentRateTarget = 0.8
)

// Engine produces recommendation records for one company.
type Engine struct {
	store store.LedgerStore
	pub   events.Publisher
	log   *runlog.Logger
	now   func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(st store.LedgerStore, pub events.Publisher, log *runlog.Logger) *Engine {
	return &Engine{store: st, pub: pub, log: log, now: time.Now}
}

// Recommend runs the three rules independently; zero, one, or all may fire.
// A store failure stops further rules and returns whatever was already
// produced, never an error.
func (e *Engine) Recommend(ctx context.Context, tenantID, companyID string) ([]model.RecommendationRecord, error) {
	if tenantID == "" || companyID == "" {
		return nil, ledger.ErrMissingScope
	}

	now := e.now().UTC()
	start := now.AddDate(0, 0, -windowDays)
	var out []model.RecommendationRecord

	ok := true
	if rec, err := e.overdueInvoices(ctx, tenantID, companyID, start, now); err != nil {
		e.log.Record("recommend", tenantID, companyID, runlog.OutcomeRecovered, err.Error())
		ok = false
	} else if rec != nil {
		out = append(out, *rec)
	}

	if ok {
		if rec, err := e.highExpenses(ctx, tenantID, companyID, start, now); err != nil {
			e.log.Record("recommend", tenantID, companyID, runlog.OutcomeRecovered, err.Error())
			ok = false
		} else if rec != nil {
			out = append(out, *rec)
		}
	}

	if ok {
		if rec, err := e.lowPaymentRate(ctx, tenantID, companyID, now); err != nil {
			e.log.Record("recommend", tenantID, companyID, runlog.OutcomeRecovered, err.Error())
		} else if rec != nil {
			out = append(out, *rec)
		}
	}

	for _, rec := range out {
		if err := e.store.CreateRecommendation(ctx, rec); err != nil {
			e.log.Record("recommend", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("persisting recommendation: %v", err))
		}
	}

	e.log.Record("recommend", tenantID, companyID, runlog.OutcomeOK, fmt.Sprintf("%d recommendations", len(out)))
	if err := e.pub.Publish(ctx, events.TopicRecommendations, events.RunSummary{
		Component: "recommend", TenantID: tenantID, CompanyID: companyID,
		Produced: len(out), At: now,
	}); err != nil {
		e.log.Record("recommend", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("publishing summary: %v", err))
	}
	return out, nil
}

// overdueInvoices flags outstanding invoices past their due date. Only
// issued (sent or posted-equivalent) invoices count.
func (e *Engine) overdueInvoices(ctx context.Context, tenantID, companyID string, start, now time.Time) (*model.RecommendationRecord, error) {
	invoices, err := e.store.ListInvoices(ctx, tenantID, companyID, start, now)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	count := 0
	total := decimal.Zero
	for _, inv := range invoices {
		if !inv.DueDate.Before(now) {
			continue
		}
		if !inv.Balance.IsPositive() {
			continue
		}
		if !isCollectible(inv.Status) {
			continue
		}
		count++
		total = total.Add(inv.Balance)
	}
	if count == 0 {
		return nil, nil
	}

	rec := e.record(tenantID, companyID, TypePaymentTiming,
		fmt.Sprintf("%d invoices totaling $%s are overdue; consider payment reminders", count, total.StringFixed(2)), now)
	return &rec, nil
}

func isCollectible(status string) bool {
	return strings.EqualFold(status, "sent") || model.IsPostedStatus(status)
}

// highExpenses compares the top ten expenses against the window mean and
// flags them when the largest runs past twice the mean.
func (e *Engine) highExpenses(ctx context.Context, tenantID, companyID string, start, now time.Time) (*model.RecommendationRecord, error) {
	expenses, err := e.store.ListExpenses(ctx, tenantID, companyID, start, now)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	total := decimal.Zero
	for _, ex := range expenses {
		total = total.Add(ex.Amount)
	}
	mean := total.Div(decimal.NewFromInt(int64(len(expenses))))

	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount.GreaterThan(sorted[j].Amount) })
	top := sorted
	if len(top) > topExpenseCount {
		top = top[:topExpenseCount]
	}

	topTotal := decimal.Zero
	for _, ex := range top {
		topTotal = topTotal.Add(ex.Amount)
	}
	topAvg := topTotal.Div(decimal.NewFromInt(int64(len(top))))
	max := top[0].Amount

	if !topAvg.GreaterThan(mean) || !max.GreaterThan(mean.Mul(decimal.NewFromInt(2))) {
		return nil, nil
	}

	rec := e.record(tenantID, companyID, TypeCostCutting,
		fmt.Sprintf("Top expenses average $%s against a typical $%s; review the largest items", topAvg.StringFixed(2), mean.StringFixed(2)), now)
	return &rec, nil
}

// lowPaymentRate checks the paid fraction of the most recent invoices.
func (e *Engine) lowPaymentRate(ctx context.Context, tenantID, companyID string, now time.Time) (*model.RecommendationRecord, error) {
	invoices, err := e.store.ListRecentInvoices(ctx, tenantID, companyID, recentInvoiceMax)
	if err != nil {
		return nil, fmt.Errorf("listing recent invoices: %w", err)
	}
	if len(invoices) == 0 {
		return nil, nil
	}

	paid := 0
	for _, inv := range invoices {
		if strings.EqualFold(inv.Status, "paid") {
			paid++
		}
	}
	rate := float64(paid) / float64(len(invoices))
	if rate >= paymentRateTarget {
		return nil, nil
	}

	rec := e.record(tenantID, companyID, TypeRevenueOptimization,
		fmt.Sprintf("Only %.0f%% of recent invoices are paid; tighten collection follow-up", rate*100), now)
	return &rec, nil
}

func (e *Engine) record(tenantID, companyID, recType, message string, now time.Time) model.RecommendationRecord {
	return model.RecommendationRecord{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		CompanyID: companyID,
		Type:      recType,
		Message:   message,
		CreatedAt: now,
	}
}
