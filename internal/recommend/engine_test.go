package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store/memory"
)

const (
	testTenant  = "t1"
	testCompany = "c1"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEngine(t *testing.T, st *memory.Store) *Engine {
	t.Helper()
	e := NewEngine(st, events.Nop{}, runlog.New(t.TempDir()))
	e.now = func() time.Time { return testNow }
	return e
}

func types(recs []model.RecommendationRecord) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Type)
	}
	return out
}

func TestRecommend_NoActivity(t *testing.T) {
	got, err := newEngine(t, memory.New()).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommend_OverdueInvoice(t *testing.T) {
	st := memory.New()
	st.AddInvoice(model.Invoice{
		ID: "inv1", TenantID: testTenant, CompanyID: testCompany,
		IssueDate: testNow.AddDate(0, 0, -40), DueDate: testNow.AddDate(0, 0, -10),
		Total: dec("150.00"), Balance: dec("150.00"), Status: "sent",
	})
	// Paid invoice past due date: no outstanding balance, ignored. Keeps the
	// payment rate at 50%, so the low-payment-rate rule fires alongside.
	st.AddInvoice(model.Invoice{
		ID: "inv2", TenantID: testTenant, CompanyID: testCompany,
		IssueDate: testNow.AddDate(0, 0, -35), DueDate: testNow.AddDate(0, 0, -5),
		Total: dec("80.00"), Balance: dec("0"), Status: "paid",
	})

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{TypePaymentTiming, TypeRevenueOptimization}, types(got))
	for _, r := range got {
		if r.Type == TypePaymentTiming {
			assert.Contains(t, r.Message, "1 invoices")
			assert.Contains(t, r.Message, "$150.00")
		}
	}
	assert.Len(t, st.Recommendations(), 2)
}

func TestRecommend_NoOverdueWithoutPastDue(t *testing.T) {
	st := memory.New()
	st.AddInvoice(model.Invoice{
		ID: "inv1", TenantID: testTenant, CompanyID: testCompany,
		IssueDate: testNow.AddDate(0, 0, -5), DueDate: testNow.AddDate(0, 0, 25),
		Total: dec("150.00"), Balance: dec("150.00"), Status: "sent",
	})

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.NotContains(t, types(got), TypePaymentTiming)
}

func TestRecommend_DraftInvoiceNotCollectible(t *testing.T) {
	st := memory.New()
	st.AddInvoice(model.Invoice{
		ID: "inv1", TenantID: testTenant, CompanyID: testCompany,
		IssueDate: testNow.AddDate(0, 0, -40), DueDate: testNow.AddDate(0, 0, -10),
		Total: dec("150.00"), Balance: dec("150.00"), Status: "draft",
	})

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.NotContains(t, types(got), TypePaymentTiming)
}

func TestRecommend_HighExpenses(t *testing.T) {
	st := memory.New()
	for i := 0; i < 20; i++ {
		st.AddExpense(model.Expense{
			ID: fmt.Sprintf("ex%d", i), TenantID: testTenant, CompanyID: testCompany,
			Date: testNow.AddDate(0, 0, -i-1), Amount: dec("100.00"),
		})
	}
	st.AddExpense(model.Expense{
		ID: "ex-big", TenantID: testTenant, CompanyID: testCompany,
		Date: testNow.AddDate(0, 0, -2), Amount: dec("5000.00"),
	})

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.Contains(t, types(got), TypeCostCutting)
}

func TestRecommend_UniformExpensesNoRecommendation(t *testing.T) {
	st := memory.New()
	for i := 0; i < 20; i++ {
		st.AddExpense(model.Expense{
			ID: fmt.Sprintf("ex%d", i), TenantID: testTenant, CompanyID: testCompany,
			Date: testNow.AddDate(0, 0, -i-1), Amount: dec("100.00"),
		})
	}

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.NotContains(t, types(got), TypeCostCutting)
}

func TestRecommend_LowPaymentRate(t *testing.T) {
	st := memory.New()
	for i := 0; i < 10; i++ {
		status := "paid"
		if i < 4 {
			status = "sent"
		}
		st.AddInvoice(model.Invoice{
			ID: fmt.Sprintf("inv%d", i), TenantID: testTenant, CompanyID: testCompany,
			IssueDate: testNow.AddDate(0, 0, -i-1), DueDate: testNow.AddDate(0, 0, 30),
			Total: dec("100.00"), Balance: dec("100.00"), Status: status,
		})
	}

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	require.Contains(t, types(got), TypeRevenueOptimization)
	for _, r := range got {
		if r.Type == TypeRevenueOptimization {
			assert.Contains(t, r.Message, "60%")
		}
	}
}

func TestRecommend_HealthyPaymentRate(t *testing.T) {
	st := memory.New()
	for i := 0; i < 10; i++ {
		status := "paid"
		if i == 0 {
			status = "sent"
		}
		st.AddInvoice(model.Invoice{
			ID: fmt.Sprintf("inv%d", i), TenantID: testTenant, CompanyID: testCompany,
			IssueDate: testNow.AddDate(0, 0, -i-1), DueDate: testNow.AddDate(0, 0, 30),
			Total: dec("100.00"), Balance: dec("0"), Status: status,
		})
	}

	got, err := newEngine(t, st).Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.NotContains(t, types(got), TypeRevenueOptimization)
}

func TestRecommend_MissingScope(t *testing.T) {
	_, err := newEngine(t, memory.New()).Recommend(context.Background(), "", "")
	assert.ErrorIs(t, err, ledger.ErrMissingScope)
}

type failingExpenseStore struct {
	*memory.Store
}

func (f *failingExpenseStore) ListExpenses(context.Context, string, string, time.Time, time.Time) ([]model.Expense, error) {
	return nil, errors.New("connection reset")
}

func TestRecommend_PartialOnFailure(t *testing.T) {
	st := memory.New()
	st.AddInvoice(model.Invoice{
		ID: "inv1", TenantID: testTenant, CompanyID: testCompany,
		IssueDate: testNow.AddDate(0, 0, -40), DueDate: testNow.AddDate(0, 0, -10),
		Total: dec("150.00"), Balance: dec("150.00"), Status: "sent",
	})

	dir := t.TempDir()
	e := NewEngine(&failingExpenseStore{Store: st}, events.Nop{}, runlog.New(dir))
	e.now = func() time.Time { return testNow }

	got, err := e.Recommend(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	// The overdue rule already fired; the expense failure stops the rest.
	assert.Equal(t, []string{TypePaymentTiming}, types(got))

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, runlog.OutcomeRecovered, entries[0].Outcome)
}
