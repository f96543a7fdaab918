package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
)

var day = time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedEntry(st *Store, id, tenant, company, status string, at time.Time, lines ...model.JournalLine) {
	st.AddJournalEntry(model.JournalEntry{
		ID: id, TenantID: tenant, CompanyID: company, Date: at, Status: status, Lines: lines,
	})
}

func TestListAccounts_ScopeAndActiveFilter(t *testing.T) {
	st := New()
	st.AddAccount(model.Account{ID: "a1", TenantID: "t1", CompanyID: "c1", Code: "2000", Active: true})
	st.AddAccount(model.Account{ID: "a2", TenantID: "t1", CompanyID: "c1", Code: "1000", Active: false})
	st.AddAccount(model.Account{ID: "a3", TenantID: "t2", CompanyID: "c1", Code: "1000", Active: true})

	all, err := st.ListAccounts(context.Background(), "t1", "c1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Sorted by code, other tenants excluded.
	assert.Equal(t, "a2", all[0].ID)
	assert.Equal(t, "a1", all[1].ID)

	active, err := st.ListAccounts(context.Background(), "t1", "c1", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "a1", active[0].ID)
}

func TestListJournalLines_PostedOnlyIsExactStatus(t *testing.T) {
	st := New()
	line := model.JournalLine{AccountID: "a1", Debit: dec("10.00")}
	seedEntry(st, "e1", "t1", "c1", "POSTED", day, line)
	seedEntry(st, "e2", "t1", "c1", "posted", day, line)
	seedEntry(st, "e3", "t1", "c1", "Posted", day, line)
	seedEntry(st, "e4", "t1", "c1", "draft", day, line)

	got, err := st.ListJournalLines(context.Background(), "t1", "c1", "a1", true, day)
	require.NoError(t, err)
	// Only the uppercase POSTED entry counts toward balances.
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].EntryID)

	all, err := st.ListJournalLines(context.Background(), "t1", "c1", "a1", false, day)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListJournalLines_AsOfExcludesFutureEntries(t *testing.T) {
	st := New()
	line := model.JournalLine{AccountID: "a1", Debit: dec("10.00")}
	seedEntry(st, "past", "t1", "c1", "POSTED", day.AddDate(0, 0, -1), line)
	seedEntry(st, "sameDay", "t1", "c1", "POSTED", day, line)
	seedEntry(st, "future", "t1", "c1", "POSTED", day.AddDate(0, 0, 1), line)

	got, err := st.ListJournalLines(context.Background(), "t1", "c1", "a1", true, day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "past", got[0].EntryID)
	assert.Equal(t, "sameDay", got[1].EntryID)
}

func TestAddJournalEntry_FillsAccountCodesFromSeededAccounts(t *testing.T) {
	st := New()
	st.AddAccount(model.Account{ID: "a1", TenantID: "t1", CompanyID: "c1", Code: "4000"})
	seedEntry(st, "e1", "t1", "c1", "POSTED", day, model.JournalLine{AccountID: "a1", Credit: dec("5.00")})

	got, err := st.ListJournalEntries(context.Background(), "t1", "c1", nil, day, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4000", got[0].Lines[0].AccountCode)
	assert.Equal(t, "e1", got[0].Lines[0].EntryID)
}

func TestListJournalEntries_StatusAndDateFilters(t *testing.T) {
	st := New()
	seedEntry(st, "e1", "t1", "c1", "POSTED", day)
	seedEntry(st, "e2", "t1", "c1", "APPROVED", day)
	seedEntry(st, "e3", "t1", "c1", "draft", day)
	seedEntry(st, "e4", "t1", "c1", "POSTED", day.AddDate(0, -2, 0))

	posted, err := st.ListJournalEntries(context.Background(), "t1", "c1", model.PostedStatuses, day.AddDate(0, 0, -7), day)
	require.NoError(t, err)
	require.Len(t, posted, 2)
	assert.Equal(t, "e1", posted[0].ID)
	assert.Equal(t, "e2", posted[1].ID)

	// nil statuses matches every status inside the window.
	all, err := st.ListJournalEntries(context.Background(), "t1", "c1", nil, day.AddDate(0, 0, -7), day)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListInvoices_WindowIsInclusive(t *testing.T) {
	st := New()
	from, to := day.AddDate(0, 0, -10), day
	st.AddInvoice(model.Invoice{ID: "lo", TenantID: "t1", CompanyID: "c1", IssueDate: from, Total: dec("1.00")})
	st.AddInvoice(model.Invoice{ID: "hi", TenantID: "t1", CompanyID: "c1", IssueDate: to, Total: dec("2.00")})
	st.AddInvoice(model.Invoice{ID: "out", TenantID: "t1", CompanyID: "c1", IssueDate: from.AddDate(0, 0, -1), Total: dec("3.00")})
	st.AddInvoice(model.Invoice{ID: "other", TenantID: "t2", CompanyID: "c1", IssueDate: to, Total: dec("4.00")})

	got, err := st.ListInvoices(context.Background(), "t1", "c1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "lo", got[0].ID)
	assert.Equal(t, "hi", got[1].ID)
}

func TestListRecentInvoices_NewestFirstWithLimit(t *testing.T) {
	st := New()
	for i, id := range []string{"old", "mid", "new"} {
		st.AddInvoice(model.Invoice{ID: id, TenantID: "t1", CompanyID: "c1", IssueDate: day.AddDate(0, 0, i)})
	}

	got, err := st.ListRecentInvoices(context.Background(), "t1", "c1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestListTransactions_NewestFirstWithLimit(t *testing.T) {
	st := New()
	for i, id := range []string{"old", "mid", "new"} {
		st.AddTransaction(model.Transaction{ID: id, TenantID: "t1", CompanyID: "c1", Date: day.AddDate(0, 0, i), Amount: dec("10.00")})
	}

	got, err := st.ListTransactions(context.Background(), "t1", "c1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
}

func TestDeleteInsightsMatching_RespectsScopeAndPatterns(t *testing.T) {
	st := New()
	ctx := context.Background()
	require.NoError(t, st.CreateInsight(ctx, model.InsightRecord{ID: "i1", TenantID: "t1", CompanyID: "c1", Message: "losing $0/month"}))
	require.NoError(t, st.CreateInsight(ctx, model.InsightRecord{ID: "i2", TenantID: "t1", CompanyID: "c1", Message: "Positive cash flow of $600.00"}))
	require.NoError(t, st.CreateInsight(ctx, model.InsightRecord{ID: "i3", TenantID: "t2", CompanyID: "c1", Message: "losing $0/month"}))

	removed, err := st.DeleteInsightsMatching(ctx, "t1", "c1", []string{"$0/month"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var ids []string
	for _, in := range st.Insights() {
		ids = append(ids, in.ID)
	}
	assert.ElementsMatch(t, []string{"i2", "i3"}, ids)
}
