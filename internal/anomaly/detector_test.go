package anomaly

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

func newDetector(t *testing.T, st *memory.Store) *Detector {
	t.Helper()
	return NewDetector(st, events.Nop{}, runlog.New(t.TempDir()))
}

func addTxn(st *memory.Store, id string, day time.Time, amount string) {
	st.AddTransaction(model.Transaction{
		ID: id, TenantID: testTenant, CompanyID: testCompany,
		Date: day, Amount: decimal.RequireFromString(amount),
	})
}

func TestScan_Duplicates(t *testing.T) {
	st := memory.New()
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	addTxn(st, "tx1", day, "500.00")
	addTxn(st, "tx2", day, "500.00")
	addTxn(st, "tx3", day, "500.00")
	addTxn(st, "tx4", day, "42.00")

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AnomalyDuplicate, got[0].Kind)
	assert.Equal(t, "tx1", got[0].TransactionID)
	assert.Equal(t, 0.8, got[0].Confidence)

	// Persisted as well as returned.
	require.Len(t, st.Anomalies(), 1)
}

func TestScan_DuplicateKeyIsCalendarDate(t *testing.T) {
	st := memory.New()
	// Same amount, different days: not duplicates.
	addTxn(st, "tx1", time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), "500.00")
	addTxn(st, "tx2", time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC), "500.00")
	// Same day, different times of day: duplicates.
	addTxn(st, "tx3", time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC), "75.00")
	addTxn(st, "tx4", time.Date(2026, 8, 12, 17, 30, 0, 0, time.UTC), "75.00")

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AnomalyDuplicate, got[0].Kind)
}

func TestScan_Outlier(t *testing.T) {
	st := memory.New()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		addTxn(st, fmt.Sprintf("tx%d", i), base.AddDate(0, 0, i), "100.00")
	}
	addTxn(st, "tx-big", base.AddDate(0, 0, 10), "10000.00")

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AnomalyUnusualAmount, got[0].Kind)
	assert.Equal(t, "tx-big", got[0].TransactionID)
	assert.Greater(t, got[0].Confidence, 0.0)
	assert.LessOrEqual(t, got[0].Confidence, 0.9)
}

func TestScan_OutlierConfidenceScaling(t *testing.T) {
	// One outlier among k identical values has z = sqrt(k) exactly, so 25
	// identical transactions plus one spike give z = 5 and confidence 0.7.
	st := memory.New()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		addTxn(st, fmt.Sprintf("tx%d", i), base.AddDate(0, 0, i), "100.00")
	}
	addTxn(st, "tx-big", base.AddDate(0, 0, 25), "10000.00")

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tx-big", got[0].TransactionID)
	assert.InDelta(t, 0.7, got[0].Confidence, 1e-9)
}

func TestScan_SkipsOutliersBelowMinimumSample(t *testing.T) {
	st := memory.New()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 9; i++ {
		addTxn(st, fmt.Sprintf("tx%d", i), base.AddDate(0, 0, i), "100.00")
	}
	addTxn(st, "tx-big", base.AddDate(0, 0, 9), "10000.00")

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_ZeroDeviation(t *testing.T) {
	st := memory.New()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	// Identical amounts on distinct days: stdDev is zero, no outliers, no
	// duplicates, and definitely no NaN.
	for i := 0; i < 12; i++ {
		addTxn(st, fmt.Sprintf("tx%d", i), base.AddDate(0, 0, i), "250.00")
	}

	got, err := newDetector(t, st).Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_MissingScope(t *testing.T) {
	_, err := newDetector(t, memory.New()).Scan(context.Background(), "", testCompany)
	assert.ErrorIs(t, err, ledger.ErrMissingScope)
}

type failingTxnStore struct {
	*memory.Store
}

func (f *failingTxnStore) ListTransactions(context.Context, string, string, int) ([]model.Transaction, error) {
	return nil, errors.New("connection reset")
}

func TestScan_RecoversFromStoreFailure(t *testing.T) {
	dir := t.TempDir()
	d := NewDetector(&failingTxnStore{Store: memory.New()}, events.Nop{}, runlog.New(dir))

	got, err := d.Scan(context.Background(), testTenant, testCompany)
	require.NoError(t, err)
	assert.Empty(t, got)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, runlog.OutcomeRecovered, entries[0].Outcome)
}

func TestPopulationStats(t *testing.T) {
	mean, stdDev := populationStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, stdDev, 1e-9)
}
