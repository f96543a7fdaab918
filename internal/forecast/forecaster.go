// Package forecast produces short-horizon predictions from monthly history
// using a trend-adjusted moving average.
package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

const (
	// TypeRevenue selects invoice history; anything else forecasts expenses.
	TypeRevenue = "revenue"

	lookbackMonths = 24
	minDataPoints  = 6
	maxWindowSize  = 6
	horizonSteps   = 3
)

var (
	bandLow  = decimal.RequireFromString("0.8")
	bandHigh = decimal.RequireFromString("1.2")
)

// Forecaster predicts monthly revenue or expense totals.
type Forecaster struct {
	store store.LedgerStore
	pub   events.Publisher
	log   *runlog.Logger
	now   func() time.Time
}

// NewForecaster creates a Forecaster.
func NewForecaster(st store.LedgerStore, pub events.Publisher, log *runlog.Logger) *Forecaster {
	return &Forecaster{store: st, pub: pub, log: log, now: time.Now}
}

// Predict emits one record per horizon step (three months out). Fewer than
// six monthly data points yields an empty result, not an error; a retrieval
// failure is recovered locally and also yields an empty result.
func (f *Forecaster) Predict(ctx context.Context, tenantID, companyID, predictionType string) ([]model.PredictionRecord, error) {
	if tenantID == "" || companyID == "" {
		return nil, ledger.ErrMissingScope
	}

	now := f.now().UTC()
	points, err := f.monthlySeries(ctx, tenantID, companyID, predictionType, now)
	if err != nil {
		f.log.Record("forecast", tenantID, companyID, runlog.OutcomeRecovered, err.Error())
		return nil, nil
	}
	if len(points) < minDataPoints {
		f.log.Record("forecast", tenantID, companyID, runlog.OutcomeSkipped,
			fmt.Sprintf("%d monthly points, need %d", len(points), minDataPoints))
		return nil, nil
	}

	predictions := project(points, tenantID, companyID, normalizeType(predictionType), now)
	for _, p := range predictions {
		if err := f.store.CreatePrediction(ctx, p); err != nil {
			f.log.Record("forecast", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("persisting prediction: %v", err))
		}
	}

	f.log.Record("forecast", tenantID, companyID, runlog.OutcomeOK, fmt.Sprintf("%d predictions", len(predictions)))
	if err := f.pub.Publish(ctx, events.TopicPredictions, events.RunSummary{
		Component: "forecast", TenantID: tenantID, CompanyID: companyID,
		Produced: len(predictions), At: now,
	}); err != nil {
		f.log.Record("forecast", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("publishing summary: %v", err))
	}
	return predictions, nil
}

func normalizeType(predictionType string) string {
	if predictionType == TypeRevenue {
		return TypeRevenue
	}
	return "expense"
}

// monthlySeries buckets the trailing two years of history into calendar
// months, ascending. Only months with data become points.
func (f *Forecaster) monthlySeries(ctx context.Context, tenantID, companyID, predictionType string, now time.Time) ([]decimal.Decimal, error) {
	start := now.AddDate(0, -lookbackMonths, 0)
	monthly := make(map[string]decimal.Decimal)

	if predictionType == TypeRevenue {
		invoices, err := f.store.ListInvoices(ctx, tenantID, companyID, start, now)
		if err != nil {
			return nil, fmt.Errorf("listing invoices: %w", err)
		}
		for _, inv := range invoices {
			key := inv.IssueDate.Format("2006-01")
			monthly[key] = monthly[key].Add(inv.Total)
		}
	} else {
		expenses, err := f.store.ListExpenses(ctx, tenantID, companyID, start, now)
		if err != nil {
			return nil, fmt.Errorf("listing expenses: %w", err)
		}
		for _, e := range expenses {
			key := e.Date.Format("2006-01")
			monthly[key] = monthly[key].Add(e.Amount)
		}
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)

	points := make([]decimal.Decimal, len(months))
	for i, m := range months {
		points[i] = monthly[m]
	}
	return points, nil
}

// project runs the trend-adjusted moving average over the series. The window
// covers the last half of the series (capped at six months); the trend is the
// average per-month change across the whole series.
func project(points []decimal.Decimal, tenantID, companyID, predictionType string, now time.Time) []model.PredictionRecord {
	n := len(points)

	windowSize := n / 2
	if windowSize < 1 {
		windowSize = 1
	}
	if windowSize > maxWindowSize {
		windowSize = maxWindowSize
	}

	sum := decimal.Zero
	for _, v := range points[n-windowSize:] {
		sum = sum.Add(v)
	}
	average := sum.Div(decimal.NewFromInt(int64(windowSize)))

	trend := points[n-1].Sub(points[0]).Div(decimal.NewFromInt(int64(n - 1)))

	out := make([]model.PredictionRecord, 0, horizonSteps)
	for step := 1; step <= horizonSteps; step++ {
		predicted := average.Add(trend.Mul(decimal.NewFromInt(int64(step))))
		if predicted.IsNegative() {
			predicted = decimal.Zero
		}
		out = append(out, model.PredictionRecord{
			ID:             uuid.NewString(),
			TenantID:       tenantID,
			CompanyID:      companyID,
			Type:           predictionType,
			Predicted:      predicted,
			ConfidenceLow:  predicted.Mul(bandLow),
			ConfidenceHigh: predicted.Mul(bandHigh),
			TargetDate:     now.AddDate(0, step, 0),
			CreatedAt:      now,
		})
	}
	return out
}
