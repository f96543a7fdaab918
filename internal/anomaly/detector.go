// Package anomaly scans recent transactions for duplicate and
// statistical-outlier patterns.
package anomaly

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

const (
	// sampleSize bounds the scan to the newest transactions.
	sampleSize = 100
	// minOutlierSample is the minimum sample before z-scores mean anything.
	minOutlierSample = 11
	// zThreshold is the outlier cutoff in standard deviations.
	zThreshold = 3.0

	duplicateConfidence  = 0.8
	maxOutlierConfidence = 0.9
)

// Detector flags suspicious transactions for one company.
type Detector struct {
	store store.LedgerStore
	pub   events.Publisher
	log   *runlog.Logger
}

// NewDetector creates a Detector.
func NewDetector(st store.LedgerStore, pub events.Publisher, log *runlog.Logger) *Detector {
	return &Detector{store: st, pub: pub, log: log}
}

// Scan examines the newest transactions and returns every anomaly found,
// duplicates and outliers alike. Persistence of each record is best-effort:
// a failed write is logged and the record is still returned. A store read
// failure is recovered locally and yields an empty result, never an error;
// only missing scope identifiers reject the call.
func (d *Detector) Scan(ctx context.Context, tenantID, companyID string) ([]model.AnomalyRecord, error) {
	if tenantID == "" || companyID == "" {
		return nil, ledger.ErrMissingScope
	}

	txns, err := d.store.ListTransactions(ctx, tenantID, companyID, sampleSize)
	if err != nil {
		d.log.Record("anomaly", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("listing transactions: %v", err))
		return nil, nil
	}

	anomalies := d.duplicates(ctx, tenantID, companyID, txns)
	anomalies = append(anomalies, d.outliers(ctx, tenantID, companyID, txns)...)

	d.log.Record("anomaly", tenantID, companyID, runlog.OutcomeOK, fmt.Sprintf("%d anomalies", len(anomalies)))
	if err := d.pub.Publish(ctx, events.TopicAnomalies, events.RunSummary{
		Component: "anomaly", TenantID: tenantID, CompanyID: companyID,
		Produced: len(anomalies), At: time.Now().UTC(),
	}); err != nil {
		d.log.Record("anomaly", tenantID, companyID, runlog.OutcomeRecovered, fmt.Sprintf("publishing summary: %v", err))
	}
	return anomalies, nil
}

// duplicates groups transactions by exact amount and calendar date. Each
// group with more than one member yields one anomaly referencing the group's
// first transaction.
func (d *Detector) duplicates(ctx context.Context, tenantID, companyID string, txns []model.Transaction) []model.AnomalyRecord {
	type group struct {
		first model.Transaction
		count int
	}
	groups := make(map[string]*group)
	var order []string

	for _, t := range txns {
		key := t.Amount.String() + "|" + t.Date.Format("2006-01-02")
		g, seen := groups[key]
		if !seen {
			groups[key] = &group{first: t, count: 1}
			order = append(order, key)
			continue
		}
		g.count++
	}

	var out []model.AnomalyRecord
	for _, key := range order {
		g := groups[key]
		if g.count < 2 {
			continue
		}
		rec := model.AnomalyRecord{
			ID:            uuid.NewString(),
			TenantID:      tenantID,
			CompanyID:     companyID,
			TransactionID: g.first.ID,
			Kind:          model.AnomalyDuplicate,
			Confidence:    duplicateConfidence,
			CreatedAt:     time.Now().UTC(),
		}
		d.persist(ctx, rec)
		out = append(out, rec)
	}
	return out
}

// outliers flags transactions more than three population standard deviations
// from the sample mean. Confidence rises linearly with the z-score beyond the
// threshold and caps at 0.9. A zero deviation (all amounts identical) means
// no outliers.
func (d *Detector) outliers(ctx context.Context, tenantID, companyID string, txns []model.Transaction) []model.AnomalyRecord {
	if len(txns) < minOutlierSample {
		return nil
	}

	amounts := make([]float64, len(txns))
	for i, t := range txns {
		amounts[i] = t.Amount.InexactFloat64()
	}

	mean, stdDev := populationStats(amounts)
	if stdDev == 0 {
		return nil
	}

	var out []model.AnomalyRecord
	for i, t := range txns {
		z := math.Abs(amounts[i]-mean) / stdDev
		if z <= zThreshold {
			continue
		}
		rec := model.AnomalyRecord{
			ID:            uuid.NewString(),
			TenantID:      tenantID,
			CompanyID:     companyID,
			TransactionID: t.ID,
			Kind:          model.AnomalyUnusualAmount,
			Confidence:    math.Min(maxOutlierConfidence, 0.5+(z-zThreshold)*0.1),
			CreatedAt:     time.Now().UTC(),
		}
		d.persist(ctx, rec)
		out = append(out, rec)
	}
	return out
}

func (d *Detector) persist(ctx context.Context, rec model.AnomalyRecord) {
	if err := d.store.CreateAnomaly(ctx, rec); err != nil {
		d.log.Record("anomaly", rec.TenantID, rec.CompanyID, runlog.OutcomeRecovered, fmt.Sprintf("persisting anomaly: %v", err))
	}
}

// populationStats returns the mean and population standard deviation
// (dividing by N, not N-1).
func populationStats(values []float64) (mean, stdDev float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= n

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= n
	return mean, math.Sqrt(variance)
}
