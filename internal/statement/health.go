package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
)

// Health check statuses.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusDue  = "due"
)

// HealthCheck is one scored bookkeeping hygiene signal.
type HealthCheck struct {
	Name   string
	Score  int
	Status string
	Detail string
}

// HealthReport bundles the hygiene checks for a company.
type HealthReport struct {
	GeneratedAt time.Time
	Checks      []HealthCheck
}

// Health scores bookkeeping hygiene: reconciliation backlog, pending entries,
// trial balance, and recent activity.
func (c *Composer) Health(ctx context.Context, tenantID, companyID string, now time.Time) (*HealthReport, error) {
	st, err := c.Compose(ctx, tenantID, companyID, now)
	if err != nil {
		return nil, err
	}

	accounts, err := c.store.ListAccounts(ctx, tenantID, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	unreconciled := 0
	for _, a := range accounts {
		if !a.Reconciled {
			unreconciled++
		}
	}

	// One year back is enough to count outstanding drafts without scanning
	// the full history.
	entries, err := c.store.ListJournalEntries(ctx, tenantID, companyID, nil, now.AddDate(-1, 0, 0), now)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	pending := 0
	active30 := false
	cutoff := now.AddDate(0, 0, -30)
	for _, e := range entries {
		if !e.Date.Before(cutoff) {
			active30 = true
		}
		if !model.IsPostedStatus(e.Status) {
			pending++
		}
	}

	report := &HealthReport{
		GeneratedAt: now,
		Checks: []HealthCheck{
			reconciliationCheck(unreconciled),
			pendingCheck(pending),
			trialBalanceCheck(st.TrialBalanced),
			activityCheck(active30),
		},
	}
	return report, nil
}

func reconciliationCheck(count int) HealthCheck {
	score := 100
	if count > 0 {
		score = 100 - 10*count
		if score < 0 {
			score = 0
		}
	}
	return HealthCheck{
		Name:   "reconciliation",
		Score:  score,
		Status: countStatus(count),
		Detail: fmt.Sprintf("%d unreconciled accounts", count),
	}
}

func pendingCheck(count int) HealthCheck {
	score := 100
	if count > 0 {
		score = 100 - 5*count
		if score < 50 {
			score = 50
		}
	}
	return HealthCheck{
		Name:   "pending_entries",
		Score:  score,
		Status: countStatus(count),
		Detail: fmt.Sprintf("%d pending journal entries", count),
	}
}

func trialBalanceCheck(balanced bool) HealthCheck {
	c := HealthCheck{Name: "trial_balance", Score: 100, Status: StatusOK, Detail: "debits equal credits"}
	if !balanced {
		c.Score = 75
		c.Status = StatusWarn
		c.Detail = "debits and credits differ"
	}
	return c
}

func activityCheck(activeLast30 bool) HealthCheck {
	c := HealthCheck{Name: "activity", Score: 85, Status: StatusOK, Detail: "journal activity in the last 30 days"}
	if !activeLast30 {
		c.Score = 60
		c.Status = StatusWarn
		c.Detail = "no journal activity in the last 30 days"
	}
	return c
}

// countStatus maps a backlog count onto ok / warn / due.
func countStatus(count int) string {
	switch {
	case count == 0:
		return StatusOK
	case count < 5:
		return StatusWarn
	default:
		return StatusDue
	}
}
