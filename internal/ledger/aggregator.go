// Package ledger computes account balances from posted journal lines.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/classify"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

// ErrMissingScope is returned when tenant or company identifiers are absent.
var ErrMissingScope = errors.New("tenant and company identifiers are required")

// Aggregator derives per-account debit/credit totals as of an instant.
type Aggregator struct {
	store store.LedgerStore
}

// NewAggregator creates an Aggregator over a ledger store.
func NewAggregator(st store.LedgerStore) *Aggregator {
	return &Aggregator{store: st}
}

// Balances returns one AccountBalance per active account, computed from
// journal lines of entries posted on or before asOf. Per-account sums run
// concurrently but the result preserves account order, and a failure on any
// single account fails the whole call: a statement missing an account is not
// partial, it is wrong.
func (a *Aggregator) Balances(ctx context.Context, tenantID, companyID string, asOf time.Time) ([]model.AccountBalance, error) {
	if tenantID == "" || companyID == "" {
		return nil, ErrMissingScope
	}

	accounts, err := a.store.ListAccounts(ctx, tenantID, companyID, true)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	balances := make([]model.AccountBalance, len(accounts))
	errs := make([]error, len(accounts))

	var wg sync.WaitGroup
	for i, acct := range accounts {
		wg.Add(1)
		go func(i int, acct model.Account) {
			defer wg.Done()
			bal, err := a.accountBalance(ctx, tenantID, companyID, acct, asOf)
			if err != nil {
				errs[i] = fmt.Errorf("account %s: %w", acct.Code, err)
				return
			}
			balances[i] = bal
		}(i, acct)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return balances, nil
}

func (a *Aggregator) accountBalance(ctx context.Context, tenantID, companyID string, acct model.Account, asOf time.Time) (model.AccountBalance, error) {
	lines, err := a.store.ListJournalLines(ctx, tenantID, companyID, acct.ID, true, asOf)
	if err != nil {
		return model.AccountBalance{}, err
	}

	debit := decimal.Zero
	credit := decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}

	return model.AccountBalance{
		AccountID:   acct.ID,
		AccountCode: acct.Code,
		AccountName: acct.Name,
		AccountType: acct.Type,
		Category:    classify.Classify(acct.Type),
		Debit:       debit,
		Credit:      credit,
		Net:         debit.Sub(credit),
	}, nil
}
