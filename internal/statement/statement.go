// Package statement composes classified account balances into financial
// statement totals and bookkeeping health metrics.
package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/classify"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

// trialBalanceTolerance is the cent-level slack allowed before a trial
// balance is reported out of balance.
var trialBalanceTolerance = decimal.RequireFromString("0.01")

// Statement holds the composed totals for a company as of an instant.
type Statement struct {
	AsOf              time.Time
	Balances          []model.AccountBalance
	TotalDebits       decimal.Decimal
	TotalCredits      decimal.Decimal
	BalanceDifference decimal.Decimal
	TrialBalanced     bool
	TotalAssets       decimal.Decimal
	TotalLiabilities  decimal.Decimal
	TotalEquity       decimal.Decimal
	TotalRevenue      decimal.Decimal
	TotalExpenses     decimal.Decimal
	NetIncome         decimal.Decimal
}

// Composer derives statements and health reports from the ledger store.
type Composer struct {
	store store.LedgerStore
	agg   *ledger.Aggregator
}

// NewComposer creates a Composer over a ledger store.
func NewComposer(st store.LedgerStore) *Composer {
	return &Composer{store: st, agg: ledger.NewAggregator(st)}
}

// Compose aggregates balances as of asOf and summarizes them.
func (c *Composer) Compose(ctx context.Context, tenantID, companyID string, asOf time.Time) (*Statement, error) {
	balances, err := c.agg.Balances(ctx, tenantID, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("aggregating balances: %w", err)
	}
	st := Summarize(balances)
	st.AsOf = asOf
	return &st, nil
}

// Summarize computes statement totals from a set of account balances.
//
// Section membership is an independent filter over the account's type label,
// so an account with a pathological label can contribute to two totals.
// Assets and revenue count only positive (debit-side, resp. credit-side
// inverted) net balances; negative balances are floored to zero rather than
// subtracted. Expenses take absolute values to tolerate sign inversions.
func Summarize(balances []model.AccountBalance) Statement {
	st := Statement{
		Balances:         balances,
		TotalDebits:      decimal.Zero,
		TotalCredits:     decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		TotalRevenue:     decimal.Zero,
		TotalExpenses:    decimal.Zero,
	}

	for _, b := range balances {
		st.TotalDebits = st.TotalDebits.Add(b.Debit)
		st.TotalCredits = st.TotalCredits.Add(b.Credit)

		if classify.Matches(b.AccountType, model.CategoryAsset) {
			st.TotalAssets = st.TotalAssets.Add(positivePart(b.Net))
		}
		if classify.Matches(b.AccountType, model.CategoryLiability) {
			st.TotalLiabilities = st.TotalLiabilities.Add(positivePart(b.Net.Neg()))
		}
		if classify.Matches(b.AccountType, model.CategoryEquity) {
			st.TotalEquity = st.TotalEquity.Add(positivePart(b.Net.Neg()))
		}
		if classify.Matches(b.AccountType, model.CategoryRevenue) {
			// Same debit-side floor as assets. Revenue accounts are
			// credit-normal, so only balances carried debit-positive
			// land in this total.
			st.TotalRevenue = st.TotalRevenue.Add(positivePart(b.Net))
		}
		if classify.Matches(b.AccountType, model.CategoryExpense) {
			st.TotalExpenses = st.TotalExpenses.Add(b.Net.Abs())
		}
	}

	st.BalanceDifference = st.TotalDebits.Sub(st.TotalCredits)
	st.TrialBalanced = st.BalanceDifference.Abs().LessThan(trialBalanceTolerance)
	st.NetIncome = st.TotalRevenue.Sub(st.TotalExpenses)
	return st
}

func positivePart(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
