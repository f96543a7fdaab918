// Package classify maps free-text account type labels to statement sections.
//
// Upstream accounting systems carry the account type as an unconstrained
// label ("Current Asset", "Cost of Goods Sold", ...), so classification is a
// set of ordered case-insensitive substring rules rather than an enum on the
// account. Section predicates are evaluated independently: a pathological
// label such as "Asset Expense" satisfies two sections and will be counted in
// both statement totals. That mirrors the rule-based classification upstream
// and is intentional.
package classify

import (
	"strings"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/model"
)

// Rule ties a statement section to the label substrings that select it.
type Rule struct {
	Category model.Category
	Keywords []string
}

// Rules is the classification table in evaluation order. Classify returns the
// first matching category; Sections returns every match.
var Rules = []Rule{
	{Category: model.CategoryAsset, Keywords: []string{"asset"}},
	{Category: model.CategoryLiability, Keywords: []string{"liability", "payable"}},
	{Category: model.CategoryEquity, Keywords: []string{"equity", "capital"}},
	{Category: model.CategoryRevenue, Keywords: []string{"revenue", "income", "sales"}},
	{Category: model.CategoryExpense, Keywords: []string{"expense", "cost", "overhead"}},
}

func (r Rule) matches(label string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

// Classify returns the first section whose keywords match the label, or
// CategoryUnclassified when nothing matches.
func Classify(label string) model.Category {
	lower := strings.ToLower(label)
	for _, r := range Rules {
		if r.matches(lower) {
			return r.Category
		}
	}
	return model.CategoryUnclassified
}

// Sections returns every section whose keywords match the label, in rule
// order.
func Sections(label string) []model.Category {
	lower := strings.ToLower(label)
	var out []model.Category
	for _, r := range Rules {
		if r.matches(lower) {
			out = append(out, r.Category)
		}
	}
	return out
}

// Matches reports whether the label belongs to one particular section.
func Matches(label string, category model.Category) bool {
	lower := strings.ToLower(label)
	for _, r := range Rules {
		if r.Category == category {
			return r.matches(lower)
		}
	}
	return false
}
