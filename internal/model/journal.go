package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatusPosted is the canonical finalized status for a journal entry.
// Upstream systems write status casing inconsistently, so anything that needs
// the posted-equivalent set should go through IsPostedStatus or
// PostedStatuses rather than comparing against this constant.
const StatusPosted = "POSTED"

// PostedStatuses lists every status casing treated as finalized when pulling
// entries for analytics.
var PostedStatuses = []string{
	"posted", "POSTED", "Posted",
	"APPROVED", "approved", "Approved",
}

// IsPostedStatus reports whether a raw status string is posted-equivalent.
func IsPostedStatus(status string) bool {
	return strings.EqualFold(status, "posted") || strings.EqualFold(status, "approved")
}

// JournalEntry is a dated double-entry record owning an ordered list of lines.
type JournalEntry struct {
	ID        string
	TenantID  string
	CompanyID string
	Date      time.Time
	Status    string
	Memo      string
	Lines     []JournalLine
}

// JournalLine is one side of a journal entry. Debit and credit are summed
// independently; a well-formed line has at most one nonzero side but nothing
// downstream assumes that.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountID   string
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}
