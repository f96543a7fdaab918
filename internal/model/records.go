package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnomalyKind tags the detection pass that produced an anomaly.
type AnomalyKind string

const (
	AnomalyDuplicate     AnomalyKind = "duplicate"
	AnomalyUnusualAmount AnomalyKind = "unusual_amount"
)

// AnomalyRecord is an append-only flag on a suspicious transaction.
// Confidence is in [0,1]. Records are never mutated after creation.
type AnomalyRecord struct {
	ID            string
	TenantID      string
	CompanyID     string
	TransactionID string
	Kind          AnomalyKind
	Confidence    float64
	CreatedAt     time.Time
}

// InsightPriority orders insights for display.
type InsightPriority string

const (
	PriorityLow    InsightPriority = "low"
	PriorityMedium InsightPriority = "medium"
	PriorityHigh   InsightPriority = "high"
)

// InsightRecord is a human-readable finding over recent financial activity.
type InsightRecord struct {
	ID        string
	TenantID  string
	CompanyID string
	Category  string
	Message   string
	Priority  InsightPriority
	CreatedAt time.Time
}

// PredictionRecord is one forecast horizon step. The confidence band brackets
// the predicted value at 80% / 120%.
type PredictionRecord struct {
	ID             string
	TenantID       string
	CompanyID      string
	Type           string // "revenue" or "expense"
	Predicted      decimal.Decimal
	ConfidenceLow  decimal.Decimal
	ConfidenceHigh decimal.Decimal
	TargetDate     time.Time
	CreatedAt      time.Time
}

// RecommendationRecord is a rule-based suggestion for the business owner.
type RecommendationRecord struct {
	ID        string
	TenantID  string
	CompanyID string
	Type      string
	Message   string
	CreatedAt time.Time
}
