// Package events defines the outbound event boundary for analytics runs.
package events

import (
	"context"
	"time"
)

// Topics published by the analytics generators.
const (
	TopicAnomalies       = "analytics.anomalies"
	TopicInsights        = "analytics.insights"
	TopicPredictions     = "analytics.predictions"
	TopicRecommendations = "analytics.recommendations"
)

// Publisher sends analytics events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// RunSummary is emitted after each generator run.
type RunSummary struct {
	Component string    `json:"component"`
	TenantID  string    `json:"tenant_id"`
	CompanyID string    `json:"company_id"`
	Produced  int       `json:"produced"`
	At        time.Time `json:"at"`
}

// Nop is a Publisher that discards everything; used when no broker is
// configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
