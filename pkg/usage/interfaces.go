package usage

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mockusage/mock_usage.go -package=mockusage github.com/operator-framework/usage-metering/pkg/usage PlanSource,UsageReader,MetricsBackend

// PlanSource enumerates usage plans and the credentials attached to them.
type PlanSource interface {
	ListUsagePlans(ctx context.Context) ([]UsagePlan, error)
	ListUsagePlanKeys(ctx context.Context, planID string) ([]Credential, error)
}

// UsageReader returns the cumulative usage recorded for a credential under a
// plan for the dates between start and end, inclusive.
type UsageReader interface {
	GetUsage(ctx context.Context, planID, credentialID string, start, end time.Time) (UsageItems, error)
}

// MetricsBackend reads and writes the published usage series.
type MetricsBackend interface {
	// GetMetricMaximums returns the maximum of each period of the queried
	// series, oldest first.
	GetMetricMaximums(ctx context.Context, query MetricQuery) ([]float64, error)
	PutMetric(ctx context.Context, metric PublishedMetric) error
}
