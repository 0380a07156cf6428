package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"
)

// Driver reconciles the hour that just ended for every usage plan.
type Driver struct {
	logger     logrus.FieldLogger
	clock      clock.Clock
	cfg        Config
	plans      PlanSource
	reconciler *Reconciler
}

func NewDriver(logger logrus.FieldLogger, clk clock.Clock, cfg Config, plans PlanSource, reader UsageReader, metrics MetricsBackend) *Driver {
	return &Driver{
		logger:     logger.WithField("component", "driver"),
		clock:      clk,
		cfg:        cfg,
		plans:      plans,
		reconciler: NewReconciler(logger, cfg, reader, metrics),
	}
}

// Run reconciles the hour before the driver's current time.
func (d *Driver) Run(ctx context.Context) (*RunSummary, error) {
	return d.RunAt(ctx, d.clock.Now())
}

// RunAt reconciles the hour before now. Plans are processed sequentially; the
// first plan whose credentials can't be listed stops the run and its error is
// returned alongside the partial summary.
func (d *Driver) RunAt(ctx context.Context, now time.Time) (*RunSummary, error) {
	window := HourWindow(now, d.cfg.lookback())
	summary := &RunSummary{
		Window:    window,
		StartedAt: d.clock.Now().UTC(),
	}
	logger := d.logger.WithField("hour", window.Hour.Start.Format(time.RFC3339))
	logger.Infof("reconciling usage from %s", window)

	defer func() {
		summary.FinishedAt = d.clock.Now().UTC()
		runDurationHistogram.Observe(summary.FinishedAt.Sub(summary.StartedAt).Seconds())
	}()

	plans, err := d.plans.ListUsagePlans(ctx)
	if err != nil {
		logger.WithError(err).Error("error listing usage plans")
		return summary, fmt.Errorf("failed to list usage plans: %v", err)
	}
	summary.Plans = len(plans)

	for _, plan := range plans {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		results, err := d.reconciler.ReconcilePlan(ctx, d.plans, plan, window)
		if err != nil {
			return summary, err
		}
		summary.Results = append(summary.Results, results...)
		summary.Credentials += countCredentials(results)
	}

	lastSuccessGauge.Set(float64(d.clock.Now().Unix()))
	logger.Infof("processed %d usage plans, %d credentials", summary.Plans, summary.Credentials)
	return summary, nil
}

// countCredentials counts distinct credentials in a plan's results; a
// credential may contribute more than one result. Names aren't unique, so
// credentials are told apart by ID.
func countCredentials(results []CredentialResult) int {
	seen := make(map[string]struct{}, len(results))
	for _, res := range results {
		seen[res.CredentialID] = struct{}{}
	}
	return len(seen)
}
