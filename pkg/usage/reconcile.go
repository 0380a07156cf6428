package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrNoUsageData is recorded when the usage query returns no usable value.
var ErrNoUsageData = errors.New("no usage data returned")

// Reconciler turns the cumulative usage of each credential of a plan into an
// hourly delta and publishes it.
type Reconciler struct {
	logger   logrus.FieldLogger
	cfg      Config
	reader   UsageReader
	metrics  MetricsBackend
	resolver *Resolver
}

func NewReconciler(logger logrus.FieldLogger, cfg Config, reader UsageReader, metrics MetricsBackend) *Reconciler {
	return &Reconciler{
		logger:   logger.WithField("component", "reconciler"),
		cfg:      cfg,
		reader:   reader,
		metrics:  metrics,
		resolver: NewResolver(logger, metrics, cfg),
	}
}

// ReconcilePlan processes every credential of the plan in enumeration order.
// A failure of a single credential is logged and recorded in its result. A
// failure to list the plan's credentials is returned.
func (r *Reconciler) ReconcilePlan(ctx context.Context, plans PlanSource, plan UsagePlan, window Window) ([]CredentialResult, error) {
	logger := r.logger.WithField("usagePlan", plan.Name)

	listCtx, cancel := r.requestContext(ctx)
	creds, err := plans.ListUsagePlanKeys(listCtx, plan.ID)
	cancel()
	if err != nil {
		logger.WithError(err).Errorf("error processing usage data for %s", plan.Name)
		return nil, fmt.Errorf("failed to list keys of usage plan %s: %v", plan.Name, err)
	}

	var results []CredentialResult
	for _, cred := range creds {
		results = append(results, r.ReconcileCredential(ctx, plan, cred, window)...)
	}
	return results, nil
}

// ReconcileCredential fetches the current cumulative usage of a credential
// and publishes the delta for every key of the usage response. It never
// returns an error; failures are logged and recorded as OutcomeError.
func (r *Reconciler) ReconcileCredential(ctx context.Context, plan UsagePlan, cred Credential, window Window) []CredentialResult {
	logger := r.logger.WithFields(logrus.Fields{
		"usagePlan": plan.Name,
		"apiKey":    cred.Name,
	})

	readCtx, cancel := r.requestContext(ctx)
	items, err := r.reader.GetUsage(readCtx, plan.ID, cred.ID, window.Hour.Start, window.Hour.End)
	cancel()
	if err != nil {
		logger.WithError(err).Errorf("error getting usage for %s - %s", plan.Name, cred.Name)
		return []CredentialResult{r.record(CredentialResult{
			PlanName:       plan.Name,
			CredentialID:   cred.ID,
			CredentialName: cred.Name,
			Outcome:        OutcomeError,
			Error:          err.Error(),
		})}
	}

	if len(items) == 0 {
		logger.Errorf("no usage data found for %s - %s", plan.Name, cred.Name)
		res := CredentialResult{
			PlanName:       plan.Name,
			CredentialID:   cred.ID,
			CredentialName: cred.Name,
			Outcome:        OutcomeNoData,
			Error:          ErrNoUsageData.Error(),
		}
		return []CredentialResult{r.record(r.publishZero(ctx, logger, res, window, false))}
	}

	var results []CredentialResult
	for _, key := range items.Keys() {
		obs := items.Observation(key)
		res := CredentialResult{
			PlanName:       plan.Name,
			CredentialID:   cred.ID,
			CredentialName: cred.Name,
			Date:           obs.Date,
		}

		switch {
		case !obs.Present:
			logger.WithField("date", obs.Date).Errorf("error getting current usage for %s - %s", plan.Name, cred.Name)
			res.Outcome = OutcomeNoData
			res.Error = ErrNoUsageData.Error()
			res = r.publishZero(ctx, logger, res, window, false)
		case obs.Value <= 0:
			res.Outcome = OutcomeZeroPublished
			res = r.publishZero(ctx, logger, res, window, true)
		default:
			res = r.publishDelta(ctx, logger, res, obs.Value, window)
		}
		results = append(results, r.record(res))
	}
	return results
}

// publishZero writes a zero delta. When snapshot is set, the zero cumulative
// value is written too.
func (r *Reconciler) publishZero(ctx context.Context, logger logrus.FieldLogger, res CredentialResult, window Window, snapshot bool) CredentialResult {
	if err := r.publish(ctx, MetricKindHourlyDelta, res, 0, window); err != nil {
		logger.WithError(err).Errorf("error publishing usage for %s - %s", res.PlanName, res.CredentialName)
		res.Outcome = OutcomeError
		res.Error = err.Error()
		return res
	}
	if snapshot {
		res = r.publishSnapshot(ctx, logger, res, 0, window)
	}
	return res
}

func (r *Reconciler) publishDelta(ctx context.Context, logger logrus.FieldLogger, res CredentialResult, current int64, window Window) CredentialResult {
	prev := r.resolver.Resolve(ctx, res.PlanName, res.CredentialName, window.Hour.Start)
	res.Current = current
	res.Previous = prev.Value
	res.PreviousStatus = prev.Status
	res.Delta = Delta(current, prev.Value)
	res.Outcome = OutcomeDeltaPublished

	logger.Debugf("current usage %d, previous usage %d (%s), hourly requests %d", current, prev.Value, prev.Status, res.Delta)

	if err := r.publish(ctx, MetricKindHourlyDelta, res, res.Delta, window); err != nil {
		logger.WithError(err).Errorf("error publishing usage for %s - %s", res.PlanName, res.CredentialName)
		res.Outcome = OutcomeError
		res.Error = err.Error()
		return res
	}
	return r.publishSnapshot(ctx, logger, res, current, window)
}

func (r *Reconciler) publishSnapshot(ctx context.Context, logger logrus.FieldLogger, res CredentialResult, current int64, window Window) CredentialResult {
	if r.cfg.SingleSeries() {
		return res
	}
	if err := r.publish(ctx, MetricKindCumulative, res, current, window); err != nil {
		logger.WithError(err).Errorf("error publishing cumulative usage for %s - %s", res.PlanName, res.CredentialName)
		res.Outcome = OutcomeError
		res.Error = err.Error()
	}
	return res
}

func (r *Reconciler) publish(ctx context.Context, kind MetricKind, res CredentialResult, value int64, window Window) error {
	ctx, cancel := r.requestContext(ctx)
	defer cancel()
	return r.metrics.PutMetric(ctx, PublishedMetric{
		Kind:           kind,
		MetricName:     r.cfg.MetricName(kind),
		PlanName:       res.PlanName,
		CredentialName: res.CredentialName,
		Timestamp:      window.Hour.Start,
		Value:          value,
	})
}

func (r *Reconciler) record(res CredentialResult) CredentialResult {
	credentialsProcessedCounter.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (r *Reconciler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, r.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
