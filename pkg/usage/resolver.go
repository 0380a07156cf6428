package usage

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// LookupStatus tells how a previous value was obtained.
type LookupStatus string

const (
	// LookupFound means a prior cumulative snapshot exists in the lookback range.
	LookupFound LookupStatus = "found"
	// LookupNotFound means the query succeeded but returned no data points.
	LookupNotFound LookupStatus = "not_found"
	// LookupFailed means the query failed and the value defaulted to zero.
	LookupFailed LookupStatus = "failed"
)

// PreviousValue is the result of resolving the last published cumulative
// value. Value is zero unless Status is LookupFound.
type PreviousValue struct {
	Value  int64
	Status LookupStatus
	Err    error
}

// Resolver looks up the most recent cumulative snapshot published for a
// plan/credential pair.
type Resolver struct {
	logger  logrus.FieldLogger
	metrics MetricsBackend
	cfg     Config
}

func NewResolver(logger logrus.FieldLogger, metrics MetricsBackend, cfg Config) *Resolver {
	return &Resolver{
		logger:  logger.WithField("component", "previousValueResolver"),
		metrics: metrics,
		cfg:     cfg,
	}
}

// Resolve returns the latest hourly maximum of the cumulative series in the
// lookback range ending at ref. A failed query is logged and resolves to
// zero; it is never retried.
func (r *Resolver) Resolve(ctx context.Context, planName, credentialName string, ref time.Time) PreviousValue {
	logger := r.logger.WithFields(logrus.Fields{
		"usagePlan": planName,
		"apiKey":    credentialName,
	})

	query := MetricQuery{
		MetricName:     r.cfg.MetricName(MetricKindCumulative),
		PlanName:       planName,
		CredentialName: credentialName,
		Start:          ref.Add(-r.cfg.lookback()),
		End:            ref,
		Period:         r.cfg.lookbackPeriod(),
	}

	if r.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.RequestTimeout)
		defer cancel()
	}

	values, err := r.metrics.GetMetricMaximums(ctx, query)
	if err != nil {
		logger.WithError(err).Errorf("error getting previous usage for %s - %s", planName, credentialName)
		previousLookupsCounter.WithLabelValues(string(LookupFailed)).Inc()
		return PreviousValue{Status: LookupFailed, Err: err}
	}
	if len(values) == 0 {
		logger.Debugf("no previous usage between %s and %s", query.Start.Format(time.RFC3339), query.End.Format(time.RFC3339))
		previousLookupsCounter.WithLabelValues(string(LookupNotFound)).Inc()
		return PreviousValue{Status: LookupNotFound}
	}

	last := values[len(values)-1]
	if math.IsNaN(last) || last < 0 {
		last = 0
	}
	previousLookupsCounter.WithLabelValues(string(LookupFound)).Inc()
	return PreviousValue{Value: int64(math.Round(last)), Status: LookupFound}
}
