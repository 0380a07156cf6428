package usage

import (
	"errors"
	"time"
)

const (
	// LegacyMetricName is the single series name used when cumulative
	// snapshots and deltas share one metric.
	LegacyMetricName = "Usage"

	DefaultCumulativeMetricName = "UsageCumulative"
	DefaultDeltaMetricName      = "UsageHourlyDelta"
)

// Config controls how usage is reconciled.
type Config struct {
	CumulativeMetricName string
	DeltaMetricName      string

	// Lookback is the length of the range searched for the previous
	// cumulative snapshot, ending at the start of the reconciled hour.
	Lookback time.Duration
	// LookbackPeriod is the aggregation period of the previous-value query.
	LookbackPeriod time.Duration

	// RequestTimeout bounds each call to the metering and metrics APIs. Zero
	// leaves the client defaults in place.
	RequestTimeout time.Duration
}

// DefaultConfig returns a Config writing two distinct series.
func DefaultConfig() Config {
	return Config{
		CumulativeMetricName: DefaultCumulativeMetricName,
		DeltaMetricName:      DefaultDeltaMetricName,
		Lookback:             DefaultLookback,
		LookbackPeriod:       DefaultLookbackPeriod,
	}
}

// Validate returns an error if the config can't be used.
func (c Config) Validate() error {
	if c.CumulativeMetricName == "" || c.DeltaMetricName == "" {
		return errors.New("metric names must not be empty")
	}
	if c.Lookback < 0 || c.LookbackPeriod < 0 {
		return errors.New("lookback durations must not be negative")
	}
	if c.LookbackPeriod > 0 && c.LookbackPeriod%time.Second != 0 {
		return errors.New("lookback period must be a whole number of seconds")
	}
	return nil
}

// MetricName returns the series name written for the given kind.
func (c Config) MetricName(kind MetricKind) string {
	if kind == MetricKindCumulative {
		return c.CumulativeMetricName
	}
	return c.DeltaMetricName
}

// SingleSeries is true when cumulative snapshots and deltas are configured to
// share one metric name. In that mode only the delta is written, and the
// previous value is read back from the delta series.
func (c Config) SingleSeries() bool {
	return c.CumulativeMetricName == c.DeltaMetricName
}

func (c Config) lookback() time.Duration {
	if c.Lookback <= 0 {
		return DefaultLookback
	}
	return c.Lookback
}

func (c Config) lookbackPeriod() time.Duration {
	if c.LookbackPeriod <= 0 {
		return DefaultLookbackPeriod
	}
	return c.LookbackPeriod
}
