package usage

import (
	"fmt"
	"sort"
	"time"
)

// UsagePlan identifies a metering policy in the metering API.
type UsagePlan struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Credential is an API key consuming quota under a UsagePlan.
type Credential struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UsageItems is the raw response of a usage query: each key maps to a
// sequence of [value, ...] tuples.
type UsageItems map[string][][]int64

// Keys returns the keys of the usage response in sorted order.
func (items UsageItems) Keys() []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Observation returns the cumulative value for the given key. The value is
// the first element of the first tuple; Present is false if the response
// doesn't have that shape.
func (items UsageItems) Observation(key string) Observation {
	obs := Observation{Date: key}
	seq, ok := items[key]
	if !ok || len(seq) == 0 || len(seq[0]) == 0 {
		return obs
	}
	obs.Value = seq[0][0]
	obs.Present = true
	return obs
}

// Observation is a cumulative usage counter value reported by the metering
// API for a single key of a usage query.
type Observation struct {
	Date    string
	Value   int64
	Present bool
}

// CumulativeObservation is an Observation attributed to a plan and credential.
type CumulativeObservation struct {
	PlanName       string `json:"planName"`
	CredentialName string `json:"credentialName"`
	Date           string `json:"date"`
	Value          int64  `json:"value"`
}

// MetricKind distinguishes the two series written to the metrics backend.
type MetricKind int

const (
	// MetricKindCumulative is the raw cumulative snapshot, read back as the
	// previous value on the next run.
	MetricKindCumulative MetricKind = iota
	// MetricKindHourlyDelta is the computed usage of the reconciled hour.
	MetricKindHourlyDelta
)

func (k MetricKind) String() string {
	switch k {
	case MetricKindCumulative:
		return "cumulative"
	case MetricKindHourlyDelta:
		return "hourly_delta"
	default:
		return fmt.Sprintf("MetricKind(%d)", int(k))
	}
}

// PublishedMetric is a single data point written to the metrics backend.
type PublishedMetric struct {
	Kind           MetricKind `json:"kind"`
	MetricName     string     `json:"metricName"`
	PlanName       string     `json:"planName"`
	CredentialName string     `json:"credentialName"`
	Timestamp      time.Time  `json:"timestamp"`
	Value          int64      `json:"value"`
}

// MetricQuery selects the hourly maximums of a single series.
type MetricQuery struct {
	MetricName     string
	PlanName       string
	CredentialName string
	Start          time.Time
	End            time.Time
	Period         time.Duration
}

// Outcome is the terminal state of reconciling a single usage key for a
// credential.
type Outcome string

const (
	// OutcomeDeltaPublished means a delta was computed against a previous
	// value and published.
	OutcomeDeltaPublished Outcome = "delta_published"
	// OutcomeZeroPublished means the current value was zero, so zero was
	// published without looking up the previous value.
	OutcomeZeroPublished Outcome = "zero_published"
	// OutcomeNoData means the usage query returned nothing usable and an
	// explicit zero was published.
	OutcomeNoData Outcome = "no_data"
	// OutcomeError means the credential could not be processed.
	OutcomeError Outcome = "error"
)

// CredentialResult records what happened to one plan/credential pair.
type CredentialResult struct {
	PlanName       string       `json:"planName"`
	CredentialID   string       `json:"credentialId"`
	CredentialName string       `json:"credentialName"`
	Date           string       `json:"date,omitempty"`
	Outcome        Outcome      `json:"outcome"`
	Current        int64        `json:"current"`
	Previous       int64        `json:"previous"`
	PreviousStatus LookupStatus `json:"previousStatus,omitempty"`
	Delta          int64        `json:"delta"`
	Error          string       `json:"error,omitempty"`
}

// RunSummary is the result of one invocation of the Driver.
type RunSummary struct {
	Window      Window             `json:"window"`
	StartedAt   time.Time          `json:"startedAt"`
	FinishedAt  time.Time          `json:"finishedAt"`
	Plans       int                `json:"plans"`
	Credentials int                `json:"credentials"`
	Results     []CredentialResult `json:"results"`
}

// Count returns how many results ended with the given outcome.
func (s *RunSummary) Count(outcome Outcome) int {
	n := 0
	for _, res := range s.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}
