package usage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := map[string]struct {
		in       string
		expected time.Time
		// errContains should be a substring of the error returned
		errContains string
	}{
		"RFC3339": {
			in:       "2020-03-10T14:05:00Z",
			expected: time.Date(2020, 3, 10, 14, 5, 0, 0, time.UTC),
		},
		"RFC3339 with offset is converted to UTC": {
			in:       "2020-03-10T09:05:00-05:00",
			expected: time.Date(2020, 3, 10, 14, 5, 0, 0, time.UTC),
		},
		"unix seconds": {
			in:       "1583849100",
			expected: time.Date(2020, 3, 10, 14, 5, 0, 0, time.UTC),
		},
		"garbage": {
			in:          "14974 72873",
			errContains: "unix seconds",
		},
	}

	for testName, tt := range tests {
		testName := testName
		tt := tt
		t.Run(testName, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, strings.ToLower(err.Error()), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestHourWindow(t *testing.T) {
	tests := map[string]struct {
		now       time.Time
		lookback  time.Duration
		hourStart time.Time
		startDate string
		endDate   string
	}{
		"middle of the day": {
			now:       time.Date(2020, 3, 10, 14, 7, 31, 0, time.UTC),
			lookback:  2 * time.Hour,
			hourStart: time.Date(2020, 3, 10, 13, 0, 0, 0, time.UTC),
			startDate: "2020-03-10",
			endDate:   "2020-03-10",
		},
		"just after midnight spans two dates": {
			now:       time.Date(2020, 3, 11, 0, 5, 0, 0, time.UTC),
			lookback:  2 * time.Hour,
			hourStart: time.Date(2020, 3, 10, 23, 0, 0, 0, time.UTC),
			startDate: "2020-03-10",
			endDate:   "2020-03-11",
		},
		"non UTC time is converted": {
			now:       time.Date(2020, 3, 10, 9, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			lookback:  0,
			hourStart: time.Date(2020, 3, 10, 13, 0, 0, 0, time.UTC),
			startDate: "2020-03-10",
			endDate:   "2020-03-10",
		},
	}

	for testName, tt := range tests {
		testName := testName
		tt := tt
		t.Run(testName, func(t *testing.T) {
			w := HourWindow(tt.now, tt.lookback)
			assert.Equal(t, tt.hourStart, w.Hour.Start)
			assert.Equal(t, tt.hourStart.Add(time.Hour), w.Hour.End)
			assert.Equal(t, tt.hourStart, w.Lookback.End, "lookback ends at the start of the hour")
			assert.Equal(t, tt.hourStart.Add(-DefaultLookback), w.Lookback.Start)
			assert.Equal(t, tt.startDate, w.StartDate())
			assert.Equal(t, tt.endDate, w.EndDate())
		})
	}
}

func TestUsageItemsObservation(t *testing.T) {
	items := UsageItems{
		"2020-03-10": {{150, 850}, {10, 990}},
		"2020-03-11": {},
		"2020-03-12": {{}},
	}

	assert.Equal(t, []string{"2020-03-10", "2020-03-11", "2020-03-12"}, items.Keys())
	assert.Equal(t, Observation{Date: "2020-03-10", Value: 150, Present: true}, items.Observation("2020-03-10"))
	assert.False(t, items.Observation("2020-03-11").Present, "empty sequence has no value")
	assert.False(t, items.Observation("2020-03-12").Present, "empty tuple has no value")
	assert.False(t, items.Observation("missing").Present)
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.SingleSeries())
	assert.Equal(t, DefaultCumulativeMetricName, cfg.MetricName(MetricKindCumulative))
	assert.Equal(t, DefaultDeltaMetricName, cfg.MetricName(MetricKindHourlyDelta))

	cfg.CumulativeMetricName = LegacyMetricName
	cfg.DeltaMetricName = LegacyMetricName
	assert.True(t, cfg.SingleSeries())

	cfg.DeltaMetricName = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LookbackPeriod = 1500 * time.Millisecond
	assert.Error(t, cfg.Validate())
}
