package usage

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// DefaultLookback is how far before the reconciled hour the previous
	// cumulative snapshot is searched for.
	DefaultLookback = 2 * time.Hour

	// DefaultLookbackPeriod is the bucket size of the previous-value query.
	DefaultLookbackPeriod = time.Hour

	// UsageDateFormat is the layout of the dates sent to the usage query.
	UsageDateFormat = "2006-01-02"
)

// Range is an uninterrupted period of time.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseTime parses a point in time given either as RFC3339 or as unix
// seconds. The result is in UTC.
func ParseTime(in string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, in); err == nil {
		return t.UTC(), nil
	}
	secs, err := strconv.ParseInt(in, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("couldn't parse '%s' as an RFC3339 timestamp or unix seconds", in)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Window is the hour being reconciled along with the lookback range used to
// find the previous cumulative snapshot.
type Window struct {
	// Hour is the hour that just ended.
	Hour Range `json:"hour"`
	// Lookback ends at the start of Hour.
	Lookback Range `json:"lookback"`
}

// HourWindow returns the Window for the hour that ended most recently
// before now.
func HourWindow(now time.Time, lookback time.Duration) Window {
	currentHour := now.UTC().Truncate(time.Hour)
	previousHour := currentHour.Add(-time.Hour)
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return Window{
		Hour: Range{
			Start: previousHour,
			End:   currentHour,
		},
		Lookback: Range{
			Start: previousHour.Add(-lookback),
			End:   previousHour,
		},
	}
}

// StartDate is the first date of the usage query for this window.
func (w Window) StartDate() string {
	return w.Hour.Start.Format(UsageDateFormat)
}

// EndDate is the last date of the usage query for this window.
func (w Window) EndDate() string {
	return w.Hour.End.Format(UsageDateFormat)
}

func (w Window) String() string {
	return fmt.Sprintf("%s to %s", w.Hour.Start.Format(time.RFC3339), w.Hour.End.Format(time.RFC3339))
}
