package usage

// Delta returns the usage accrued between the previous and current
// cumulative counter values. It is never negative: a counter that did not
// advance or went backwards, for example across a billing period rollover,
// yields zero.
func Delta(current, previous int64) int64 {
	if current <= 0 {
		return 0
	}
	if current <= previous {
		return 0
	}
	return current - previous
}
