package summary

// GoalProgress returns display progress towards a savings goal as a
// percentage clamped to [0, 100]. The stored current amount may exceed the
// target; the clamp is display-only. A non-positive target reads as 0 when
// nothing is saved and 100 otherwise.
func GoalProgress(current, target int64) float64 {
	if target <= 0 {
		if current <= 0 {
			return 0
		}
		return 100
	}
	p := float64(current) / float64(target) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// GoalCompletable reports whether the "mark complete" action is available:
// clamped progress has reached 100, independent of the stored completed flag.
func GoalCompletable(current, target int64) bool {
	return GoalProgress(current, target) >= 100
}
