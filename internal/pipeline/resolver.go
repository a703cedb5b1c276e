package pipeline

import "gapfade/internal/market"

// OutcomeCounts holds the number of bars per bar outcome for one day.
type OutcomeCounts map[string]int

// CountOutcomes groups bars by (ticker, date, bar outcome).
func CountOutcomes(bars []market.ClassifiedBar) map[market.DayKey]OutcomeCounts {
	counts := make(map[market.DayKey]OutcomeCounts)
	for _, b := range bars {
		key := b.Key()
		if counts[key] == nil {
			counts[key] = make(OutcomeCounts, 2)
		}
		counts[key][b.BarOutcome]++
	}
	return counts
}

// DayOutcome resolves one day's label. A day that saw both outcomes is
// OutcomeMixedWin ("Win"); otherwise the single observed bar outcome is
// returned unchanged ("win" or "lose").
func DayOutcome(counts OutcomeCounts) string {
	if len(counts) == 2 {
		return market.OutcomeMixedWin
	}
	for outcome := range counts {
		return outcome
	}
	return ""
}

// ResolveDays attaches each day's outcome to every bar of that day.
func ResolveDays(bars []market.ClassifiedBar) []market.FinalRow {
	days := make(map[market.DayKey]string)
	for key, counts := range CountOutcomes(bars) {
		days[key] = DayOutcome(counts)
	}

	out := make([]market.FinalRow, 0, len(bars))
	for _, b := range bars {
		out = append(out, market.FinalRow{ClassifiedBar: b, DayOutcome: days[b.Key()]})
	}
	return out
}
