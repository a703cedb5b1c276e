package pipeline

import (
	"sort"

	"gapfade/internal/market"
)

// FirstPerPartition groups rows by key, orders each group with less and
// returns the head of every group. Groups appear in order of first
// occurrence; rows equal under less keep their input order.
func FirstPerPartition[T any, K comparable](rows []T, key func(T) K, less func(a, b T) bool) []T {
	var order []K
	groups := make(map[K][]T)
	for _, r := range rows {
		k := key(r)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool { return less(g[i], g[j]) })
		out = append(out, g[0])
	}
	return out
}

func finalRowKey(r market.FinalRow) market.DayKey {
	return r.Key()
}

// SelectLoseDays picks, for every "lose" day, the candidate bar with the
// highest close. In contrary mode candidates close above the gap target, in
// confirming mode below it.
func SelectLoseDays(rows []market.FinalRow, mode CandidateMode) []market.FinalRow {
	var candidates []market.FinalRow
	for _, r := range rows {
		if r.DayOutcome != market.OutcomeLose {
			continue
		}
		cmp := r.Bar.BarClose.Cmp(r.GapTarget())
		if (mode == CandidateConfirming && cmp < 0) || (mode != CandidateConfirming && cmp > 0) {
			candidates = append(candidates, r)
		}
	}

	return FirstPerPartition(candidates, finalRowKey, func(a, b market.FinalRow) bool {
		return a.Bar.BarClose.GreaterThan(b.Bar.BarClose)
	})
}

// SelectWinDays picks, for every mixed "Win" day, the earliest candidate bar.
// In contrary mode candidates close below the gap target, in confirming mode
// above it.
func SelectWinDays(rows []market.FinalRow, mode CandidateMode) []market.FinalRow {
	var candidates []market.FinalRow
	for _, r := range rows {
		if r.DayOutcome != market.OutcomeMixedWin {
			continue
		}
		cmp := r.Bar.BarClose.Cmp(r.GapTarget())
		if (mode == CandidateConfirming && cmp > 0) || (mode != CandidateConfirming && cmp < 0) {
			candidates = append(candidates, r)
		}
	}

	return FirstPerPartition(candidates, finalRowKey, func(a, b market.FinalRow) bool {
		return a.Bar.BarTime.Before(b.Bar.BarTime)
	})
}
