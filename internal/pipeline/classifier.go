package pipeline

import "gapfade/internal/market"

// ClassifyBar labels a bar win when it closes strictly above the gap target.
// A close equal to the target is a lose.
func ClassifyBar(row market.JoinedRow) string {
	if row.Bar.BarClose.GreaterThan(row.GapTarget()) {
		return market.OutcomeWin
	}
	return market.OutcomeLose
}

func ClassifyAll(rows []market.JoinedRow) []market.ClassifiedBar {
	out := make([]market.ClassifiedBar, 0, len(rows))
	for _, r := range rows {
		out = append(out, market.ClassifiedBar{JoinedRow: r, BarOutcome: ClassifyBar(r)})
	}
	return out
}
