package pipeline

import (
	"gapfade/internal/market"

	"github.com/shopspring/decimal"
)

// FilterGaps keeps days whose gap_percent lies in [min, max]. Days without a
// gap percent or target (no prior close) are dropped.
func FilterGaps(rows []market.DailyGapRow, min, max decimal.Decimal) []market.DailyGapRow {
	var out []market.DailyGapRow
	for _, r := range rows {
		if !r.GapPercent.Valid || !r.GapTarget.Valid {
			continue
		}
		gap := r.GapPercent.Decimal
		if gap.LessThan(min) || gap.GreaterThan(max) {
			continue
		}
		out = append(out, r)
	}
	return out
}
