package pipeline

import (
	"gapfade/internal/market"
	"gapfade/internal/memorystore"
)

// Join inner-joins daily rows with intraday bars on (ticker, date). Each
// daily row fans out to one JoinedRow per bar of its day, bars in time
// order; days missing on either side produce nothing.
func Join(daily []market.DailyGapRow, bars []market.IntradayBar) []market.JoinedRow {
	store := memorystore.NewBarStore()
	store.AddAll(bars)

	var out []market.JoinedRow
	for _, d := range daily {
		for _, b := range store.GetByDay(d.Key()) {
			out = append(out, market.JoinedRow{Daily: d, Bar: b})
		}
	}
	return out
}
