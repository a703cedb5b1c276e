// Package writer emits the selected bars as a single CSV artifact.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gapfade/internal/market"

	"github.com/shopspring/decimal"
)

// Header is the output column order: the day key, the resolved outcome, the
// daily metrics and then the intraday bar.
var Header = []string{
	"ticker", "Date", "final_outcome",
	"gap_percent", "gap_target", "pre_close_price", "Open", "Close", "avg_volume_30",
	"5minsTickerTime", "5minsOpen", "5minsClose",
	"Volume", "Market Cap", "Sector", "Company Short Name",
}

// Union concatenates the selected lose-day and win-day rows ordered by date,
// then ticker.
func Union(lose, win []market.FinalRow) []market.FinalRow {
	out := make([]market.FinalRow, 0, len(lose)+len(win))
	out = append(out, lose...)
	out = append(out, win...)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Key(), out[j].Key()
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Ticker < b.Ticker
	})
	return out
}

// WriteCSV replaces the file at path with rows. The data is written to a
// temporary file in the same directory and renamed into place, so a failed
// run leaves any previous output untouched and never a partial file.
func WriteCSV(path string, rows []market.FinalRow) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".gapfade-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(Record(r)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// Record renders one row in Header order.
func Record(r market.FinalRow) []string {
	d, b := r.Daily, r.Bar
	return []string{
		d.Ticker,
		d.Date,
		r.DayOutcome,
		nullString(d.GapPercent),
		nullString(d.GapTarget),
		nullString(d.PreClose),
		nullString(d.Open),
		nullString(d.Close),
		nullString(d.AvgVolume30),
		b.BarTimeText,
		nullString(b.BarOpen),
		b.BarClose.String(),
		nullString(b.Volume),
		nullString(b.MarketCap),
		b.Sector,
		b.CompanyName,
	}
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
