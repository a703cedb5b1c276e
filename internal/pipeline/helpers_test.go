package pipeline

import (
	"time"

	"gapfade/internal/market"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func dailyRow(ticker, date, gapPercent, gapTarget string) market.DailyGapRow {
	return market.DailyGapRow{
		Ticker:     ticker,
		Date:       date,
		GapPercent: nullDec(gapPercent),
		GapTarget:  nullDec(gapTarget),
	}
}

func sessionBar(ticker, ts, close string) market.IntradayBar {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		panic(err)
	}
	return market.IntradayBar{
		Ticker:      ticker,
		Date:        t.Format(market.DateLayout),
		BarTimeText: ts,
		BarTime:     t,
		BarClose:    dec(close),
	}
}

// finalRows runs join, classify and resolve over one day's bars.
func finalRows(d market.DailyGapRow, bars ...market.IntradayBar) []market.FinalRow {
	return ResolveDays(ClassifyAll(Join([]market.DailyGapRow{d}, bars)))
}
