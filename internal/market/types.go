package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome labels. Bar labels are lowercase; only a mixed day carries the
// capitalized OutcomeMixedWin.
const (
	OutcomeWin      = "win"
	OutcomeLose     = "lose"
	OutcomeMixedWin = "Win"
)

// DateLayout is the calendar-date form used for keys and output.
const DateLayout = "2006-01-02"

// DayKey identifies one ticker's trading day.
type DayKey struct {
	Ticker string
	Date   string // yyyy-MM-dd
}

// DailyGapRow is one row of the daily gap dataset. GapPercent, GapTarget and
// PreClose are null on a ticker's first day, which has no prior close.
type DailyGapRow struct {
	Ticker      string
	Date        string // yyyy-MM-dd
	Open        decimal.NullDecimal
	Close       decimal.NullDecimal
	PreClose    decimal.NullDecimal
	GapPercent  decimal.NullDecimal
	GapTarget   decimal.NullDecimal
	AvgVolume30 decimal.NullDecimal
}

func (r DailyGapRow) Key() DayKey {
	return DayKey{Ticker: r.Ticker, Date: r.Date}
}

// IntradayRecord is a 5-minute bar as read from disk, before the timestamp
// has been parsed.
type IntradayRecord struct {
	Ticker      string
	RawTime     string // "yyyy-MM-dd HH:mm:ss" plus optional suffix
	Open        decimal.NullDecimal
	Close       decimal.Decimal
	Volume      decimal.NullDecimal
	MarketCap   decimal.NullDecimal
	Sector      string
	CompanyName string
}

// IntradayBar is a normalized intraday bar. Fields are named apart from the
// daily row's open/close so the joined shape has no ambiguity.
type IntradayBar struct {
	Ticker      string
	Date        string // derived from BarTime
	BarTimeText string // first 19 characters of the source timestamp
	BarTime     time.Time
	BarOpen     decimal.NullDecimal
	BarClose    decimal.Decimal
	Volume      decimal.NullDecimal
	MarketCap   decimal.NullDecimal
	Sector      string
	CompanyName string
}

func (b IntradayBar) Key() DayKey {
	return DayKey{Ticker: b.Ticker, Date: b.Date}
}

// JoinedRow pairs one intraday bar with its day's gap metrics.
type JoinedRow struct {
	Daily DailyGapRow
	Bar   IntradayBar
}

func (r JoinedRow) Key() DayKey {
	return r.Daily.Key()
}

// GapTarget returns the daily target. Rows only reach the joiner after the
// gap filter has required it, so the zero value is never observed.
func (r JoinedRow) GapTarget() decimal.Decimal {
	return r.Daily.GapTarget.Decimal
}

// ClassifiedBar is a JoinedRow labeled win or lose.
type ClassifiedBar struct {
	JoinedRow
	BarOutcome string
}

// FinalRow is a ClassifiedBar carrying its day's resolved outcome.
type FinalRow struct {
	ClassifiedBar
	DayOutcome string
}
