package pipeline

import (
	"fmt"
	"time"

	"gapfade/internal/market"
)

// TimestampLayout is the fixed form of the leading part of every intraday
// timestamp. Anything after it (fractional seconds, zone offset) is ignored.
const TimestampLayout = "2006-01-02 15:04:05"

// NormalizeIntraday parses bar timestamps, derives the trading date and keeps
// bars whose hour and minute fall before cutoff. Seconds are not compared,
// so with a 12:30 cutoff a 12:29:59 bar is kept and 12:30:00 is not.
//
// A timestamp that does not parse is fatal; artifact names the source in
// the returned ParseError.
func NormalizeIntraday(records []market.IntradayRecord, cutoff time.Duration, artifact string) ([]market.IntradayBar, error) {
	cutoffMinutes := int(cutoff / time.Minute)

	var out []market.IntradayBar
	for i, rec := range records {
		ts, text, err := parseBarTime(rec.RawTime)
		if err != nil {
			return nil, &market.ParseError{Artifact: artifact, Row: i + 1, Field: "Date", Value: rec.RawTime, Err: err}
		}

		if ts.Hour()*60+ts.Minute() >= cutoffMinutes {
			continue
		}

		out = append(out, market.IntradayBar{
			Ticker:      rec.Ticker,
			Date:        ts.Format(market.DateLayout),
			BarTimeText: text,
			BarTime:     ts,
			BarOpen:     rec.Open,
			BarClose:    rec.Close,
			Volume:      rec.Volume,
			MarketCap:   rec.MarketCap,
			Sector:      rec.Sector,
			CompanyName: rec.CompanyName,
		})
	}
	return out, nil
}

// parseBarTime reads the first 19 characters of raw as local exchange time.
func parseBarTime(raw string) (time.Time, string, error) {
	if len(raw) < len(TimestampLayout) {
		return time.Time{}, "", fmt.Errorf("timestamp shorter than %d characters", len(TimestampLayout))
	}
	text := raw[:len(TimestampLayout)]
	ts, err := time.Parse(TimestampLayout, text)
	if err != nil {
		return time.Time{}, "", err
	}
	return ts, text, nil
}
