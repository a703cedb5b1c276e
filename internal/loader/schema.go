package loader

import (
	"strings"

	"gapfade/internal/market"

	"github.com/shopspring/decimal"
)

// Daily gap artifact columns.
const (
	ColTicker      = "ticker"
	ColDate        = "Date"
	ColGapPercent  = "gap_percent"
	ColGapTarget   = "gap_target"
	ColPreClose    = "pre_close_price"
	ColOpen        = "Open"
	ColClose       = "Close"
	ColAvgVolume30 = "avg_volume_30"
)

// Intraday bar artifact columns. Date holds the combined date-time.
const (
	ColIntradayTicker = "Ticker"
	ColVolume         = "Volume"
	ColMarketCap      = "Market Cap"
	ColSector         = "Sector"
	ColCompanyName    = "Company Short Name"
)

var DailyColumns = []string{
	ColTicker, ColDate, ColGapPercent, ColGapTarget, ColPreClose, ColOpen, ColClose, ColAvgVolume30,
}

var IntradayColumns = []string{
	ColIntradayTicker, ColDate, ColOpen, ColClose, ColVolume, ColMarketCap, ColSector, ColCompanyName,
}

// checkColumns matches names exactly; the two artifacts differ only in case
// for some columns, so case-insensitive matching would be ambiguous.
func checkColumns(artifact string, columns map[string]int, required []string) error {
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return &market.SchemaError{Artifact: artifact, Column: name}
		}
	}
	return nil
}

// isNull reports cells pandas and Spark write for missing numbers.
func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none":
		return true
	}
	return false
}

func parseNullDecimal(t *table, row int, record []string, column string) (decimal.NullDecimal, error) {
	raw := t.cell(record, column)
	if isNull(raw) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, &market.ParseError{Artifact: t.artifact, Row: row, Field: column, Value: raw, Err: err}
	}
	return decimal.NewNullDecimal(d), nil
}

func parseDecimal(t *table, row int, record []string, column string) (decimal.Decimal, error) {
	raw := t.cell(record, column)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &market.ParseError{Artifact: t.artifact, Row: row, Field: column, Value: raw, Err: err}
	}
	return d, nil
}
