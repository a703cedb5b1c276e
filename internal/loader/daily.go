package loader

import (
	"context"
	"fmt"
	"time"

	"gapfade/internal/market"
)

// LoadDaily reads the daily gap artifact at path.
func LoadDaily(ctx context.Context, path string, concurrency int) ([]market.DailyGapRow, error) {
	files, err := ResolveFiles(path)
	if err != nil {
		return nil, err
	}
	return loadAll(ctx, files, concurrency, parseDailyFile)
}

func parseDailyFile(path string) ([]market.DailyGapRow, error) {
	t, err := readTable(path, DailyColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]market.DailyGapRow, 0, len(t.records))
	for i, record := range t.records {
		row, err := parseDailyRecord(t, i+1, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDailyRecord(t *table, n int, record []string) (market.DailyGapRow, error) {
	row := market.DailyGapRow{Ticker: t.cell(record, ColTicker)}

	// pandas writes either "2024-12-27" or "2024-12-27 00:00:00"
	rawDate := t.cell(record, ColDate)
	date := rawDate
	if len(date) > len(market.DateLayout) {
		date = date[:len(market.DateLayout)]
	}
	if _, err := time.Parse(market.DateLayout, date); err != nil {
		return row, &market.ParseError{Artifact: t.artifact, Row: n, Field: ColDate, Value: rawDate, Err: err}
	}
	row.Date = date

	var err error
	if row.Open, err = parseNullDecimal(t, n, record, ColOpen); err != nil {
		return row, err
	}
	if row.Close, err = parseNullDecimal(t, n, record, ColClose); err != nil {
		return row, err
	}
	if row.PreClose, err = parseNullDecimal(t, n, record, ColPreClose); err != nil {
		return row, err
	}
	if row.GapPercent, err = parseNullDecimal(t, n, record, ColGapPercent); err != nil {
		return row, err
	}
	if row.GapTarget, err = parseNullDecimal(t, n, record, ColGapTarget); err != nil {
		return row, err
	}
	if row.AvgVolume30, err = parseNullDecimal(t, n, record, ColAvgVolume30); err != nil {
		return row, err
	}

	if row.Ticker == "" {
		return row, &market.ParseError{Artifact: t.artifact, Row: n, Field: ColTicker, Err: fmt.Errorf("empty ticker")}
	}
	return row, nil
}
