package loader

import (
	"context"
	"fmt"

	"gapfade/internal/market"
)

// LoadIntraday reads the intraday bar artifact at path. Timestamps are kept
// as raw text; parsing them belongs to the normalizer.
func LoadIntraday(ctx context.Context, path string, concurrency int) ([]market.IntradayRecord, error) {
	files, err := ResolveFiles(path)
	if err != nil {
		return nil, err
	}
	return loadAll(ctx, files, concurrency, parseIntradayFile)
}

func parseIntradayFile(path string) ([]market.IntradayRecord, error) {
	t, err := readTable(path, IntradayColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]market.IntradayRecord, 0, len(t.records))
	for i, record := range t.records {
		n := i + 1
		row := market.IntradayRecord{
			Ticker:      t.cell(record, ColIntradayTicker),
			RawTime:     t.cell(record, ColDate),
			Sector:      t.cell(record, ColSector),
			CompanyName: t.cell(record, ColCompanyName),
		}
		if row.Ticker == "" {
			return nil, &market.ParseError{Artifact: path, Row: n, Field: ColIntradayTicker, Err: fmt.Errorf("empty ticker")}
		}

		if row.Open, err = parseNullDecimal(t, n, record, ColOpen); err != nil {
			return nil, err
		}
		if row.Close, err = parseDecimal(t, n, record, ColClose); err != nil {
			return nil, err
		}
		if row.Volume, err = parseNullDecimal(t, n, record, ColVolume); err != nil {
			return nil, err
		}
		if row.MarketCap, err = parseNullDecimal(t, n, record, ColMarketCap); err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}
	return rows, nil
}
