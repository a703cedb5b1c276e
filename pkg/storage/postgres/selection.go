package postgres

import (
	"context"
	"fmt"
	"time"

	"gapfade/internal/market"

	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

// InsertSelections stores records, skipping any (ticker, date, outcome)
// already present. It returns the number of rows inserted.
func (p *PostgresClient) InsertSelections(ctx context.Context, records []*SelectionRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "ticker"},
			{Name: "trade_date"},
			{Name: "final_outcome"},
		},
		DoNothing: true,
	}).CreateInBatches(records, insertBatchSize)

	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

// SaveSelections converts the selected rows of a run and inserts them.
func (p *PostgresClient) SaveSelections(ctx context.Context, rows []market.FinalRow, candidateMode string) (int64, error) {
	records := make([]*SelectionRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := ToSelectionRecord(r, candidateMode)
		if err != nil {
			return 0, err
		}
		records = append(records, rec)
	}
	return p.InsertSelections(ctx, records)
}

func (p *PostgresClient) GetSelectionsByDate(ctx context.Context, date time.Time) ([]SelectionRecord, error) {
	var out []SelectionRecord
	err := p.DB.WithContext(ctx).
		Where("trade_date = ?", date.Format(market.DateLayout)).
		Order("ticker").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PostgresClient) DeleteSelectionsBefore(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("trade_date < ?", before.Format(market.DateLayout)).
		Delete(&SelectionRecord{}).Error
}

// ToSelectionRecord converts a selected row for DB insertion.
func ToSelectionRecord(r market.FinalRow, candidateMode string) (*SelectionRecord, error) {
	tradeDate, err := time.Parse(market.DateLayout, r.Daily.Date)
	if err != nil {
		return nil, fmt.Errorf("trade date %q: %w", r.Daily.Date, err)
	}
	if !r.Daily.GapPercent.Valid || !r.Daily.GapTarget.Valid {
		return nil, fmt.Errorf("%s %s: selected row without gap metrics", r.Daily.Ticker, r.Daily.Date)
	}

	return &SelectionRecord{
		Ticker:        r.Daily.Ticker,
		TradeDate:     tradeDate,
		FinalOutcome:  r.DayOutcome,
		GapPercent:    r.Daily.GapPercent.Decimal,
		GapTarget:     r.Daily.GapTarget.Decimal,
		PreClose:      r.Daily.PreClose,
		DayOpen:       r.Daily.Open,
		DayClose:      r.Daily.Close,
		AvgVolume30:   r.Daily.AvgVolume30,
		BarTime:       r.Bar.BarTime,
		BarOpen:       r.Bar.BarOpen,
		BarClose:      r.Bar.BarClose,
		Volume:        r.Bar.Volume,
		MarketCap:     r.Bar.MarketCap,
		Sector:        r.Bar.Sector,
		CompanyName:   r.Bar.CompanyName,
		CandidateMode: candidateMode,
	}, nil
}
