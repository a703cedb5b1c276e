package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectionRecord is one selected bar of a gap-fade run.
type SelectionRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Ticker       string    `gorm:"type:text;not null;index:idx_selection_ticker;index:idx_ticker_date_outcome,unique"`
	TradeDate    time.Time `gorm:"type:date;not null;index:idx_ticker_date_outcome,unique"`
	FinalOutcome string    `gorm:"type:varchar(8);not null;index:idx_ticker_date_outcome,unique"`

	GapPercent  decimal.Decimal     `gorm:"type:numeric;not null"`
	GapTarget   decimal.Decimal     `gorm:"type:numeric;not null"`
	PreClose    decimal.NullDecimal `gorm:"type:numeric"`
	DayOpen     decimal.NullDecimal `gorm:"type:numeric"`
	DayClose    decimal.NullDecimal `gorm:"type:numeric"`
	AvgVolume30 decimal.NullDecimal `gorm:"type:numeric"`

	BarTime   time.Time           `gorm:"not null"`
	BarOpen   decimal.NullDecimal `gorm:"type:numeric"`
	BarClose  decimal.Decimal     `gorm:"type:numeric;not null"`
	Volume    decimal.NullDecimal `gorm:"type:numeric"`
	MarketCap decimal.NullDecimal `gorm:"type:numeric"`

	Sector      string `gorm:"type:text"`
	CompanyName string `gorm:"type:text"`

	CandidateMode string `gorm:"type:varchar(16);not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (SelectionRecord) TableName() string {
	return "gap_fade_selection"
}
