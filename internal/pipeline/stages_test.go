package pipeline

import (
	"errors"
	"testing"
	"time"

	"gapfade/internal/market"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestFilterGapsBounds
func TestFilterGapsBounds(t *testing.T) {
	rows := []market.DailyGapRow{
		dailyRow("A.NS", "2024-12-27", "-8", "1"),
		dailyRow("B.NS", "2024-12-27", "-2", "1"),
		dailyRow("C.NS", "2024-12-27", "-8.0001", "1"),
		dailyRow("D.NS", "2024-12-27", "-1.9999", "1"),
		dailyRow("E.NS", "2024-12-27", "-5", "1"),
		dailyRow("F.NS", "2024-12-27", "3", "1"),
		{Ticker: "G.NS", Date: "2024-12-27"}, // first day, no prior close
	}

	got := FilterGaps(rows, dec("-8"), dec("-2"))

	var tickers []string
	for _, r := range got {
		tickers = append(tickers, r.Ticker)
		assert.True(t, r.GapPercent.Decimal.GreaterThanOrEqual(dec("-8")))
		assert.True(t, r.GapPercent.Decimal.LessThanOrEqual(dec("-2")))
	}
	assert.Equal(t, []string{"A.NS", "B.NS", "E.NS"}, tickers)
}

// go test -v --run TestNormalizeIntradayCutoff
func TestNormalizeIntradayCutoff(t *testing.T) {
	records := []market.IntradayRecord{
		{Ticker: "ABC.NS", RawTime: "2024-12-27 09:15:00+05:30", Close: dec("1")},
		{Ticker: "ABC.NS", RawTime: "2024-12-27 12:25:00", Close: dec("2")},
		{Ticker: "ABC.NS", RawTime: "2024-12-27 12:29:59.500", Close: dec("3")},
		{Ticker: "ABC.NS", RawTime: "2024-12-27 12:30:00", Close: dec("4")},
		{Ticker: "ABC.NS", RawTime: "2024-12-27 13:05:00", Close: dec("5")},
	}

	bars, err := NormalizeIntraday(records, 12*time.Hour+30*time.Minute, "intraday.csv")
	require.NoError(t, err)
	require.Len(t, bars, 3)

	for _, b := range bars {
		assert.Equal(t, "2024-12-27", b.Date)
		assert.True(t, b.BarTime.Hour() < 12 || (b.BarTime.Hour() == 12 && b.BarTime.Minute() < 30))
	}
	assert.Equal(t, "2024-12-27 09:15:00", bars[0].BarTimeText)
	assert.Equal(t, "2024-12-27 12:29:59", bars[2].BarTimeText)
}

// go test -v --run TestNormalizeIntradayParseError
func TestNormalizeIntradayParseError(t *testing.T) {
	tests := []string{"", "2024-12-27", "27/12/2024 09:30:00", "2024-13-27 09:30:00"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			records := []market.IntradayRecord{
				{Ticker: "ABC.NS", RawTime: "2024-12-27 09:30:00"},
				{Ticker: "ABC.NS", RawTime: raw},
			}
			_, err := NormalizeIntraday(records, 12*time.Hour+30*time.Minute, "intraday.csv")

			var parseErr *market.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, 2, parseErr.Row)
			assert.Equal(t, "intraday.csv", parseErr.Artifact)
		})
	}
}

// go test -v --run TestJoinInnerFanOut
func TestJoinInnerFanOut(t *testing.T) {
	daily := []market.DailyGapRow{
		dailyRow("ABC.NS", "2024-12-27", "-3", "100"),
		dailyRow("ABC.NS", "2024-12-30", "-3", "100"), // no bars
	}
	bars := []market.IntradayBar{
		sessionBar("ABC.NS", "2024-12-27 09:40:00", "99"),
		sessionBar("ABC.NS", "2024-12-27 09:30:00", "98"),
		sessionBar("ABC.NS", "2024-12-27 09:35:00", "101"),
		sessionBar("ABC.NS", "2024-12-26 09:30:00", "97"), // no daily row
		sessionBar("XYZ.NS", "2024-12-27 09:30:00", "10"), // no daily row
	}

	joined := Join(daily, bars)
	require.Len(t, joined, 3)
	assert.LessOrEqual(t, len(joined), len(daily)*3)

	for _, j := range joined {
		assert.Equal(t, j.Daily.Key(), j.Bar.Key())
	}
	assert.Equal(t, "2024-12-27 09:30:00", joined[0].Bar.BarTimeText)
	assert.Equal(t, "2024-12-27 09:40:00", joined[2].Bar.BarTimeText)
}

// go test -v --run TestClassifyBarStrict
func TestClassifyBarStrict(t *testing.T) {
	d := dailyRow("ABC.NS", "2024-12-27", "-3", "100")

	tests := []struct {
		close string
		want  string
	}{
		{"100.01", market.OutcomeWin},
		{"100", market.OutcomeLose},
		{"100.00", market.OutcomeLose},
		{"99.99", market.OutcomeLose},
	}
	for _, tt := range tests {
		row := market.JoinedRow{Daily: d, Bar: sessionBar("ABC.NS", "2024-12-27 09:30:00", tt.close)}
		assert.Equal(t, tt.want, ClassifyBar(row), "close %s", tt.close)
	}
}

// go test -v --run TestDayOutcome
func TestDayOutcome(t *testing.T) {
	assert.Equal(t, market.OutcomeMixedWin, DayOutcome(OutcomeCounts{"win": 1, "lose": 2}))
	assert.Equal(t, market.OutcomeWin, DayOutcome(OutcomeCounts{"win": 3}))
	assert.Equal(t, market.OutcomeLose, DayOutcome(OutcomeCounts{"lose": 3}))
	assert.Equal(t, "", DayOutcome(OutcomeCounts{}))
}

// go test -v --run TestResolveDaysBroadcast
func TestResolveDaysBroadcast(t *testing.T) {
	mixed := dailyRow("ABC.NS", "2024-12-27", "-3", "100")
	lose := dailyRow("ABC.NS", "2024-12-28", "-3", "50")
	win := dailyRow("XYZ.NS", "2024-12-27", "-3", "10")

	joined := Join(
		[]market.DailyGapRow{mixed, lose, win},
		[]market.IntradayBar{
			sessionBar("ABC.NS", "2024-12-27 09:30:00", "98"),
			sessionBar("ABC.NS", "2024-12-27 09:35:00", "101"),
			sessionBar("ABC.NS", "2024-12-28 09:30:00", "45"),
			sessionBar("ABC.NS", "2024-12-28 09:35:00", "40"),
			sessionBar("XYZ.NS", "2024-12-27 09:30:00", "11"),
		},
	)
	final := ResolveDays(ClassifyAll(joined))
	require.Len(t, final, 5)

	want := map[market.DayKey]string{
		mixed.Key(): market.OutcomeMixedWin,
		lose.Key():  market.OutcomeLose,
		win.Key():   market.OutcomeWin,
	}
	for _, r := range final {
		assert.Equal(t, want[r.Key()], r.DayOutcome, "%v", r.Key())
	}

	counts := CountOutcomes(ClassifyAll(joined))
	assert.Equal(t, OutcomeCounts{"lose": 1, "win": 1}, counts[mixed.Key()])
	assert.Equal(t, OutcomeCounts{"lose": 2}, counts[lose.Key()])
}

// go test -v --run TestFirstPerPartition
func TestFirstPerPartition(t *testing.T) {
	type row struct {
		key string
		val int
		id  string
	}
	rows := []row{
		{"b", 2, "b1"}, {"a", 5, "a1"}, {"b", 1, "b2"}, {"a", 5, "a2"}, {"a", 3, "a3"},
	}

	asc := FirstPerPartition(rows, func(r row) string { return r.key }, func(x, y row) bool { return x.val < y.val })
	assert.Equal(t, []string{"b2", "a3"}, []string{asc[0].id, asc[1].id})

	// ties keep input order
	desc := FirstPerPartition(rows, func(r row) string { return r.key }, func(x, y row) bool { return x.val > y.val })
	assert.Equal(t, []string{"b1", "a1"}, []string{desc[0].id, desc[1].id})

	assert.Empty(t, FirstPerPartition(nil, func(r row) string { return r.key }, func(x, y row) bool { return false }))
}

// go test -v --run TestSelectMixedDayEarliestBelowTarget
func TestSelectMixedDayEarliestBelowTarget(t *testing.T) {
	final := finalRows(dailyRow("ABC.NS", "2024-12-27", "-3", "100.0"),
		sessionBar("ABC.NS", "2024-12-27 09:40:00", "99"),
		sessionBar("ABC.NS", "2024-12-27 09:35:00", "101"),
		sessionBar("ABC.NS", "2024-12-27 09:30:00", "98"),
	)
	for _, r := range final {
		assert.Equal(t, market.OutcomeMixedWin, r.DayOutcome)
	}

	win := SelectWinDays(final, CandidateContrary)
	require.Len(t, win, 1)
	assert.Equal(t, "2024-12-27 09:30:00", win[0].Bar.BarTimeText)
	assert.True(t, win[0].Bar.BarClose.Equal(dec("98")))

	assert.Empty(t, SelectLoseDays(final, CandidateContrary))
}

// go test -v --run TestSelectLoseDayNoCandidates
func TestSelectLoseDayNoCandidates(t *testing.T) {
	final := finalRows(dailyRow("ABC.NS", "2024-12-28", "-3", "50.0"),
		sessionBar("ABC.NS", "2024-12-28 09:30:00", "45"),
		sessionBar("ABC.NS", "2024-12-28 09:35:00", "40"),
		sessionBar("ABC.NS", "2024-12-28 09:40:00", "48"),
	)
	for _, r := range final {
		assert.Equal(t, market.OutcomeLose, r.DayOutcome)
	}

	assert.Empty(t, SelectLoseDays(final, CandidateContrary))
	assert.Empty(t, SelectWinDays(final, CandidateContrary))
}

// go test -v --run TestSelectLoseDayHighestClose
func TestSelectLoseDayHighestClose(t *testing.T) {
	// A lose day's bars can only close at or below the target, so the
	// highest-close pick is exercised through confirming mode.
	final := finalRows(dailyRow("ABC.NS", "2024-12-28", "-3", "50"),
		sessionBar("ABC.NS", "2024-12-28 09:30:00", "45"),
		sessionBar("ABC.NS", "2024-12-28 09:35:00", "48"),
		sessionBar("ABC.NS", "2024-12-28 09:40:00", "48"),
		sessionBar("ABC.NS", "2024-12-28 09:45:00", "50"), // equal: lose bar, not a candidate
	)

	lose := SelectLoseDays(final, CandidateConfirming)
	require.Len(t, lose, 1)
	assert.True(t, lose[0].Bar.BarClose.Equal(dec("48")))
	assert.Equal(t, "2024-12-28 09:35:00", lose[0].Bar.BarTimeText)
}

// go test -v --run TestSelectConfirmingMixedDay
func TestSelectConfirmingMixedDay(t *testing.T) {
	final := finalRows(dailyRow("ABC.NS", "2024-12-27", "-3", "100"),
		sessionBar("ABC.NS", "2024-12-27 09:30:00", "98"),
		sessionBar("ABC.NS", "2024-12-27 09:35:00", "101"),
		sessionBar("ABC.NS", "2024-12-27 09:45:00", "102"),
	)

	win := SelectWinDays(final, CandidateConfirming)
	require.Len(t, win, 1)
	assert.Equal(t, "2024-12-27 09:35:00", win[0].Bar.BarTimeText)
}

// go test -v --run TestSelectPureWinDayNeverSelected
func TestSelectPureWinDayNeverSelected(t *testing.T) {
	final := finalRows(dailyRow("XYZ.NS", "2024-12-27", "-3", "10"),
		sessionBar("XYZ.NS", "2024-12-27 09:30:00", "11"),
		sessionBar("XYZ.NS", "2024-12-27 09:35:00", "12"),
	)

	for _, mode := range []CandidateMode{CandidateContrary, CandidateConfirming} {
		assert.Empty(t, SelectWinDays(final, mode))
		assert.Empty(t, SelectLoseDays(final, mode))
	}
}

// go test -v --run TestSelectAtMostOnePerDay
func TestSelectAtMostOnePerDay(t *testing.T) {
	var final []market.FinalRow
	for _, date := range []string{"2024-12-26", "2024-12-27"} {
		final = append(final, finalRows(dailyRow("ABC.NS", date, "-3", "100"),
			sessionBar("ABC.NS", date+" 09:30:00", "97"),
			sessionBar("ABC.NS", date+" 09:35:00", "101"),
			sessionBar("ABC.NS", date+" 09:40:00", "96"),
		)...)
	}

	win := SelectWinDays(final, CandidateContrary)
	require.Len(t, win, 2)
	seen := map[market.DayKey]bool{}
	for _, r := range win {
		assert.False(t, seen[r.Key()])
		seen[r.Key()] = true
		assert.Equal(t, "09:30:00", r.Bar.BarTime.Format("15:04:05"))
	}
}

// go test -v --run TestNewContext
func TestNewContext(t *testing.T) {
	pc := validContext(t)
	assert.Equal(t, 12*time.Hour+30*time.Minute, pc.Cutoff)
	assert.True(t, pc.GapMin.Equal(decimal.NewFromInt(-8)))
	assert.True(t, pc.GapMax.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, CandidateContrary, pc.CandidateMode)

	bad := *pc
	bad.Concurrency = 0
	assert.ErrorIs(t, bad.validate(), ErrInvalidContext)
}
