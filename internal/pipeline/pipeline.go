package pipeline

import (
	"context"

	"gapfade/internal/loader"
	"gapfade/internal/market"
	"gapfade/internal/writer"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage names used in logs and StageError.
const (
	StageLoadDaily    = "load-daily"
	StageLoadIntraday = "load-intraday"
	StageGapFilter    = "gap-filter"
	StageNormalize    = "normalize"
	StageJoin         = "join"
	StageClassify     = "classify"
	StageResolve      = "resolve"
	StageSelect       = "select"
	StageWrite        = "write"
	StagePersist      = "persist"
)

// Result summarizes one run.
type Result struct {
	DailyRows    int
	GapDays      int
	IntradayRows int
	SessionBars  int
	JoinedRows   int
	WinDays      int // single-outcome "win"
	LoseDays     int // single-outcome "lose"
	MixedDays    int // both outcomes, resolved to "Win"
	SelectedLose int
	SelectedWin  int
	Selected     []market.FinalRow
	OutputPath   string
}

// Run executes the whole batch: load both artifacts, filter, normalize, join,
// classify, resolve, select and write. Any error aborts the run before the
// output file is replaced.
func Run(ctx context.Context, pc *Context) (*Result, error) {
	if err := pc.validate(); err != nil {
		return nil, err
	}
	log := pc.logger()
	res := &Result{OutputPath: pc.OutputPath}

	var (
		daily   []market.DailyGapRow
		records []market.IntradayRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := loader.LoadDaily(gctx, pc.DailyPath, pc.Concurrency)
		if err != nil {
			return &market.StageError{Stage: StageLoadDaily, Artifact: pc.DailyPath, Err: err}
		}
		daily = rows
		return nil
	})
	g.Go(func() error {
		rows, err := loader.LoadIntraday(gctx, pc.IntradayPath, pc.Concurrency)
		if err != nil {
			return &market.StageError{Stage: StageLoadIntraday, Artifact: pc.IntradayPath, Err: err}
		}
		records = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.DailyRows = len(daily)
	res.IntradayRows = len(records)
	log.Info("inputs loaded",
		zap.Int("daily_rows", res.DailyRows),
		zap.Int("intraday_rows", res.IntradayRows))

	gapDays := FilterGaps(daily, pc.GapMin, pc.GapMax)
	res.GapDays = len(gapDays)
	logStage(log, StageGapFilter, res.DailyRows, res.GapDays)

	bars, err := NormalizeIntraday(records, pc.Cutoff, pc.IntradayPath)
	if err != nil {
		return nil, &market.StageError{Stage: StageNormalize, Artifact: pc.IntradayPath, Err: err}
	}
	res.SessionBars = len(bars)
	logStage(log, StageNormalize, res.IntradayRows, res.SessionBars)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joined := Join(gapDays, bars)
	res.JoinedRows = len(joined)
	logStage(log, StageJoin, res.GapDays, res.JoinedRows)

	classified := ClassifyAll(joined)
	logStage(log, StageClassify, res.JoinedRows, len(classified))

	final := ResolveDays(classified)
	for _, counts := range CountOutcomes(classified) {
		switch DayOutcome(counts) {
		case market.OutcomeMixedWin:
			res.MixedDays++
		case market.OutcomeWin:
			res.WinDays++
		case market.OutcomeLose:
			res.LoseDays++
		}
	}
	log.Info("stage complete",
		zap.String("stage", StageResolve),
		zap.Int("win_days", res.WinDays),
		zap.Int("lose_days", res.LoseDays),
		zap.Int("mixed_days", res.MixedDays))

	lose := SelectLoseDays(final, pc.CandidateMode)
	win := SelectWinDays(final, pc.CandidateMode)
	res.SelectedLose = len(lose)
	res.SelectedWin = len(win)
	res.Selected = writer.Union(lose, win)
	log.Info("stage complete",
		zap.String("stage", StageSelect),
		zap.String("candidate_mode", string(pc.CandidateMode)),
		zap.Int("lose_rows", res.SelectedLose),
		zap.Int("win_rows", res.SelectedWin))
	if len(res.Selected) == 0 {
		log.Warn("empty result", zap.String("stage", StageSelect))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writer.WriteCSV(pc.OutputPath, res.Selected); err != nil {
		return nil, &market.StageError{Stage: StageWrite, Artifact: pc.OutputPath, Err: err}
	}
	log.Info("output written",
		zap.String("path", pc.OutputPath),
		zap.Int("rows", len(res.Selected)))

	return res, nil
}

// logStage records row counts and warns when a stage produced nothing.
func logStage(log *zap.Logger, stage string, in, out int) {
	if out == 0 {
		log.Warn("empty result", zap.String("stage", stage), zap.Int("rows_in", in))
		return
	}
	log.Info("stage complete", zap.String("stage", stage), zap.Int("rows_in", in), zap.Int("rows_out", out))
}
