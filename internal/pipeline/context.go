package pipeline

import (
	"errors"
	"fmt"
	"time"

	"gapfade/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrInvalidContext is returned when a Context cannot drive a run.
var ErrInvalidContext = errors.New("invalid pipeline context")

// CandidateMode selects which side of the gap target the bar selector keeps.
type CandidateMode string

const (
	// CandidateContrary keeps lose-day bars closing above the target and
	// mixed-day bars closing below it.
	CandidateContrary CandidateMode = config.CandidateModeContrary
	// CandidateConfirming keeps lose-day bars closing below the target and
	// mixed-day bars closing above it.
	CandidateConfirming CandidateMode = config.CandidateModeConfirming
)

// Context carries everything a run needs. Stages receive it explicitly;
// nothing is read from package state.
type Context struct {
	DailyPath     string
	IntradayPath  string
	OutputPath    string
	Cutoff        time.Duration // time of day; bars strictly before it are kept
	GapMin        decimal.Decimal
	GapMax        decimal.Decimal
	Concurrency   int
	CandidateMode CandidateMode
	Logger        *zap.Logger
}

// NewContext builds a Context from validated pipeline configuration.
func NewContext(cfg config.PipelineConfig, log *zap.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContext, err)
	}
	cutoff, err := cfg.CutoffClock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContext, err)
	}

	pc := &Context{
		DailyPath:     cfg.DailyPath,
		IntradayPath:  cfg.IntradayPath,
		OutputPath:    cfg.OutputPath,
		Cutoff:        cutoff,
		GapMin:        decimal.NewFromFloat(cfg.GapMin),
		GapMax:        decimal.NewFromFloat(cfg.GapMax),
		Concurrency:   cfg.Concurrency,
		CandidateMode: CandidateMode(cfg.CandidateMode),
		Logger:        log,
	}
	return pc, pc.validate()
}

func (pc *Context) validate() error {
	switch {
	case pc.DailyPath == "" || pc.IntradayPath == "" || pc.OutputPath == "":
		return fmt.Errorf("%w: input and output paths are required", ErrInvalidContext)
	case pc.Cutoff <= 0 || pc.Cutoff > 24*time.Hour:
		return fmt.Errorf("%w: cutoff %v out of range", ErrInvalidContext, pc.Cutoff)
	case pc.GapMin.GreaterThan(pc.GapMax):
		return fmt.Errorf("%w: gap bounds [%s, %s] inverted", ErrInvalidContext, pc.GapMin, pc.GapMax)
	case pc.Concurrency < 1:
		return fmt.Errorf("%w: concurrency %d", ErrInvalidContext, pc.Concurrency)
	case pc.CandidateMode != CandidateContrary && pc.CandidateMode != CandidateConfirming:
		return fmt.Errorf("%w: candidate mode %q", ErrInvalidContext, pc.CandidateMode)
	}
	return nil
}

func (pc *Context) logger() *zap.Logger {
	if pc.Logger == nil {
		return zap.NewNop()
	}
	return pc.Logger
}
