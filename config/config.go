package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Candidate modes accepted by pipeline.candidate_mode.
const (
	CandidateModeContrary   = "contrary"
	CandidateModeConfirming = "confirming"
)

type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PipelineConfig holds the inputs, output and rule parameters of one batch run.
type PipelineConfig struct {
	DailyPath     string  `mapstructure:"daily_path"`     // file or directory of daily gap CSVs
	IntradayPath  string  `mapstructure:"intraday_path"`  // file or directory of 5-minute bar CSVs
	OutputPath    string  `mapstructure:"output_path"`    // overwritten on every run
	Cutoff        string  `mapstructure:"cutoff"`         // "HH:MM", bars strictly before are kept
	GapMin        float64 `mapstructure:"gap_min"`        // inclusive lower gap_percent bound
	GapMax        float64 `mapstructure:"gap_max"`        // inclusive upper gap_percent bound
	Concurrency   int     `mapstructure:"concurrency"`    // max files loaded at once
	CandidateMode string  `mapstructure:"candidate_mode"` // "contrary" or "confirming"
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load reads the YAML file at path and overrides it with GAPFADE_* environment
// variables (e.g. GAPFADE_PIPELINE_DAILY_PATH).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("gapfade")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Pipeline.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// AutomaticEnv only resolves keys viper already knows about, so the
	// required paths get empty defaults.
	v.SetDefault("pipeline.daily_path", "")
	v.SetDefault("pipeline.intraday_path", "")
	v.SetDefault("pipeline.output_path", "output/gap_fade_selection.csv")
	v.SetDefault("pipeline.cutoff", "12:30")
	v.SetDefault("pipeline.gap_min", -8.0)
	v.SetDefault("pipeline.gap_max", -2.0)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.candidate_mode", CandidateModeContrary)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "gapfade")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timezone", "UTC")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", "1h")
}

// Validate rejects settings the pipeline cannot run with.
func (c PipelineConfig) Validate() error {
	var errs []error

	if c.DailyPath == "" {
		errs = append(errs, errors.New("pipeline.daily_path is required"))
	}
	if c.IntradayPath == "" {
		errs = append(errs, errors.New("pipeline.intraday_path is required"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("pipeline.output_path is required"))
	}
	if _, err := c.CutoffClock(); err != nil {
		errs = append(errs, err)
	}
	if c.GapMin > c.GapMax {
		errs = append(errs, fmt.Errorf("pipeline.gap_min %v is greater than pipeline.gap_max %v", c.GapMin, c.GapMax))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("pipeline.concurrency must be positive, got %d", c.Concurrency))
	}
	switch c.CandidateMode {
	case CandidateModeContrary, CandidateModeConfirming:
	default:
		errs = append(errs, fmt.Errorf("pipeline.candidate_mode %q must be %q or %q",
			c.CandidateMode, CandidateModeContrary, CandidateModeConfirming))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// CutoffClock parses Cutoff into hour and minute.
func (c PipelineConfig) CutoffClock() (time.Duration, error) {
	t, err := time.Parse("15:04", c.Cutoff)
	if err != nil {
		return 0, fmt.Errorf("pipeline.cutoff %q is not HH:MM: %w", c.Cutoff, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
