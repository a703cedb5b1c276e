package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"gapfade/config"
	"gapfade/internal/market"
	"gapfade/internal/pipeline"
	"gapfade/logger"
	"gapfade/pkg/storage/postgres"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	// viper config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("gap fade run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	pc, err := pipeline.NewContext(cfg.Pipeline, log)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(ctx, pc)
	if err != nil {
		return err
	}
	log.Info("run complete",
		zap.String("output", res.OutputPath),
		zap.Int("gap_days", res.GapDays),
		zap.Int("mixed_days", res.MixedDays),
		zap.Int("lose_days", res.LoseDays),
		zap.Int("selected", len(res.Selected)))

	if !cfg.Postgres.Enabled {
		return nil
	}

	client, err := postgres.InitializeAndMigrateSelection(cfg.Postgres, cfg.Log.Environment, true)
	if err != nil {
		return &market.StageError{Stage: pipeline.StagePersist, Artifact: cfg.Postgres.DBName, Err: err}
	}
	defer client.Close()

	inserted, err := client.SaveSelections(ctx, res.Selected, string(pc.CandidateMode))
	if err != nil {
		return &market.StageError{Stage: pipeline.StagePersist, Artifact: cfg.Postgres.DBName, Err: err}
	}
	log.Info("selections persisted",
		zap.String("db", cfg.Postgres.DBName),
		zap.Int64("inserted", inserted),
		zap.Int("selected", len(res.Selected)))

	return nil
}
