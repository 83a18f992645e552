package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"edvisits/config"
	"edvisits/csvin"
	"edvisits/parquetout"
	"edvisits/pgout"
	"edvisits/visit"
)

func main() {
	inputFile := flag.String("file", "", "Path to the raw visit extract CSV")
	configFile := flag.String("config", "config.yaml", "Path to the YAML config file")
	parquetFile := flag.String("parquet", "", "Write the analytics dataset to this Parquet file")
	loadDB := flag.Bool("db", false, "Load the analytics dataset into PostgreSQL")
	initSchema := flag.Bool("init", false, "Initialize the database schema")

	flag.Parse()

	if *inputFile == "" && !*initSchema {
		fmt.Println("Usage: edvisits -file <visits_csv> [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *inputFile, *parquetFile, *loadDB, *initSchema); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger, inputFile, parquetFile string, loadDB, initSchema bool) error {
	ctx := context.Background()

	var loader *pgout.Loader
	if loadDB || initSchema {
		var err error
		loader, err = pgout.Connect(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxConns, logger)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer loader.Close()
		logger.Info("connected to database",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database))
	}

	if initSchema {
		if err := loader.InitSchema(ctx); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		logger.Info("schema initialized")
		if inputFile == "" {
			return nil
		}
	}

	reader, err := csvin.New(inputFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	raws, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read extract at row %d: %w", reader.RowNum(), err)
	}
	logger.Info("extract read", zap.String("file", inputFile), zap.Int("records", len(raws)))

	table, err := cfg.CategoryTable()
	if err != nil {
		return err
	}

	std := visit.NewStandardizer(
		visit.NewTimestampResolver(cfg.Pipeline.TimestampLayouts),
		visit.NewCategoryNormalizer(table),
		cfg.Validator(),
	)
	pipeline := visit.NewPipeline(std, visit.NewDeriver(cfg.DeriveRules()), cfg.Workers, logger)

	records, stats := pipeline.Run(raws)

	if parquetFile != "" {
		w, err := parquetout.NewWriter(parquetFile)
		if err != nil {
			return err
		}
		if _, err := w.Write(records); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		logger.Info("parquet export written",
			zap.String("file", parquetFile), zap.Int("rows", w.Count()))
	}

	if loadDB {
		if err := loader.LoadRun(ctx, inputFile, records, stats); err != nil {
			return fmt.Errorf("load analytics: %w", err)
		}
	}

	logger.Info("import complete",
		zap.String("run_id", stats.RunID.String()),
		zap.Int("input", stats.Input),
		zap.Int("duplicates_dropped", stats.DuplicatesDropped),
		zap.Int("output", stats.Output),
		zap.Int64("unparseable_timestamps", stats.UnparseableTimestamps),
		zap.Int64("unknown_complaints", stats.UnknownComplaints),
		zap.Int64("missing_ages", stats.MissingAges),
		zap.Int64("invalid_ages", stats.InvalidAges),
		zap.Int64("missing_patient_ids", stats.MissingPatientIDs),
		zap.Duration("elapsed", stats.Elapsed))
	return nil
}
