package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/logger"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/monitoring"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/rolling"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/config"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/data"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/reporting"
)

const (
	AppName    = "Forecast Backtest"
	AppVersion = "1.0.0"
)

func main() {
	flags := NewForecastFlags()
	flag.Parse()

	if err := ValidateForecastFlags(flags); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if *flags.ShowHelp {
		printUsageHelp()
		return
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cfg, err := loadConfiguration(flags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runBatch(ctx, cfg); err != nil {
		if ctx.Err() != nil {
			log.Fatalf("⚠️  Batch aborted: %v", err)
		}
		log.Fatalf("❌ Batch failed: %v", err)
	}
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - Price Movement Model Evaluation\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  %s [OPTIONS]\n\n", filepath.Base(flag.CommandLine.Name()))
	PrintUsageExamples()
	flag.PrintDefaults()
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v), continuing with system environment", envFile, err)
	}
}

// loadConfiguration merges the config file (or defaults) with flag overrides
func loadConfiguration(flags *ForecastFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if *flags.ConfigFile != "" {
		cfg, err = config.Load(*flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		log.Printf("📋 Loaded configuration: %s", *flags.ConfigFile)
	} else {
		cfg = config.Default()
	}

	if *flags.Symbols != "" {
		cfg.Symbols = splitCSV(*flags.Symbols, strings.ToUpper)
	}
	if *flags.Interval != "" {
		cfg.Interval = *flags.Interval
	}
	if *flags.Exchange != "" {
		cfg.Exchange = *flags.Exchange
	}
	if *flags.DataRoot != "" {
		cfg.DataRoot = *flags.DataRoot
	}
	if *flags.Regimes != "" {
		cfg.Regimes = splitCSV(*flags.Regimes, strings.ToLower)
	}
	if *flags.Workers >= 0 {
		cfg.Workers = *flags.Workers
	}
	if *flags.TrainFraction > 0 {
		cfg.Split.Train = *flags.TrainFraction
	}
	if *flags.ValidateFrac > 0 {
		cfg.Split.Validate = *flags.ValidateFrac
	}
	if *flags.ARIMASweep {
		cfg.ARIMA.Enabled = true
	}
	if *flags.NoFeatureSel {
		cfg.Models.Regression.FeatureSelection = false
	}
	if *flags.OutputDir != "" {
		cfg.Output.Dir = *flags.OutputDir
	}
	if *flags.Formats != "" {
		cfg.Output.Formats = splitCSV(*flags.Formats, strings.ToLower)
	}
	if *flags.MetricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *flags.MetricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitCSV(raw string, normalize func(string) string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if v := normalize(strings.TrimSpace(item)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// runBatch evaluates every configured symbol under every configured regime
// and writes the reports.
func runBatch(ctx context.Context, cfg *config.Config) error {
	startedAt := time.Now()

	batchLog, err := logger.NewLogger(cfg.Interval)
	if err != nil {
		return err
	}
	defer batchLog.Close()
	batchLog.Info("symbols: %s, regimes: %s", strings.Join(cfg.Symbols, ","), strings.Join(cfg.Regimes, ","))

	regFactories := regressionFactories(cfg.Models.Regression)
	classFactories := classificationFactories(cfg.Models.Classification)
	runsPerAsset := 0
	if cfg.HasRegime(evaluation.RegimeRolling) {
		runsPerAsset = len(regFactories) + len(classFactories)
	}

	health := monitoring.NewHealthChecker(len(cfg.Symbols) * runsPerAsset)
	if cfg.Metrics.Enabled {
		log.Printf("📡 Metrics listening on %s", cfg.Metrics.Addr)
		srv := monitoring.Serve(cfg.Metrics.Addr, health)
		defer srv.Close()
	}

	manager := data.NewManager()
	report := &reporting.BatchReport{
		Leaderboard: evaluation.NewLeaderboard(),
		ARIMASweeps: make(map[string][]rolling.ARIMACandidate),
	}

	splits := make(map[string]*dataset.Split, len(cfg.Symbols))
	frames := make(map[string]*dataset.Frame, len(cfg.Symbols))

	for _, symbol := range cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		candles, err := manager.LoadSymbol(cfg.DataRoot, cfg.Exchange, symbol, cfg.Interval)
		if err != nil {
			return fmt.Errorf("load %s: %w", symbol, err)
		}

		frame, err := dataset.AddFeatures(candles)
		if err != nil {
			return fmt.Errorf("features %s: %w", symbol, err)
		}

		split, err := dataset.SplitByFraction(frame, cfg.Split.Train, cfg.Split.Validate)
		if err != nil {
			return fmt.Errorf("split %s: %w", symbol, err)
		}

		frames[symbol] = frame
		splits[symbol] = split
		log.Printf("📈 %s: %d rows (train %d / validate %d / test %d)",
			symbol, frame.Len(), split.Train.Len(), split.Validate.Len(), split.Test.Len())
	}

	if cfg.HasRegime(evaluation.RegimeConventional) {
		if err := runConventional(ctx, cfg, splits, report); err != nil {
			return err
		}
	}

	if cfg.HasRegime(evaluation.RegimeRolling) {
		if err := runRolling(ctx, cfg, splits, regFactories, classFactories, health, batchLog, report); err != nil {
			return err
		}
	}

	if cfg.ARIMA.Enabled {
		if err := runARIMASweeps(ctx, cfg, frames, report); err != nil {
			return err
		}
	}

	return writeReports(cfg, report, startedAt)
}

func runConventional(ctx context.Context, cfg *config.Config, splits map[string]*dataset.Split, report *reporting.BatchReport) error {
	log.Println("🏃 Conventional regime")

	for _, symbol := range cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := evaluation.EvaluateConventional(symbol, splits[symbol],
			buildModels(regressionFactories(cfg.Models.Regression)),
			buildModels(classificationFactories(cfg.Models.Classification)),
			evaluation.ConventionalOptions{
				FeatureSelection: cfg.Models.Regression.FeatureSelection,
				NumFeatures:      cfg.Models.Regression.NumFeatures,
			},
			evaluation.ConventionalOptions{
				FeatureSelection: cfg.Models.Classification.FeatureSelection,
				NumFeatures:      cfg.Models.Classification.NumFeatures,
			},
		)
		if err != nil {
			return err
		}

		report.Leaderboard.Append(result.Rows...)
		report.ModelResults = append(report.ModelResults, result.ModelResults...)
	}

	return nil
}

func runRolling(ctx context.Context, cfg *config.Config, splits map[string]*dataset.Split,
	regFactories, classFactories []models.Factory, health *monitoring.HealthChecker,
	batchLog *logger.Logger, report *reporting.BatchReport) error {

	log.Printf("🔄 Rolling regime (%d workers)", cfg.Workers)

	var jobs []rolling.Job
	for _, symbol := range cfg.Symbols {
		for _, factory := range regFactories {
			jobs = append(jobs, rolling.Job{
				ID:    len(jobs),
				Asset: symbol,
				Split: splits[symbol],
				New:   factory,
				Opts: rolling.Options{
					Asset:            symbol,
					FeatureSelection: cfg.Models.Regression.FeatureSelection,
					NumFeatures:      cfg.Models.Regression.NumFeatures,
				},
			})
		}
		for _, factory := range classFactories {
			jobs = append(jobs, rolling.Job{
				ID:    len(jobs),
				Asset: symbol,
				Split: splits[symbol],
				New:   factory,
				Opts: rolling.Options{
					Asset:            symbol,
					FeatureSelection: cfg.Models.Classification.FeatureSelection,
					NumFeatures:      cfg.Models.Classification.NumFeatures,
				},
			})
		}
	}

	results, err := rolling.RunBatch(ctx, jobs, cfg.Workers)
	if err != nil {
		return err
	}

	for _, result := range results {
		if result.Err != nil {
			health.RunFailed(fmt.Sprintf("%s/%s: %v", result.Asset, result.Model, result.Err))
			monitoring.RecordError("rolling_run")
			batchLog.LogError(fmt.Sprintf("%s on %s", result.Model, result.Asset), result.Err)
			log.Printf("⚠️  %s on %s failed, skipping: %v", result.Model, result.Asset, result.Err)
			continue
		}
		health.RunCompleted()
		batchLog.LogRun(result.Asset, result.Model, evaluation.RegimeRolling, len(result.Run.Records), result.Duration)

		modelResult, row, err := result.Run.Finalize(splits[result.Asset].Validate)
		if err != nil {
			return err
		}
		report.ModelResults = append(report.ModelResults, modelResult)
		report.Leaderboard.Append(row)
		log.Printf("✅ %s on %s: %d steps in %s", result.Model, result.Asset, len(result.Run.Records), result.Duration.Round(time.Millisecond))
	}

	// baselines once per asset for this regime
	for _, symbol := range cfg.Symbols {
		split := splits[symbol]

		holdRow, err := evaluation.BuyAndHoldRow(symbol, evaluation.RegimeRolling, split.Validate)
		if err != nil {
			return err
		}
		report.Leaderboard.Append(holdRow)

		majorityResult, majorityRow, err := evaluation.MajorityClassResult(symbol, evaluation.RegimeRolling, split.Train, split.Validate)
		if err != nil {
			return err
		}
		report.ModelResults = append(report.ModelResults, majorityResult)
		report.Leaderboard.Append(majorityRow)
	}

	return nil
}

func runARIMASweeps(ctx context.Context, cfg *config.Config, frames map[string]*dataset.Frame, report *reporting.BatchReport) error {
	orders := rolling.GridOrders(cfg.ARIMA.P, cfg.ARIMA.D, cfg.ARIMA.Q)
	log.Printf("🔎 ARIMA sweep (%d orders)", len(orders))

	for _, symbol := range cfg.Symbols {
		series, err := frames[symbol].Column(dataset.ColClose)
		if err != nil {
			return err
		}

		candidates, err := rolling.SearchARIMA(ctx, series, orders, rolling.ARIMASearchOptions{
			Asset:         symbol,
			TrainFraction: cfg.ARIMA.TrainFraction,
			Progress:      os.Stdout,
		})
		if err != nil {
			return err
		}

		report.ARIMASweeps[symbol] = candidates
	}

	return nil
}

func writeReports(cfg *config.Config, report *reporting.BatchReport, startedAt time.Time) error {
	if cfg.HasFormat("console") {
		console := reporting.NewDefaultConsoleReporter()
		console.PrintLeaderboard(report.Leaderboard)
		for _, symbol := range cfg.Symbols {
			if candidates, ok := report.ARIMASweeps[symbol]; ok {
				console.PrintARIMASweep(symbol, candidates)
			}
		}
	}

	var writers []reporting.FileReporter
	if cfg.HasFormat("csv") {
		writers = append(writers, reporting.NewDefaultCSVReporter())
	}
	if cfg.HasFormat("excel") {
		writers = append(writers, reporting.NewDefaultExcelReporter())
	}
	if cfg.HasFormat("json") {
		writers = append(writers, reporting.NewDefaultJSONReporter())
	}
	if len(writers) == 0 {
		return nil
	}

	outputDir := reporting.DefaultOutputDir(cfg.Output.Dir, cfg.Interval, startedAt)
	for _, writer := range writers {
		if err := writer.Write(report, outputDir); err != nil {
			return err
		}
	}

	log.Printf("📁 Reports written to %s", outputDir)
	return nil
}

func buildModels(factories []models.Factory) []models.Model {
	out := make([]models.Model, len(factories))
	for i, factory := range factories {
		out[i] = factory()
	}
	return out
}

func regressionFactories(cfg config.ModelFamilyConfig) []models.Factory {
	if !cfg.Enabled {
		return nil
	}

	factories := []models.Factory{
		func() models.Model { return models.NewLinearRegression() },
	}
	for _, alpha := range cfg.RidgeAlphas {
		alpha := alpha
		factories = append(factories, func() models.Model { return models.NewRidgeRegression(alpha) })
	}
	for _, alpha := range cfg.LassoAlphas {
		alpha := alpha
		factories = append(factories, func() models.Model { return models.NewLassoRegression(alpha) })
	}
	return factories
}

func classificationFactories(cfg config.ModelFamilyConfig) []models.Factory {
	if !cfg.Enabled {
		return nil
	}

	var factories []models.Factory
	for _, c := range cfg.LogisticC {
		c := c
		factories = append(factories, func() models.Model { return models.NewLogisticRegression(c) })
	}
	for _, k := range cfg.KNNNeighbors {
		k := k
		factories = append(factories, func() models.Model { return models.NewKNNClassifier(k) })
	}
	return factories
}
