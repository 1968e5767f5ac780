package main

import (
	"flag"
	"fmt"
	"strings"
)

// ForecastFlags holds all command line flags for the forecast backtest command
type ForecastFlags struct {
	// Configuration
	ConfigFile *string
	Symbols    *string
	Interval   *string
	Exchange   *string
	DataRoot   *string

	// Evaluation options
	Regimes        *string
	Workers        *int
	TrainFraction  *float64
	ValidateFrac   *float64
	ARIMASweep     *bool
	NoFeatureSel   *bool

	// Output options
	OutputDir   *string
	Formats     *string
	MetricsAddr *string
	EnvFile     *string

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewForecastFlags creates and registers all command line flags
func NewForecastFlags() *ForecastFlags {
	return &ForecastFlags{
		// Configuration
		ConfigFile: flag.String("config", "", "Path to YAML or JSON configuration file"),
		Symbols:    flag.String("symbols", "", "Comma-separated symbols (overrides config)"),
		Interval:   flag.String("interval", "", "Candle interval (overrides config)"),
		Exchange:   flag.String("exchange", "", "Exchange name (overrides config)"),
		DataRoot:   flag.String("data-root", "", "Root directory of candle files (overrides config)"),

		// Evaluation options
		Regimes:       flag.String("regimes", "", "Comma-separated regimes: conventional, rolling (overrides config)"),
		Workers:       flag.Int("workers", -1, "Parallel workers for rolling runs (0 = all CPUs, overrides config)"),
		TrainFraction: flag.Float64("train", 0, "Train split fraction (overrides config)"),
		ValidateFrac:  flag.Float64("validate", 0, "Validate split fraction (overrides config)"),
		ARIMASweep:    flag.Bool("arima-sweep", false, "Run the ARIMA order grid sweep"),
		NoFeatureSel:  flag.Bool("no-feature-selection", false, "Disable feature selection for regression models"),

		// Output options
		OutputDir:   flag.String("output", "", "Output directory for reports (overrides config)"),
		Formats:     flag.String("formats", "", "Comma-separated output formats: console, csv, excel, json (overrides config)"),
		MetricsAddr: flag.String("metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)"),
		EnvFile:     flag.String("env", ".env", "Environment file path"),

		// Help and version
		ShowVersion: flag.Bool("version", false, "Show version information"),
		ShowHelp:    flag.Bool("help", false, "Show detailed help"),
	}
}

// ValidateForecastFlags checks flag values before they reach the config
func ValidateForecastFlags(flags *ForecastFlags) error {
	if *flags.TrainFraction < 0 || *flags.TrainFraction >= 1 {
		if *flags.TrainFraction != 0 {
			return fmt.Errorf("train fraction must be in (0, 1), got %g", *flags.TrainFraction)
		}
	}
	if *flags.ValidateFrac < 0 || *flags.ValidateFrac >= 1 {
		if *flags.ValidateFrac != 0 {
			return fmt.Errorf("validate fraction must be in (0, 1), got %g", *flags.ValidateFrac)
		}
	}
	if *flags.Regimes != "" {
		for _, regime := range strings.Split(*flags.Regimes, ",") {
			regime = strings.TrimSpace(regime)
			if regime != "conventional" && regime != "rolling" {
				return fmt.Errorf("unknown regime %q", regime)
			}
		}
	}
	return nil
}

// PrintUsageExamples prints common invocations
func PrintUsageExamples() {
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Evaluate the default model grid on BTCUSDT daily candles")
	fmt.Println("  forecast-backtest -symbols BTCUSDT -interval 1d")
	fmt.Println()
	fmt.Println("  # Full batch from a config file, CSV and Excel reports")
	fmt.Println("  forecast-backtest -config configs/daily.yaml -formats console,csv,excel")
	fmt.Println()
	fmt.Println("  # Rolling regime only, eight workers, with the ARIMA sweep")
	fmt.Println("  forecast-backtest -regimes rolling -workers 8 -arima-sweep")
	fmt.Println()
}
