package reporting

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// Write writes the leaderboard and every per-model trade table as CSV files
// under outputDir.
func (r *DefaultCSVReporter) Write(report *BatchReport, outputDir string) error {
	if err := EnsureDir(outputDir); err != nil {
		return err
	}

	if err := r.writeLeaderboard(report.Leaderboard, filepath.Join(outputDir, "leaderboard.csv")); err != nil {
		return err
	}

	for _, result := range report.ModelResults {
		// regime in the name: both regimes can produce a table for the same
		// (asset, model) in one batch
		name := fmt.Sprintf("%s_%s_%s_trades.csv", result.Asset, result.Model, result.Regime)
		if err := r.writeTrades(result, filepath.Join(outputDir, name)); err != nil {
			return err
		}
	}

	return nil
}

func (r *DefaultCSVReporter) writeLeaderboard(board *evaluation.Leaderboard, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"rank", "model", "asset", "regime",
		"avg_trade", "pct_avg_trade",
		"train_rmse", "validate_rmse",
		"train_accuracy", "validate_accuracy",
		"dropoff",
	}); err != nil {
		return err
	}

	for i, row := range board.Sorted() {
		record := []string{
			strconv.Itoa(i + 1),
			row.Model,
			row.Asset,
			row.Regime,
			csvFloat(row.AvgTrade),
			csvFloat(row.PctAvgTrade),
			csvFloat(row.TrainRMSE),
			csvFloat(row.ValidateRMSE),
			csvFloat(row.TrainAccuracy),
			csvFloat(row.ValidateAccuracy),
			csvFloat(row.Dropoff),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

func (r *DefaultCSVReporter) writeTrades(result *evaluation.ModelResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"timestamp", "close", "predicted", "actual", "go_long", "ret", "pct_ret",
	}); err != nil {
		return err
	}

	for _, trade := range result.Rows {
		record := []string{
			trade.Timestamp.Format(time.RFC3339),
			csvFloat(trade.Close),
			csvFloat(trade.Predicted),
			csvFloat(trade.Actual),
			strconv.FormatBool(trade.GoLong),
			csvFloat(trade.Ret),
			csvFloat(trade.PctRet),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}

// csvFloat formats a float for CSV, rendering NaN as an empty cell.
func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
