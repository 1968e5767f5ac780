package reporting

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
)

// DefaultJSONReporter implements JSON output functionality
type DefaultJSONReporter struct{}

// NewDefaultJSONReporter creates a new JSON reporter
func NewDefaultJSONReporter() *DefaultJSONReporter {
	return &DefaultJSONReporter{}
}

type jsonLeaderboardRow struct {
	Rank             int      `json:"rank"`
	Model            string   `json:"model"`
	Asset            string   `json:"asset"`
	Regime           string   `json:"regime"`
	AvgTrade         float64  `json:"avg_trade"`
	PctAvgTrade      float64  `json:"pct_avg_trade"`
	TrainRMSE        *float64 `json:"train_rmse,omitempty"`
	ValidateRMSE     *float64 `json:"validate_rmse,omitempty"`
	TrainAccuracy    *float64 `json:"train_accuracy,omitempty"`
	ValidateAccuracy *float64 `json:"validate_accuracy,omitempty"`
	Dropoff          *float64 `json:"dropoff,omitempty"`
}

// Write writes the ranked leaderboard as leaderboard.json. NaN metrics (the
// absent family) are omitted rather than emitted, since JSON has no NaN.
func (r *DefaultJSONReporter) Write(report *BatchReport, outputDir string) error {
	if err := EnsureDir(outputDir); err != nil {
		return err
	}

	sorted := report.Leaderboard.Sorted()
	rows := make([]jsonLeaderboardRow, len(sorted))
	for i, row := range sorted {
		rows[i] = jsonLeaderboardRow{
			Rank:             i + 1,
			Model:            row.Model,
			Asset:            row.Asset,
			Regime:           row.Regime,
			AvgTrade:         row.AvgTrade,
			PctAvgTrade:      row.PctAvgTrade,
			TrainRMSE:        jsonFloat(row.TrainRMSE),
			ValidateRMSE:     jsonFloat(row.ValidateRMSE),
			TrainAccuracy:    jsonFloat(row.TrainAccuracy),
			ValidateAccuracy: jsonFloat(row.ValidateAccuracy),
			Dropoff:          jsonFloat(row.Dropoff),
		}
	}

	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(outputDir, "leaderboard.json"), raw, 0644)
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
