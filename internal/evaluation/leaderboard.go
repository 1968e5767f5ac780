package evaluation

import (
	"fmt"
	"math"
	"sort"
)

// LeaderboardRow is one ranked entry of the final comparison table. Exactly
// one metric family is populated per row: RMSE for regression entries,
// accuracy for classification entries; the other pair stays NaN. Baseline
// regression rows carry no metrics at all.
type LeaderboardRow struct {
	Model  string
	Asset  string
	Regime string // "conventional" or "rolling"

	AvgTrade    float64
	PctAvgTrade float64

	TrainRMSE        float64
	ValidateRMSE     float64
	TrainAccuracy    float64
	ValidateAccuracy float64

	Dropoff float64
}

// NewRegressionRow builds a leaderboard row from RMSE metrics.
func NewRegressionRow(model, asset, regime string, avgTrade, pctAvgTrade, trainRMSE, validateRMSE float64) LeaderboardRow {
	row := LeaderboardRow{
		Model:            model,
		Asset:            asset,
		Regime:           regime,
		AvgTrade:         avgTrade,
		PctAvgTrade:      pctAvgTrade,
		TrainRMSE:        trainRMSE,
		ValidateRMSE:     validateRMSE,
		TrainAccuracy:    math.NaN(),
		ValidateAccuracy: math.NaN(),
	}
	row.Dropoff = dropoff(trainRMSE, validateRMSE)
	return row
}

// NewClassificationRow builds a leaderboard row from accuracy metrics.
func NewClassificationRow(model, asset, regime string, avgTrade, pctAvgTrade, trainAccuracy, validateAccuracy float64) LeaderboardRow {
	row := LeaderboardRow{
		Model:            model,
		Asset:            asset,
		Regime:           regime,
		AvgTrade:         avgTrade,
		PctAvgTrade:      pctAvgTrade,
		TrainRMSE:        math.NaN(),
		ValidateRMSE:     math.NaN(),
		TrainAccuracy:    trainAccuracy,
		ValidateAccuracy: validateAccuracy,
	}
	row.Dropoff = dropoff(trainAccuracy, validateAccuracy)
	return row
}

// NewBaselineRow builds a metric-free buy-and-hold row.
func NewBaselineRow(model, asset, regime string, avgTrade, pctAvgTrade float64) LeaderboardRow {
	return LeaderboardRow{
		Model:            model,
		Asset:            asset,
		Regime:           regime,
		AvgTrade:         avgTrade,
		PctAvgTrade:      pctAvgTrade,
		TrainRMSE:        math.NaN(),
		ValidateRMSE:     math.NaN(),
		TrainAccuracy:    math.NaN(),
		ValidateAccuracy: math.NaN(),
		Dropoff:          math.NaN(),
	}
}

// HasRMSE reports whether the row carries the error metric family.
func (r LeaderboardRow) HasRMSE() bool {
	return !math.IsNaN(r.TrainRMSE)
}

// HasAccuracy reports whether the row carries the accuracy metric family.
func (r LeaderboardRow) HasAccuracy() bool {
	return !math.IsNaN(r.TrainAccuracy)
}

// Key returns the row's display identifier.
func (r LeaderboardRow) Key() string {
	return fmt.Sprintf("%s_%s_%s", r.Model, r.Asset, r.Regime)
}

// dropoff is the relative degradation of the out-of-sample metric versus the
// in-sample metric.
func dropoff(train, validate float64) float64 {
	if train == 0 {
		return math.NaN()
	}
	return (validate - train) / train
}

// Leaderboard accumulates rows across assets, models, and regimes. It is an
// explicit accumulator handed through the aggregation functions, never
// package-level state.
type Leaderboard struct {
	rows []LeaderboardRow
}

// NewLeaderboard creates an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

// Append adds rows to the leaderboard.
func (l *Leaderboard) Append(rows ...LeaderboardRow) {
	l.rows = append(l.rows, rows...)
}

// Len returns the number of rows.
func (l *Leaderboard) Len() int {
	return len(l.rows)
}

// Rows returns the rows in their current order.
func (l *Leaderboard) Rows() []LeaderboardRow {
	out := make([]LeaderboardRow, len(l.rows))
	copy(out, l.rows)
	return out
}

// Sorted returns the rows ranked by percent average trade return
// descending, ties broken by dropoff descending.
func (l *Leaderboard) Sorted() []LeaderboardRow {
	out := l.Rows()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PctAvgTrade != out[j].PctAvgTrade {
			return out[i].PctAvgTrade > out[j].PctAvgTrade
		}
		// NaN dropoffs (baselines) sort below real values
		di, dj := out[i].Dropoff, out[j].Dropoff
		if math.IsNaN(di) {
			return false
		}
		if math.IsNaN(dj) {
			return true
		}
		return di > dj
	})
	return out
}
