package evaluation

import (
	"fmt"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
)

// PredictionRecord is one out-of-sample step of an evaluation run: the
// predicted and actual target for a single validate row.
type PredictionRecord struct {
	Timestamp time.Time
	Predicted float64
	Actual    float64
}

// TradeRow is one row of a per-model result table: the prediction turned
// into a long/short position and the return that position realized. The
// strategy always takes a position, long or short, every period.
type TradeRow struct {
	Timestamp time.Time
	Close     float64
	Predicted float64
	Actual    float64
	GoLong    bool
	Ret       float64
	PctRet    float64
}

// ModelResult is the per-model result table for one (asset, model, regime)
// run plus its aggregate trade statistics. Created once per run, read-only
// afterward. Regime keeps results from different regimes distinguishable in
// reports: both regimes can run in the same batch.
type ModelResult struct {
	Model  string
	Asset  string
	Regime string
	Rows   []TradeRow

	AvgTrade    float64
	PctAvgTrade float64
}

// BuildModelResult converts per-step prediction records into a trade table
// against the validate frame. go_long is the prediction's sign (regression)
// or the predicted label (classification, already 0/1); the realized return
// comes from the frame's forward-return columns so every validate row gets a
// trade row.
func BuildModelResult(model, asset, regime string, records []PredictionRecord, validate *dataset.Frame) (*ModelResult, error) {
	if len(records) != validate.Len() {
		return nil, fmt.Errorf("model %s: %d records for %d validate rows", model, len(records), validate.Len())
	}

	rows := make([]TradeRow, len(records))
	for i, rec := range records {
		if !rec.Timestamp.Equal(validate.Timestamp(i)) {
			return nil, fmt.Errorf("model %s: record %d timestamp %s does not match validate row %s",
				model, i, rec.Timestamp.Format(time.RFC3339), validate.Timestamp(i).Format(time.RFC3339))
		}

		close, err := validate.Value(i, dataset.ColClose)
		if err != nil {
			return nil, err
		}
		fwdRet, err := validate.Value(i, dataset.ColFwdRet)
		if err != nil {
			return nil, err
		}
		fwdPct, err := validate.Value(i, dataset.ColFwdPctChg)
		if err != nil {
			return nil, err
		}

		goLong := rec.Predicted > 0
		ret := fwdRet
		pctRet := fwdPct
		if !goLong {
			ret = -fwdRet
			pctRet = -fwdPct
		}

		rows[i] = TradeRow{
			Timestamp: rec.Timestamp,
			Close:     close,
			Predicted: rec.Predicted,
			Actual:    rec.Actual,
			GoLong:    goLong,
			Ret:       ret,
			PctRet:    pctRet,
		}
	}

	result := &ModelResult{Model: model, Asset: asset, Regime: regime, Rows: rows}
	result.AvgTrade, result.PctAvgTrade = aggregateTrades(rows)
	return result, nil
}

func aggregateTrades(rows []TradeRow) (avgTrade, pctAvgTrade float64) {
	if len(rows) == 0 {
		return 0, 0
	}
	for _, r := range rows {
		avgTrade += r.Ret
		pctAvgTrade += r.PctRet
	}
	return avgTrade / float64(len(rows)), pctAvgTrade / float64(len(rows))
}
