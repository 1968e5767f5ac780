package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

// Column names the evaluation pipeline depends on.
const (
	ColClose            = "close"
	ColFwdLogRet        = "fwd_log_ret"
	ColFwdRet           = "fwd_ret"
	ColFwdPctChg        = "fwd_pct_chg"
	ColFwdClosePositive = "fwd_close_positive"
)

const lagCount = 7

// TargetColumns are the prediction targets; they are never used as model
// input features.
var TargetColumns = []string{ColFwdLogRet, ColFwdRet, ColFwdPctChg, ColFwdClosePositive}

// Monday is the reference level: a full set of day dummies would be
// collinear with the model intercept.
var dayNames = []string{"tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// FeatureColumns returns the model input feature names in frame order.
func FeatureColumns() []string {
	cols := []string{"pct_chg"}
	for i := 1; i <= lagCount; i++ {
		cols = append(cols, fmt.Sprintf("log_ret_lag_%d", i))
	}
	cols = append(cols, "rr")
	for i := 1; i <= lagCount; i++ {
		cols = append(cols, fmt.Sprintf("sigma_lag_%d", i))
	}
	for _, d := range dayNames {
		cols = append(cols, "day_"+d)
	}
	return cols
}

// ScaledFeatureColumns returns the continuous features that are
// standardized before modeling. Day-of-week dummies pass through unscaled.
func ScaledFeatureColumns() []string {
	cols := []string{"pct_chg"}
	for i := 1; i <= lagCount; i++ {
		cols = append(cols, fmt.Sprintf("log_ret_lag_%d", i))
	}
	cols = append(cols, "rr")
	for i := 1; i <= lagCount; i++ {
		cols = append(cols, fmt.Sprintf("sigma_lag_%d", i))
	}
	return cols
}

// AddFeatures engineers the model features and forward-looking targets from
// raw candles and returns a frame with edge rows (unresolved lags or forward
// values) dropped.
//
// Targets:
//   - fwd_log_ret:        log(close[t+1]) - log(close[t])
//   - fwd_ret:            close[t+1] - close[t]
//   - fwd_pct_chg:        close[t+1]/close[t] - 1
//   - fwd_close_positive: 1 if fwd_ret > 0 else 0
//
// Features: previous-day percent change, lagged log returns (1..7), relative
// range RR, Parkinson range volatility lags (1..7), day-of-week dummies.
func AddFeatures(candles []types.OHLCV) (*Frame, error) {
	if len(candles) < lagCount+2 {
		return nil, fmt.Errorf("need at least %d candles, got %d", lagCount+2, len(candles))
	}

	columns := append([]string{ColClose}, TargetColumns...)
	columns = append(columns, FeatureColumns()...)
	frame := NewFrame(columns)

	n := len(candles)
	for t := 0; t < n; t++ {
		values := make([]float64, 0, len(columns))
		c := candles[t]

		values = append(values, c.Close)
		values = append(values, forwardTargets(candles, t)...)

		// pct_chg from the previous close
		if t >= 1 && candles[t-1].Close > 0 {
			values = append(values, c.Close/candles[t-1].Close-1)
		} else {
			values = append(values, math.NaN())
		}

		// lagged log returns
		for i := 1; i <= lagCount; i++ {
			if t >= i && candles[t-i].Close > 0 && c.Close > 0 {
				values = append(values, math.Log(c.Close)-math.Log(candles[t-i].Close))
			} else {
				values = append(values, math.NaN())
			}
		}

		// relative price range of the previous day
		if t >= 1 {
			prev := candles[t-1]
			denom := prev.High + prev.Low
			if denom > 0 {
				values = append(values, 2*(prev.High-prev.Low)/denom)
			} else {
				values = append(values, math.NaN())
			}
		} else {
			values = append(values, math.NaN())
		}

		// Parkinson range volatility estimator at lags 1..7
		for i := 1; i <= lagCount; i++ {
			if t >= i && candles[t-i].Low > 0 {
				lr := math.Log(candles[t-i].High / candles[t-i].Low)
				values = append(values, math.Sqrt(lr*lr/(4*math.Log(2))))
			} else {
				values = append(values, math.NaN())
			}
		}

		// day-of-week dummies
		values = append(values, dayDummies(c.Timestamp)...)

		if err := frame.AppendRow(c.Timestamp, values); err != nil {
			return nil, err
		}
	}

	return frame.DropNaNRows(), nil
}

func forwardTargets(candles []types.OHLCV, t int) []float64 {
	if t+1 >= len(candles) || candles[t].Close <= 0 {
		return []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN()}
	}

	cur := candles[t].Close
	next := candles[t+1].Close

	fwdLogRet := math.Log(next) - math.Log(cur)
	fwdRet := next - cur
	fwdPctChg := next/cur - 1
	fwdPositive := 0.0
	if fwdRet > 0 {
		fwdPositive = 1.0
	}

	return []float64{fwdLogRet, fwdRet, fwdPctChg, fwdPositive}
}

func dayDummies(ts time.Time) []float64 {
	out := make([]float64, len(dayNames))
	// time.Weekday: Sunday=0 .. Saturday=6; 0 here means Monday (no dummy)
	idx := (int(ts.Weekday()) + 6) % 7
	if idx > 0 {
		out[idx-1] = 1.0
	}
	return out
}
