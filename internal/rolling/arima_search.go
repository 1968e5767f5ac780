package rolling

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/monitoring"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
)

// ARIMACandidate is one evaluated (p,d,q) order and its one-step-ahead mean
// squared error over the held-out part of the series.
type ARIMACandidate struct {
	Order models.ARIMAOrder
	MSE   float64
}

// ARIMASearchOptions configures a grid sweep over ARIMA orders.
type ARIMASearchOptions struct {
	Asset         string
	TrainFraction float64   // history size before forecasting starts, default 0.66
	Progress      io.Writer // nil disables progress output
}

// GridOrders expands the cartesian product of the given p, d and q values.
func GridOrders(ps, ds, qs []int) []models.ARIMAOrder {
	orders := make([]models.ARIMAOrder, 0, len(ps)*len(ds)*len(qs))
	for _, p := range ps {
		for _, d := range ds {
			for _, q := range qs {
				orders = append(orders, models.ARIMAOrder{P: p, D: d, Q: q})
			}
		}
	}
	return orders
}

// SearchARIMA walks the order grid over the target series. Each candidate is
// scored by expanding-history one-step forecasts: the model refits on all
// observations seen so far, forecasts the next one, then the actual value
// joins the history. A candidate whose fit fails is reported and skipped;
// a cancelled context aborts the whole sweep. Results come back sorted by
// MSE ascending.
func SearchARIMA(ctx context.Context, series []float64, orders []models.ARIMAOrder, opts ARIMASearchOptions) ([]ARIMACandidate, error) {
	if opts.TrainFraction <= 0 || opts.TrainFraction >= 1 {
		opts.TrainFraction = 0.66
	}
	split := int(float64(len(series)) * opts.TrainFraction)
	if split < 3 || split >= len(series) {
		return nil, fmt.Errorf("arima search %s: series of %d observations is too short", opts.Asset, len(series))
	}

	candidates := make([]ARIMACandidate, 0, len(orders))
	for i, order := range orders {
		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "\r🔎 %s ARIMA sweep: candidate %d/%d %s", opts.Asset, i+1, len(orders), order)
		}

		mse, err := evaluateOrder(ctx, series, split, order)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			monitoring.RecordSweepCandidate(opts.Asset, "failed")
			log.Printf("⚠️  ARIMA%s on %s failed, skipping: %v", order, opts.Asset, err)
			continue
		}

		monitoring.RecordSweepCandidate(opts.Asset, "ok")
		candidates = append(candidates, ARIMACandidate{Order: order, MSE: mse})
	}
	if opts.Progress != nil && len(orders) > 0 {
		fmt.Fprintln(opts.Progress)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MSE < candidates[j].MSE
	})
	return candidates, nil
}

func evaluateOrder(ctx context.Context, series []float64, split int, order models.ARIMAOrder) (float64, error) {
	model := models.NewARIMA(order)

	history := make([]float64, split, len(series))
	copy(history, series[:split])

	sumSq := 0.0
	steps := 0
	for t := split; t < len(series); t++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		forecast, err := model.ForecastOne(history)
		if err != nil {
			return 0, fmt.Errorf("forecast at step %d: %w", t-split, err)
		}

		diff := series[t] - forecast
		sumSq += diff * diff
		steps++

		history = append(history, series[t])
	}

	return sumSq / float64(steps), nil
}
