package rolling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/monitoring"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/preprocess"
)

// Options configures a walk-forward run.
type Options struct {
	Asset            string
	FeatureSelection bool
	NumFeatures      int
	Progress         io.Writer // nil disables progress output
}

// RunResult is the outcome of one (asset, model) walk-forward run. Records
// hold the out-of-sample prediction for every validate row in order.
// TrainMetric is the per-step in-sample diagnostic averaged over all steps;
// ValidateMetric scores the full out-of-sample sequence.
type RunResult struct {
	Asset     string
	ModelName string
	Kind      models.Kind

	Records        []evaluation.PredictionRecord
	TrainMetric    float64
	ValidateMetric float64
	Features       []string
}

// Run executes the fixed-window walk-forward evaluation of one model on one
// asset. The window starts as the scaled Train segment and keeps its length
// for the whole run: each step refits the model on the current window,
// predicts the next validate row, then drops the oldest window row and
// appends the row just predicted. The validate target enters the window only
// after it has been predicted, so no step ever sees its own future.
func Run(ctx context.Context, split *dataset.Split, model models.Model, opts Options) (*RunResult, error) {
	started := time.Now()

	scaled, _, err := preprocess.ScaleSplit(split, dataset.ScaledFeatureColumns())
	if err != nil {
		return nil, fmt.Errorf("rolling %s/%s: %w", opts.Asset, model.Name(), err)
	}

	target := evaluation.TargetFor(model.Kind())

	features := dataset.FeatureColumns()
	if opts.FeatureSelection {
		selected, err := preprocess.SelectTopFeatures(model, scaled.Train, target, features, opts.NumFeatures)
		switch {
		case errors.Is(err, preprocess.ErrRankingUnsupported):
			log.Printf("⚠️  %s supports no feature ranking, using all %d features", model.Name(), len(features))
		case err != nil:
			return nil, fmt.Errorf("rolling %s/%s: feature selection: %w", opts.Asset, model.Name(), err)
		default:
			features = selected
		}
	}

	xWindow, err := scaled.Train.Matrix(features)
	if err != nil {
		return nil, err
	}
	yWindow, err := scaled.Train.Column(target)
	if err != nil {
		return nil, err
	}
	validateY, err := scaled.Validate.Column(target)
	if err != nil {
		return nil, err
	}

	steps := scaled.Validate.Len()
	if steps == 0 {
		return nil, fmt.Errorf("rolling %s/%s: validate segment is empty", opts.Asset, model.Name())
	}
	result := &RunResult{
		Asset:     opts.Asset,
		ModelName: model.Name(),
		Kind:      model.Kind(),
		Records:   make([]evaluation.PredictionRecord, 0, steps),
		Features:  features,
	}

	stepMetricSum := 0.0
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := model.Fit(xWindow, yWindow); err != nil {
			return nil, fmt.Errorf("rolling %s/%s: step %d fit: %w", opts.Asset, model.Name(), i, err)
		}
		monitoring.RecordRefit(model.Name())

		inSample, err := model.Predict(xWindow)
		if err != nil {
			return nil, fmt.Errorf("rolling %s/%s: step %d in-sample predict: %w", opts.Asset, model.Name(), i, err)
		}
		stepMetric, err := scoreMetric(model.Kind(), yWindow, inSample)
		if err != nil {
			return nil, err
		}
		stepMetricSum += stepMetric

		row, err := scaled.Validate.Row(i, features)
		if err != nil {
			return nil, err
		}
		pred, err := model.Predict([][]float64{row})
		if err != nil {
			return nil, fmt.Errorf("rolling %s/%s: step %d predict: %w", opts.Asset, model.Name(), i, err)
		}

		result.Records = append(result.Records, evaluation.PredictionRecord{
			Timestamp: scaled.Validate.Timestamp(i),
			Predicted: pred[0],
			Actual:    validateY[i],
		})

		// slide: drop the oldest row, append the one just predicted
		xWindow = append(xWindow[1:], row)
		yWindow = append(yWindow[1:], validateY[i])

		if opts.Progress != nil {
			fmt.Fprintf(opts.Progress, "\r🔄 %s %s: step %d/%d", opts.Asset, model.Name(), i+1, steps)
		}
	}
	if opts.Progress != nil && steps > 0 {
		fmt.Fprintln(opts.Progress)
	}

	result.TrainMetric = stepMetricSum / float64(steps)

	predicted := make([]float64, len(result.Records))
	for i, rec := range result.Records {
		predicted[i] = rec.Predicted
	}
	result.ValidateMetric, err = scoreMetric(model.Kind(), validateY, predicted)
	if err != nil {
		return nil, err
	}

	monitoring.RecordRun(opts.Asset, model.Name(), evaluation.RegimeRolling, time.Since(started).Seconds())
	return result, nil
}

// Finalize converts a run into its trade table and leaderboard row against
// the unscaled validate frame.
func (r *RunResult) Finalize(validate *dataset.Frame) (*evaluation.ModelResult, evaluation.LeaderboardRow, error) {
	modelResult, err := evaluation.BuildModelResult(r.ModelName, r.Asset, evaluation.RegimeRolling, r.Records, validate)
	if err != nil {
		return nil, evaluation.LeaderboardRow{}, err
	}

	var row evaluation.LeaderboardRow
	if r.Kind == models.KindRegression {
		row = evaluation.NewRegressionRow(r.ModelName, r.Asset, evaluation.RegimeRolling,
			modelResult.AvgTrade, modelResult.PctAvgTrade, r.TrainMetric, r.ValidateMetric)
	} else {
		row = evaluation.NewClassificationRow(r.ModelName, r.Asset, evaluation.RegimeRolling,
			modelResult.AvgTrade, modelResult.PctAvgTrade, r.TrainMetric, r.ValidateMetric)
	}
	return modelResult, row, nil
}

func scoreMetric(kind models.Kind, actual, predicted []float64) (float64, error) {
	if kind == models.KindClassification {
		return evaluation.Accuracy(actual, predicted)
	}
	return evaluation.RMSE(actual, predicted)
}
