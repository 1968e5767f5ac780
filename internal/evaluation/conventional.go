package evaluation

import (
	"errors"
	"fmt"
	"log"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
	"github.com/ducminhle1904/crypto-forecast-lab/pkg/preprocess"
)

const (
	RegimeConventional = "conventional"
	RegimeRolling      = "rolling"
)

// ConventionalOptions controls the single-split evaluation regime.
type ConventionalOptions struct {
	FeatureSelection bool
	NumFeatures      int
}

// ConventionalResult collects everything one asset's conventional evaluation
// produced: leaderboard rows (models plus baselines) and per-model trade
// tables.
type ConventionalResult struct {
	Rows         []LeaderboardRow
	ModelResults []*ModelResult
}

// EvaluateConventional runs the single train/validate/test regime for one
// asset: fit each model once on Train, score on Train and Validate, convert
// validate predictions to trades, and append the buy-and-hold and
// majority-class baselines. A model whose fit or predict fails is reported
// and skipped; it contributes no leaderboard row.
func EvaluateConventional(asset string, split *dataset.Split, regModels, classModels []models.Model, regOpts, classOpts ConventionalOptions) (*ConventionalResult, error) {
	scaled, _, err := preprocess.ScaleSplit(split, dataset.ScaledFeatureColumns())
	if err != nil {
		return nil, fmt.Errorf("conventional %s: %w", asset, err)
	}

	out := &ConventionalResult{}

	for _, model := range regModels {
		if err := evaluateOneConventional(asset, scaled, model, regOpts, out); err != nil {
			log.Printf("⚠️  %s on %s failed, skipping: %v", model.Name(), asset, err)
		}
	}
	for _, model := range classModels {
		if err := evaluateOneConventional(asset, scaled, model, classOpts, out); err != nil {
			log.Printf("⚠️  %s on %s failed, skipping: %v", model.Name(), asset, err)
		}
	}

	holdRow, err := BuyAndHoldRow(asset, RegimeConventional, split.Validate)
	if err != nil {
		return nil, err
	}
	out.Rows = append(out.Rows, holdRow)

	majorityResult, majorityRow, err := MajorityClassResult(asset, RegimeConventional, split.Train, split.Validate)
	if err != nil {
		return nil, err
	}
	out.ModelResults = append(out.ModelResults, majorityResult)
	out.Rows = append(out.Rows, majorityRow)

	return out, nil
}

func evaluateOneConventional(asset string, scaled *dataset.Split, model models.Model, opts ConventionalOptions, out *ConventionalResult) error {
	target := TargetFor(model.Kind())

	features := dataset.FeatureColumns()
	if opts.FeatureSelection {
		selected, err := preprocess.SelectTopFeatures(model, scaled.Train, target, features, opts.NumFeatures)
		switch {
		case errors.Is(err, preprocess.ErrRankingUnsupported):
			log.Printf("⚠️  %s supports no feature ranking, using all %d features", model.Name(), len(features))
		case err != nil:
			return fmt.Errorf("feature selection: %w", err)
		default:
			features = selected
		}
	}

	trainX, err := scaled.Train.Matrix(features)
	if err != nil {
		return err
	}
	trainY, err := scaled.Train.Column(target)
	if err != nil {
		return err
	}
	validateX, err := scaled.Validate.Matrix(features)
	if err != nil {
		return err
	}
	validateY, err := scaled.Validate.Column(target)
	if err != nil {
		return err
	}

	if err := model.Fit(trainX, trainY); err != nil {
		return err
	}

	trainPred, err := model.Predict(trainX)
	if err != nil {
		return err
	}
	validatePred, err := model.Predict(validateX)
	if err != nil {
		return err
	}

	records := make([]PredictionRecord, len(validatePred))
	for i := range validatePred {
		records[i] = PredictionRecord{
			Timestamp: scaled.Validate.Timestamp(i),
			Predicted: validatePred[i],
			Actual:    validateY[i],
		}
	}

	result, err := BuildModelResult(model.Name(), asset, RegimeConventional, records, scaled.Validate)
	if err != nil {
		return err
	}
	out.ModelResults = append(out.ModelResults, result)

	var row LeaderboardRow
	if model.Kind() == models.KindRegression {
		trainRMSE, err := RMSE(trainY, trainPred)
		if err != nil {
			return err
		}
		validateRMSE, err := RMSE(validateY, validatePred)
		if err != nil {
			return err
		}
		row = NewRegressionRow(model.Name(), asset, RegimeConventional, result.AvgTrade, result.PctAvgTrade, trainRMSE, validateRMSE)
	} else {
		trainAcc, err := Accuracy(trainY, trainPred)
		if err != nil {
			return err
		}
		validateAcc, err := Accuracy(validateY, validatePred)
		if err != nil {
			return err
		}
		row = NewClassificationRow(model.Name(), asset, RegimeConventional, result.AvgTrade, result.PctAvgTrade, trainAcc, validateAcc)
	}
	out.Rows = append(out.Rows, row)

	return nil
}

// TargetFor maps a model kind to its target column.
func TargetFor(kind models.Kind) string {
	if kind == models.KindClassification {
		return dataset.ColFwdClosePositive
	}
	return dataset.ColFwdLogRet
}
