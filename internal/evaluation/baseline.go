package evaluation

import (
	"fmt"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/dataset"
)

// BuyAndHoldRow builds the no-model baseline: buy every day, sell the next,
// realized forward return averaged over the validate segment. No error or
// accuracy metric is defined for it.
func BuyAndHoldRow(asset, regime string, validate *dataset.Frame) (LeaderboardRow, error) {
	fwdRet, err := validate.Column(dataset.ColFwdRet)
	if err != nil {
		return LeaderboardRow{}, fmt.Errorf("buy-and-hold baseline: %w", err)
	}
	fwdPct, err := validate.Column(dataset.ColFwdPctChg)
	if err != nil {
		return LeaderboardRow{}, fmt.Errorf("buy-and-hold baseline: %w", err)
	}

	return NewBaselineRow("baseline_hold", asset, regime, meanOf(fwdRet), meanOf(fwdPct)), nil
}

// MajorityClassResult builds the classification baseline that always
// predicts the most frequent training label. Its accuracy is the fraction
// of rows whose actual label equals the majority label; its trade series is
// always-long or always-short accordingly.
func MajorityClassResult(asset, regime string, train, validate *dataset.Frame) (*ModelResult, LeaderboardRow, error) {
	trainLabels, err := train.Column(dataset.ColFwdClosePositive)
	if err != nil {
		return nil, LeaderboardRow{}, fmt.Errorf("majority baseline: %w", err)
	}

	positives := 0
	for _, v := range trainLabels {
		if v > 0 {
			positives++
		}
	}
	majority := 0.0
	if 2*positives >= len(trainLabels) {
		majority = 1.0
	}

	// always predict the majority label for every validate row
	records := make([]PredictionRecord, validate.Len())
	for i := 0; i < validate.Len(); i++ {
		actual, err := validate.Value(i, dataset.ColFwdClosePositive)
		if err != nil {
			return nil, LeaderboardRow{}, err
		}
		records[i] = PredictionRecord{
			Timestamp: validate.Timestamp(i),
			Predicted: majority,
			Actual:    actual,
		}
	}

	result, err := BuildModelResult("baseline_majority", asset, regime, records, validate)
	if err != nil {
		return nil, LeaderboardRow{}, err
	}

	trainAcc := majorityAccuracy(trainLabels, majority)
	validateLabels, err := validate.Column(dataset.ColFwdClosePositive)
	if err != nil {
		return nil, LeaderboardRow{}, err
	}
	validateAcc := majorityAccuracy(validateLabels, majority)

	row := NewClassificationRow("baseline_majority", asset, regime, result.AvgTrade, result.PctAvgTrade, trainAcc, validateAcc)
	return result, row, nil
}

func majorityAccuracy(labels []float64, majority float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	correct := 0
	for _, v := range labels {
		if (v > 0) == (majority > 0) {
			correct++
		}
	}
	return float64(correct) / float64(len(labels))
}
