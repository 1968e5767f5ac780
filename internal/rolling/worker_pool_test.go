package rolling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/models"
)

func batchJobs(t *testing.T) []Job {
	t.Helper()
	split := syntheticSplit(t, 80, 11)

	factories := []models.Factory{
		func() models.Model { return models.NewLinearRegression() },
		func() models.Model { return models.NewRidgeRegression(1.0) },
		func() models.Model { return models.NewLogisticRegression(1.0) },
		func() models.Model { return models.NewKNNClassifier(5) },
	}

	jobs := make([]Job, len(factories))
	for i, factory := range factories {
		jobs[i] = Job{
			ID:    i,
			Asset: "BTCUSDT",
			Split: split,
			New:   factory,
			Opts:  Options{Asset: "BTCUSDT"},
		}
	}
	return jobs
}

// TestRunBatch_ResultsOrderedByJobID tests that output order is by ID, not
// completion order
func TestRunBatch_ResultsOrderedByJobID(t *testing.T) {
	jobs := batchJobs(t)

	results, err := RunBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, result := range results {
		assert.Equal(t, i, result.ID)
		require.NoError(t, result.Err)
		require.NotNil(t, result.Run)
	}
	assert.Equal(t, "LinearRegression", results[0].Model)
	assert.Equal(t, "KNeighborsClassifier_k5", results[3].Model)
}

// TestRunBatch_DeterministicAcrossWorkerCounts tests that worker count never
// changes the numbers a batch produces
func TestRunBatch_DeterministicAcrossWorkerCounts(t *testing.T) {
	serial, err := RunBatch(context.Background(), batchJobs(t), 1)
	require.NoError(t, err)
	parallel, err := RunBatch(context.Background(), batchJobs(t), 4)
	require.NoError(t, err)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i].ID, parallel[i].ID)
		assert.Equal(t, serial[i].Model, parallel[i].Model)
		assert.Equal(t, serial[i].Run.Records, parallel[i].Run.Records)
		assert.Equal(t, serial[i].Run.TrainMetric, parallel[i].Run.TrainMetric)
		assert.Equal(t, serial[i].Run.ValidateMetric, parallel[i].Run.ValidateMetric)
	}
}

// failingModel always fails to fit.
type failingModel struct{}

func (m *failingModel) Name() string                           { return "failing" }
func (m *failingModel) Kind() models.Kind                      { return models.KindRegression }
func (m *failingModel) Fit([][]float64, []float64) error       { return errors.New("fit exploded") }
func (m *failingModel) Predict([][]float64) ([]float64, error) { return nil, errors.New("unfitted") }

// TestRunBatch_FailedRunStaysInItsSlot tests that one failing job does not
// corrupt the rest of the batch
func TestRunBatch_FailedRunStaysInItsSlot(t *testing.T) {
	jobs := batchJobs(t)
	jobs[1].New = func() models.Model { return &failingModel{} }

	results, err := RunBatch(context.Background(), jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Run)

	require.NoError(t, results[0].Err)
	require.NoError(t, results[2].Err)
	require.NoError(t, results[3].Err)
}

// TestRunBatch_CancelledContextAbortsBatch tests that cancellation fails the
// whole batch instead of returning a partial result set
func TestRunBatch_CancelledContextAbortsBatch(t *testing.T) {
	jobs := batchJobs(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := RunBatch(ctx, jobs, 2)
	assert.Error(t, err)
	assert.Nil(t, results)
}
