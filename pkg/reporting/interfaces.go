package reporting

import (
	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/rolling"
)

// BatchReport is everything one evaluation batch produced, in the order it
// was produced.
type BatchReport struct {
	Leaderboard  *evaluation.Leaderboard
	ModelResults []*evaluation.ModelResult

	// ARIMA sweep candidates by asset, sorted by MSE
	ARIMASweeps map[string][]rolling.ARIMACandidate
}

// ConsoleReporter prints results to the terminal
type ConsoleReporter interface {
	PrintLeaderboard(board *evaluation.Leaderboard)
	PrintARIMASweep(asset string, candidates []rolling.ARIMACandidate)
}

// FileReporter writes a batch report to disk
type FileReporter interface {
	Write(report *BatchReport, outputDir string) error
}
