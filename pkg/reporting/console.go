package reporting

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/rolling"
)

// DefaultConsoleReporter implements console output functionality
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintLeaderboard prints the ranked comparison table
func (r *DefaultConsoleReporter) PrintLeaderboard(board *evaluation.Leaderboard) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println("📊 MODEL LEADERBOARD")
	fmt.Println(strings.Repeat("=", 50))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{
		"#", "Model", "Asset", "Regime",
		"Avg Trade", "Pct Avg Trade",
		"Train RMSE", "Val RMSE",
		"Train Acc", "Val Acc",
		"Dropoff",
	})

	for i, row := range board.Sorted() {
		t.AppendRow(table.Row{
			i + 1, row.Model, row.Asset, row.Regime,
			fmtMetric(row.AvgTrade, "%.4f"),
			fmtMetric(row.PctAvgTrade, "%.4f%%"),
			fmtMetric(row.TrainRMSE, "%.6f"),
			fmtMetric(row.ValidateRMSE, "%.6f"),
			fmtMetric(row.TrainAccuracy, "%.4f"),
			fmtMetric(row.ValidateAccuracy, "%.4f"),
			fmtMetric(row.Dropoff, "%.4f"),
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignLeft},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
		{Number: 11, Align: text.AlignRight},
	})

	t.Render()
}

// PrintARIMASweep prints the order grid sweep results for one asset
func (r *DefaultConsoleReporter) PrintARIMASweep(asset string, candidates []rolling.ARIMACandidate) {
	fmt.Printf("\n🔎 ARIMA sweep: %s (%d candidates)\n", asset, len(candidates))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"#", "Order", "MSE"})
	for i, c := range candidates {
		t.AppendRow(table.Row{i + 1, c.Order.String(), fmt.Sprintf("%.8f", c.MSE)})
	}

	t.Render()

	if len(candidates) > 0 {
		fmt.Printf("✅ Best order: ARIMA%s (MSE %.8f)\n", candidates[0].Order, candidates[0].MSE)
	}
}

// fmtMetric formats a float, rendering NaN (absent metric family) as a dash.
func fmtMetric(v float64, format string) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf(format, v)
}
