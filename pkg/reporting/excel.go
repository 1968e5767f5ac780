package reporting

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/crypto-forecast-lab/internal/evaluation"
	"github.com/ducminhle1904/crypto-forecast-lab/internal/rolling"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// ExcelStyles holds the style IDs used across sheets
type ExcelStyles struct {
	HeaderStyle  int
	NumberStyle  int
	PercentStyle int
}

// Write writes the whole batch report as one workbook: a leaderboard sheet,
// one trades sheet per model result, and a sweep sheet per swept asset.
func (r *DefaultExcelReporter) Write(report *BatchReport, outputDir string) error {
	if err := EnsureDir(outputDir); err != nil {
		return err
	}
	path := filepath.Join(outputDir, "evaluation_report.xlsx")

	fx := excelize.NewFile()
	defer fx.Close()

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	const leaderboardSheet = "Leaderboard"
	fx.SetSheetName(fx.GetSheetName(0), leaderboardSheet)
	if err := r.writeLeaderboardSheet(fx, leaderboardSheet, report.Leaderboard, styles); err != nil {
		return err
	}

	for _, result := range report.ModelResults {
		sheet := sheetName(fmt.Sprintf("%s %s %s", result.Asset, result.Model, regimeTag(result.Regime)))
		if _, err := fx.NewSheet(sheet); err != nil {
			return err
		}
		if err := r.writeTradesSheet(fx, sheet, result, styles); err != nil {
			return err
		}
	}

	for asset, candidates := range report.ARIMASweeps {
		sheet := sheetName("ARIMA " + asset)
		if _, err := fx.NewSheet(sheet); err != nil {
			return err
		}
		if err := r.writeSweepSheet(fx, sheet, candidates, styles); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates all Excel styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 2, // 0.00
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10, // 0.00%
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *DefaultExcelReporter) writeLeaderboardSheet(fx *excelize.File, sheet string, board *evaluation.Leaderboard, styles ExcelStyles) error {
	headers := []interface{}{
		"Rank", "Model", "Asset", "Regime",
		"Avg Trade", "Pct Avg Trade",
		"Train RMSE", "Validate RMSE",
		"Train Accuracy", "Validate Accuracy",
		"Dropoff",
	}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "K1", styles.HeaderStyle); err != nil {
		return err
	}

	for i, row := range board.Sorted() {
		cells := []interface{}{
			i + 1, row.Model, row.Asset, row.Regime,
			excelFloat(row.AvgTrade),
			excelFloat(row.PctAvgTrade),
			excelFloat(row.TrainRMSE),
			excelFloat(row.ValidateRMSE),
			excelFloat(row.TrainAccuracy),
			excelFloat(row.ValidateAccuracy),
			excelFloat(row.Dropoff),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	return fx.SetColWidth(sheet, "B", "D", 24)
}

func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, result *evaluation.ModelResult, styles ExcelStyles) error {
	headers := []interface{}{
		"Timestamp", "Close", "Predicted", "Actual", "Go Long", "Ret", "Pct Ret",
	}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "G1", styles.HeaderStyle); err != nil {
		return err
	}

	for i, trade := range result.Rows {
		cells := []interface{}{
			trade.Timestamp.Format("2006-01-02"),
			trade.Close,
			trade.Predicted,
			trade.Actual,
			trade.GoLong,
			trade.Ret,
			trade.PctRet,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	summaryRow := len(result.Rows) + 3
	if err := fx.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Avg Trade"); err != nil {
		return err
	}
	if err := fx.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), result.AvgTrade); err != nil {
		return err
	}
	if err := fx.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Pct Avg Trade"); err != nil {
		return err
	}
	return fx.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), result.PctAvgTrade)
}

func (r *DefaultExcelReporter) writeSweepSheet(fx *excelize.File, sheet string, candidates []rolling.ARIMACandidate, styles ExcelStyles) error {
	headers := []interface{}{"Rank", "Order", "MSE"}
	if err := fx.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", "C1", styles.HeaderStyle); err != nil {
		return err
	}

	for i, candidate := range candidates {
		cells := []interface{}{i + 1, candidate.Order.String(), candidate.MSE}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	return nil
}

// excelFloat maps NaN (absent metric family) to an empty cell.
func excelFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

// regimeTag shortens regime names so they survive the sheet name limit.
func regimeTag(regime string) string {
	switch regime {
	case "conventional":
		return "conv"
	case "rolling":
		return "roll"
	}
	return regime
}

// sheetName truncates to the 31 character Excel sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
