package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the daily report workbook to reports/daily_<date>.xlsx
// and returns the path.
func (r *DailyReport) WriteXLSX(dir string, dailyPnL float64) (string, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("daily_%s.xlsx", r.date.Format("2006-01-02")))

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"1F4E79"},
			Pattern: 1,
		},
	})
	if err != nil {
		return "", err
	}

	headers := []string{"Time", "Symbol", "Side", "Quantity", "Price", "Value", "Executed", "Detail", "Confidence", "Order ID"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(tradesSheet, cell, h)
		fx.SetCellStyle(tradesSheet, cell, cell, headerStyle)
	}

	for row, rec := range r.Records() {
		values := []interface{}{
			rec.Timestamp.Format("15:04:05"),
			rec.Symbol,
			rec.Side,
			rec.Quantity,
			rec.Price,
			rec.Value,
			rec.Executed,
			rec.Reason,
			rec.Confidence,
			rec.OrderID,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(tradesSheet, cell, v)
		}
	}

	// Summary sheet with the day's headline numbers
	const summarySheet = "Summary"
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return "", err
	}
	executed, blocked := r.executedCount()
	summary := [][]interface{}{
		{"Date", r.date.Format("2006-01-02")},
		{"Trades Executed", executed},
		{"Trades Blocked", blocked},
		{"Realized P&L", dailyPnL},
	}
	for row, pair := range summary {
		for col, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			fx.SetCellValue(summarySheet, cell, v)
		}
	}

	if err := fx.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return path, nil
}
