package reporting

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintSummary renders the day's trades as a console table
func (r *DailyReport) PrintSummary(dailyPnL float64) {
	records := r.Records()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DAILY TRADING SUMMARY %s", r.date.Format("2006-01-02"))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Time", "Symbol", "Side", "Qty", "Price", "Value", "Status", "Detail"})

	for _, rec := range records {
		status := "✅ executed"
		if !rec.Executed {
			status = "🚫 blocked"
		}
		t.AppendRow(table.Row{
			rec.Timestamp.Format("15:04:05"),
			rec.Symbol,
			rec.Side,
			rec.Quantity,
			fmt.Sprintf("$%.2f", rec.Price),
			fmt.Sprintf("$%.2f", rec.Value),
			status,
			truncateDetail(rec.Reason),
		})
	}

	executed, blocked := r.executedCount()
	t.AppendFooter(table.Row{"", "", "", "", "",
		fmt.Sprintf("P&L $%.2f", dailyPnL),
		fmt.Sprintf("%d executed", executed),
		fmt.Sprintf("%d blocked", blocked),
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 8, WidthMax: 50},
	})

	t.Render()
	fmt.Println()
}

func truncateDetail(s string) string {
	if len(s) <= 60 {
		return s
	}
	return s[:60] + "..."
}
