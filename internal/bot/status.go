package bot

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// printStartupInfo prints the session configuration at launch
func (bot *Bot) printStartupInfo() {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("DAY TRADER INITIALIZATION")
	t.SetStyle(table.StyleRounded)

	mode := "👀 Manual confirmation"
	if bot.cfg.Bot.EnableAutoTrading {
		mode = "🤖 Auto trading"
	}

	t.AppendRows([]table.Row{
		{"🏦 Broker", bot.broker.GetName()},
		{"🧠 Provider", bot.strategy.Provider()},
		{"🗣️ Debate Mode", fmt.Sprintf("%v", bot.strategy.DebateActive())},
		{"📋 Watchlist", bot.cfg.Bot.Watchlist},
		{"⏰ Scan Interval", bot.cfg.Bot.ScanInterval.String()},
		{"🎯 Min Confidence", fmt.Sprintf("%.0f%%", bot.cfg.Bot.MinConfidence)},
		{"🚨 Trading Mode", mode},
	})

	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"💰 Max Position", fmt.Sprintf("$%.2f", bot.cfg.Risk.MaxPositionSize)},
		{"📉 Max Daily Loss", fmt.Sprintf("$%.2f", bot.cfg.Risk.MaxDailyLoss)},
		{"📊 Max Exposure", fmt.Sprintf("$%.2f", bot.cfg.Risk.MaxTotalExposure)},
		{"🔢 Max Positions", fmt.Sprintf("%d", bot.cfg.Risk.MaxOpenPositions)},
		{"📈 Short Selling", fmt.Sprintf("%v", bot.cfg.Risk.EnableShortSelling)},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 60, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintStatus renders current account and position state as a table
func (bot *Bot) PrintStatus(ctx context.Context) error {
	snap, err := bot.accessor.Take(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("ACCOUNT STATUS")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"💵 Equity", fmt.Sprintf("$%.2f", snap.Account.Equity)},
		{"💰 Cash", fmt.Sprintf("$%.2f", snap.Account.Cash)},
		{"⚡ Buying Power", fmt.Sprintf("$%.2f", snap.Account.BuyingPower)},
		{"📊 Exposure", fmt.Sprintf("$%.2f of $%.2f", snap.Exposure(), bot.cfg.Risk.MaxTotalExposure)},
		{"📉 Daily P&L", fmt.Sprintf("$%.2f", bot.evaluator.Daily().PnL())},
		{"🔢 Open Positions", fmt.Sprintf("%d of %d", snap.OpenPositions(), bot.cfg.Risk.MaxOpenPositions)},
	})
	t.Render()

	if len(snap.Positions) > 0 {
		pt := table.NewWriter()
		pt.SetOutputMirror(os.Stdout)
		pt.SetTitle("OPEN POSITIONS")
		pt.SetStyle(table.StyleRounded)
		pt.AppendHeader(table.Row{"Symbol", "Side", "Qty", "Entry", "Current", "P&L", "P&L %"})

		for _, p := range snap.Positions {
			pt.AppendRow(table.Row{
				p.Symbol,
				p.Side,
				fmt.Sprintf("%.0f", p.Quantity),
				fmt.Sprintf("$%.2f", p.EntryPrice),
				fmt.Sprintf("$%.2f", p.CurrentPrice),
				fmt.Sprintf("$%.2f", p.PnL),
				fmt.Sprintf("%+.2f%%", p.PnLPercent),
			})
		}
		pt.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
			{Number: 7, Align: text.AlignRight},
		})
		pt.Render()
	}

	fmt.Println()
	return nil
}
