package llm

import (
	"fmt"
	"sort"
	"strings"
)

const analystSystemPrompt = `You are an expert INTRADAY day trader. You ONLY trade within a single day - no overnight positions.
All data you receive is intraday: indicators are calculated on 1-minute bars and you are looking for trades lasting minutes to hours.`

const analysisResponseFormat = `Respond with ONLY valid JSON (no other text):
{
  "signal": "BUY" | "SELL" | "HOLD",
  "confidence": 0-100,
  "reasoning": "2-3 sentence explanation",
  "entry_price": 150.00,
  "stop_loss": 147.00,
  "take_profit": 155.00,
  "position_size_recommendation": "SMALL" | "MEDIUM" | "LARGE",
  "risk_factors": ["risk1", "risk2"],
  "time_horizon": "intraday"
}`

// buildAnalysisPrompt renders the single-shot analysis prompt
func buildAnalysisPrompt(snapshot MarketSnapshot, context string) string {
	var b strings.Builder

	b.WriteString("Analyze the following market data and produce a day-trading signal.\n\n")
	b.WriteString("MARKET DATA:\n")
	b.WriteString(FormatMarketSnapshot(snapshot))

	if context != "" {
		b.WriteString("\n\nADDITIONAL CONTEXT:\n")
		b.WriteString(context)
	}

	b.WriteString("\n\n")
	b.WriteString(analysisResponseFormat)

	return b.String()
}

// buildBullPrompt renders the bull advocate prompt
func buildBullPrompt(snapshot MarketSnapshot) string {
	symbol := snapshot.Symbol()
	return fmt.Sprintf(`You are a BULLISH stock analyst. Make the STRONGEST possible case for BUYING %s right now for a day trade.
Identify every bullish technical signal, favorable price action and sentiment, and explain why now is a good entry.
You MUST argue for buying even if signals are mixed.

MARKET DATA:
%s

Respond with ONLY valid JSON (no other text):
{
  "bull_case": "Your 2-3 sentence argument for buying",
  "key_bullish_signals": ["signal1", "signal2", "signal3"],
  "proposed_entry": 150.00,
  "proposed_stop_loss": 145.00,
  "proposed_take_profit": 160.00,
  "confidence": 75
}`, symbol, FormatMarketSnapshot(snapshot))
}

// buildBearPrompt renders the bear advocate prompt
func buildBearPrompt(snapshot MarketSnapshot) string {
	symbol := snapshot.Symbol()
	return fmt.Sprintf(`You are a BEARISH stock analyst. Make the STRONGEST possible case for SELLING or SHORTING %s right now for a day trade.
Identify every bearish technical signal, negative price action and sentiment, and explain why the stock is likely to go down from here.
You MUST argue for selling even if signals are mixed.

MARKET DATA:
%s

Respond with ONLY valid JSON (no other text):
{
  "bear_case": "Your 2-3 sentence argument for selling",
  "key_bearish_signals": ["signal1", "signal2", "signal3"],
  "proposed_entry": 150.00,
  "proposed_stop_loss": 155.00,
  "proposed_take_profit": 140.00,
  "confidence": 75
}`, symbol, FormatMarketSnapshot(snapshot))
}

// buildJudgePrompt renders the judge prompt from both structured cases
func buildJudgePrompt(bull, bear DebateCase, snapshot MarketSnapshot) string {
	symbol := snapshot.Symbol()
	return fmt.Sprintf(`You are a SKEPTICAL and IMPARTIAL trading judge. You've heard both the bull and bear cases for %s.
Your job is to make the FINAL DECISION: BUY, SELL, or HOLD.

BULL CASE (Advocate for BUYING):
%s
Key Bullish Signals: %s
Bull Confidence: %.0f%%

BEAR CASE (Advocate for SELLING/SHORTING):
%s
Key Bearish Signals: %s
Bear Confidence: %.0f%%

MARKET DATA (for your reference):
%s

JUDGING CRITERIA:
1. You are naturally skeptical - the default is HOLD unless one side is clearly stronger
2. A trade needs strong conviction to be worth the risk; weak cases mean HOLD
3. Consider the risk first: what happens if the trade goes wrong?
4. The higher confidence case doesn't automatically win - evaluate the quality of the arguments
5. Day trading is risky - when in doubt, HOLD

Respond with ONLY valid JSON (no other text):
{
  "decision": "BUY" | "SELL" | "HOLD",
  "reasoning": "2-3 sentence explanation",
  "winning_case": "BULL" | "BEAR" | "NEITHER",
  "confidence": 0-100,
  "entry_price": 150.00,
  "stop_loss": 147.00,
  "take_profit": 155.00,
  "position_size": "SMALL" | "MEDIUM" | "LARGE",
  "time_horizon": "HOURS",
  "risk_factors": ["risk1", "risk2"]
}

For HOLD use null for the price fields.`,
		symbol,
		bull.Argument, strings.Join(bull.KeySignals, ", "), bull.Confidence,
		bear.Argument, strings.Join(bear.KeySignals, ", "), bear.Confidence,
		FormatMarketSnapshot(snapshot))
}

// FormatMarketSnapshot renders the opaque snapshot into prompt text. Nested
// maps are rendered as indented sections; keys are sorted so the output is
// stable for a given snapshot.
func FormatMarketSnapshot(snapshot MarketSnapshot) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("INTRADAY MARKET DATA\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	writeSnapshotSection(&b, map[string]interface{}(snapshot), "")
	b.WriteString(strings.Repeat("=", 60))
	return b.String()
}

func writeSnapshotSection(b *strings.Builder, section map[string]interface{}, indent string) {
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := section[k].(type) {
		case map[string]interface{}:
			fmt.Fprintf(b, "%s--- %s ---\n", indent, strings.ToUpper(k))
			writeSnapshotSection(b, v, indent+"  ")
		case []interface{}:
			fmt.Fprintf(b, "%s%s:\n", indent, k)
			for i, item := range v {
				fmt.Fprintf(b, "%s  %d. %v\n", indent, i+1, item)
			}
		case float64:
			fmt.Fprintf(b, "%s%s: %.4g\n", indent, k, v)
		default:
			fmt.Fprintf(b, "%s%s: %v\n", indent, k, v)
		}
	}
}
