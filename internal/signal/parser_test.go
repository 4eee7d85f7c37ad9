package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CleanJSON(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": 82, "reasoning": "Strong momentum above VWAP", "entry_price": 150.25, "stop_loss": 148.50, "take_profit": 154.00, "position_size_recommendation": "MEDIUM", "risk_factors": ["earnings next week"], "time_horizon": "intraday"}`

	sig, err := Parse(raw, "AAPL", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, 82.0, sig.Confidence)
	assert.Equal(t, "Strong momentum above VWAP", sig.Reasoning)
	assert.Equal(t, 150.25, sig.EntryPrice)
	assert.Equal(t, 148.50, sig.StopLoss)
	assert.Equal(t, 154.00, sig.TakeProfit)
	assert.Equal(t, SizeMedium, sig.SizeRecommendation)
	assert.Equal(t, []string{"earnings next week"}, sig.RiskFactors)
	assert.Equal(t, "anthropic", sig.Provider)
}

func TestParse_MarkdownFence(t *testing.T) {
	raw := "Here's my analysis:\n```json\n{\"signal\": \"SELL\", \"confidence\": 75, \"reasoning\": \"Breaking below support\"}\n```\nLet me know if you need more."

	sig, err := Parse(raw, "TSLA", "gemini")
	require.NoError(t, err)

	assert.Equal(t, ActionSell, sig.Action)
	assert.Equal(t, 75.0, sig.Confidence)
}

func TestParse_BareFence(t *testing.T) {
	raw := "```\n{\"signal\": \"hold\", \"confidence\": 40, \"reasoning\": \"choppy\"}\n```"

	sig, err := Parse(raw, "SPY", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, ActionHold, sig.Action)
}

func TestParse_SurroundingProse(t *testing.T) {
	raw := `Based on the indicators I believe {"signal": "BUY", "confidence": 90, "reasoning": "gap and go"} is the right call.`

	sig, err := Parse(raw, "NVDA", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, 90.0, sig.Confidence)
}

func TestParse_TrailingCommaRepair(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": 65, "reasoning": "reclaimed VWAP", "risk_factors": ["low volume",],}`

	sig, err := Parse(raw, "AMD", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, []string{"low volume"}, sig.RiskFactors)
}

func TestParse_StringNumbers(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": "85", "reasoning": "breakout", "entry_price": "$150.50", "stop_loss": "148"}`

	sig, err := Parse(raw, "MSFT", "webhook")
	require.NoError(t, err)

	assert.Equal(t, 85.0, sig.Confidence)
	assert.Equal(t, 150.50, sig.EntryPrice)
	assert.Equal(t, 148.0, sig.StopLoss)
}

func TestParse_MissingRequiredFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"no signal", `{"confidence": 80, "reasoning": "x"}`, "signal"},
		{"no confidence", `{"signal": "BUY", "reasoning": "x"}`, "confidence"},
		{"no reasoning", `{"signal": "BUY", "confidence": 80}`, "reasoning"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw, "AAPL", "anthropic")
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Contains(t, pe.Reason, tc.want)
		})
	}
}

// Confidence never defaults in the single-call path: a present but
// unparsable value fails the parse and the cycle yields no signal.
func TestParse_UnparsableConfidenceFails(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": "not a number", "reasoning": "breakout"}`

	_, err := Parse(raw, "AAPL", "anthropic")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "number")

	_, err = Parse(`{"signal": "BUY", "confidence": "", "reasoning": "x"}`, "AAPL", "anthropic")
	require.Error(t, err)
}

// The optional price fields stay lenient: garbage defaults to absent
// instead of failing the whole parse.
func TestParse_UnparsablePriceDefaults(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": 80, "reasoning": "x", "entry_price": "market open"}`

	sig, err := Parse(raw, "AAPL", "anthropic")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sig.EntryPrice)
	assert.False(t, sig.HasStop())
}

func TestParse_InvalidAction(t *testing.T) {
	raw := `{"signal": "SHORT", "confidence": 80, "reasoning": "x"}`

	_, err := Parse(raw, "AAPL", "anthropic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signal value")
}

func TestParse_NoJSONAtAll(t *testing.T) {
	_, err := Parse("I cannot analyze this stock right now.", "AAPL", "anthropic")
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "no JSON object")
}

func TestParse_CaseNormalization(t *testing.T) {
	raw := `{"signal": " buy ", "confidence": 70, "reasoning": "x", "position_size_recommendation": "small"}`

	sig, err := Parse(raw, "AAPL", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, ActionBuy, sig.Action)
	assert.Equal(t, SizeSmall, sig.SizeRecommendation)
}

func TestParse_ConfidenceClamped(t *testing.T) {
	raw := `{"signal": "BUY", "confidence": 140, "reasoning": "x"}`

	sig, err := Parse(raw, "AAPL", "anthropic")
	require.NoError(t, err)
	assert.Equal(t, 100.0, sig.Confidence)
}

// A signal serialized to the model-output envelope and re-parsed comes back
// with the same side, confidence and prices.
func TestParse_RoundTrip(t *testing.T) {
	original := &TradingSignal{
		Symbol:     "AAPL",
		Action:     ActionSell,
		Confidence: 77,
		Reasoning:  "fading the open",
		EntryPrice: 150,
		StopLoss:   152,
		TakeProfit: 145,
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(string(data), "AAPL", "test")
	require.NoError(t, err)

	assert.Equal(t, original.Action, parsed.Action)
	assert.Equal(t, original.Confidence, parsed.Confidence)
	assert.Equal(t, original.EntryPrice, parsed.EntryPrice)
	assert.Equal(t, original.StopLoss, parsed.StopLoss)
	assert.Equal(t, original.TakeProfit, parsed.TakeProfit)
}

func TestHasStop(t *testing.T) {
	sig := &TradingSignal{EntryPrice: 150, StopLoss: 147}
	assert.True(t, sig.HasStop())

	assert.False(t, (&TradingSignal{EntryPrice: 150}).HasStop())
	assert.False(t, (&TradingSignal{StopLoss: 147}).HasStop())
	// Equal entry and stop would divide by zero in the sizer
	assert.False(t, (&TradingSignal{EntryPrice: 150, StopLoss: 150}).HasStop())
}
