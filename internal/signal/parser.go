package signal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseError indicates malformed or incomplete model output. It is never
// fatal to a scan; the caller treats it as "no signal this cycle".
type ParseError struct {
	Symbol string
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse signal for %s: %s", e.Symbol, e.Reason)
}

func newParseError(symbol, reason, raw string) *ParseError {
	// Keep the raw payload short in logs
	if len(raw) > 500 {
		raw = raw[:500] + "..."
	}
	return &ParseError{Symbol: symbol, Reason: reason, Raw: raw}
}

// coerceFloat reads a JSON number or a numeric string, tolerating a
// leading dollar sign.
func coerceFloat(data []byte) (float64, error) {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return 0, err
		}
		s = strings.TrimSpace(unquoted)
		s = strings.TrimPrefix(s, "$")
	}
	return strconv.ParseFloat(s, 64)
}

// flexFloat accepts a JSON number or a numeric string. Unparsable values
// decode to zero instead of failing the whole document.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	v, err := coerceFloat(data)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// strictFloat accepts a JSON number or a numeric string and fails the
// decode on anything else. The single-call parser requires a usable
// confidence; only the price fields tolerate garbage.
type strictFloat float64

func (f *strictFloat) UnmarshalJSON(data []byte) error {
	v, err := coerceFloat(data)
	if err != nil {
		return fmt.Errorf("cannot parse %s as a number", data)
	}
	*f = strictFloat(v)
	return nil
}

// optFloat records whether a usable value was present at all. Missing,
// null and unparsable all leave Set false; a reported zero survives as an
// explicit value.
type optFloat struct {
	Value float64
	Set   bool
}

func (o *optFloat) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		return nil
	}
	v, err := coerceFloat(data)
	if err != nil {
		return nil
	}
	o.Value = v
	o.Set = true
	return nil
}

// rawSignal mirrors the JSON envelope the model is prompted to emit
type rawSignal struct {
	Signal      *string      `json:"signal"`
	Confidence  *strictFloat `json:"confidence"`
	Reasoning   *string      `json:"reasoning"`
	EntryPrice  flexFloat    `json:"entry_price"`
	StopLoss    flexFloat    `json:"stop_loss"`
	TakeProfit  flexFloat    `json:"take_profit"`
	SizeRec     string       `json:"position_size_recommendation"`
	RiskFactors []string     `json:"risk_factors"`
	TimeHorizon string       `json:"time_horizon"`
}

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// extractJSON pulls the JSON document out of free-form model text. Fenced
// code blocks win; otherwise the outermost balanced brace span is taken.
func extractJSON(raw string) (string, bool) {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// decodeTolerant unmarshals into out, retrying once after stripping
// trailing commas when the first attempt fails.
func decodeTolerant(doc string, out interface{}) error {
	if err := json.Unmarshal([]byte(doc), out); err == nil {
		return nil
	}
	repaired := trailingCommaRe.ReplaceAllString(doc, "$1")
	return json.Unmarshal([]byte(repaired), out)
}

// Parse converts raw model output into a TradingSignal. The single-call
// path is strict about required fields: signal, confidence and reasoning
// must all be present or parsing fails.
func Parse(raw, symbol, provider string) (*TradingSignal, error) {
	doc, ok := extractJSON(raw)
	if !ok {
		return nil, newParseError(symbol, "no JSON object found in response", raw)
	}

	var rs rawSignal
	if err := decodeTolerant(doc, &rs); err != nil {
		return nil, newParseError(symbol, fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	if rs.Signal == nil {
		return nil, newParseError(symbol, "missing required field: signal", raw)
	}
	if rs.Confidence == nil {
		return nil, newParseError(symbol, "missing required field: confidence", raw)
	}
	if rs.Reasoning == nil {
		return nil, newParseError(symbol, "missing required field: reasoning", raw)
	}

	action, err := normalizeAction(*rs.Signal)
	if err != nil {
		return nil, newParseError(symbol, err.Error(), raw)
	}

	sig := &TradingSignal{
		Symbol:             symbol,
		Action:             action,
		Confidence:         clampConfidence(float64(*rs.Confidence)),
		Reasoning:          *rs.Reasoning,
		EntryPrice:         float64(rs.EntryPrice),
		StopLoss:           float64(rs.StopLoss),
		TakeProfit:         float64(rs.TakeProfit),
		SizeRecommendation: normalizeSizeBand(rs.SizeRec),
		RiskFactors:        rs.RiskFactors,
		TimeHorizon:        rs.TimeHorizon,
		Provider:           provider,
		Timestamp:          time.Now(),
	}
	return sig, nil
}

func trimUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeAction(s string) (Action, error) {
	switch Action(trimUpper(s)) {
	case ActionBuy:
		return ActionBuy, nil
	case ActionSell:
		return ActionSell, nil
	case ActionHold:
		return ActionHold, nil
	default:
		return "", fmt.Errorf("invalid signal value: %q", s)
	}
}

func normalizeSizeBand(s string) SizeBand {
	switch SizeBand(trimUpper(s)) {
	case SizeSmall:
		return SizeSmall
	case SizeMedium:
		return SizeMedium
	case SizeLarge:
		return SizeLarge
	default:
		return ""
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
