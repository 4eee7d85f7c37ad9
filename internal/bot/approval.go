package bot

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/laramiej/ai-daytrading/internal/risk"
	"github.com/laramiej/ai-daytrading/internal/signal"
)

// Approver is the last gate before an order reaches the broker
type Approver interface {
	Approve(sig *signal.TradingSignal, quantity int, price float64, decision *risk.Decision) bool
}

// AutoApprover executes every risk-approved trade without asking
type AutoApprover struct{}

func (AutoApprover) Approve(sig *signal.TradingSignal, quantity int, price float64, decision *risk.Decision) bool {
	return true
}

// DenyAllApprover blocks everything, used for dry runs
type DenyAllApprover struct{}

func (DenyAllApprover) Approve(sig *signal.TradingSignal, quantity int, price float64, decision *risk.Decision) bool {
	return false
}

// ConsoleApprover asks for confirmation on stdin before each trade
type ConsoleApprover struct {
	reader *bufio.Reader
}

func NewConsoleApprover() *ConsoleApprover {
	return &ConsoleApprover{reader: bufio.NewReader(os.Stdin)}
}

func (a *ConsoleApprover) Approve(sig *signal.TradingSignal, quantity int, price float64, decision *risk.Decision) bool {
	fmt.Printf("\n📋 PROPOSED TRADE: %s %d shares of %s at ~$%.2f ($%.2f)\n",
		sig.Action, quantity, sig.Symbol, price, float64(quantity)*price)
	fmt.Printf("   Confidence: %.0f%%\n", sig.Confidence)
	fmt.Printf("   Reasoning: %s\n", sig.Reasoning)
	for _, w := range decision.Warnings {
		fmt.Printf("   ⚠️  %s\n", w)
	}
	fmt.Print("   Execute? [y/N]: ")

	line, err := a.reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
