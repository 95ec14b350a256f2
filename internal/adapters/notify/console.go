package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implements ports.Notifier, printing one line per simulation
// event and a per-variant summary table on demand.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// OrderPlaced prints a placement line.
func (c *Console) OrderPlaced(o domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s][%s] PLACED  %-11s %-4s @ $%.2f x%.0f %s\n",
		timestamp(), o.Asset, o.Variant, o.Side, o.Price, o.Size, shortSlug(o.MarketSlug))
}

// OrderFilled prints a fill line, flagging second-chance fills.
func (c *Console) OrderFilled(o domain.Order, secondChance bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag := "FILLED "
	if secondChance {
		tag = "FILLED*"
	}
	fmt.Fprintf(c.out, "[%s][%s] %s %-11s %-4s @ $%.2f %.0f/%.0f\n",
		timestamp(), o.Asset, tag, o.Variant, o.Side, o.LimitPrice, o.FilledSize, o.Size)
}

// OrderCancelled prints a cancellation line.
func (c *Console) OrderCancelled(o domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s][%s] CANCEL  %-11s %-4s entry window closed\n",
		timestamp(), o.Asset, o.Variant, o.Side)
}

// TradeResolved prints the settlement line with signed pnl.
func (c *Console) TradeResolved(t domain.Trade) {
	c.mu.Lock()
	defer c.mu.Unlock()
	icon := "WIN "
	if t.Result == domain.TradeResultLoss {
		icon = "LOSS"
	}
	fmt.Fprintf(c.out, "[%s][%s] %s    %-11s %-4s pnl $%+.2f\n",
		timestamp(), t.Asset, icon, t.Variant, t.Side, t.PnL)
}

// PrintSummary renders the per-variant performance table.
func (c *Console) PrintSummary(metrics []domain.VariantMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "\n=== Variant performance ===\n")
	table := tablewriter.NewWriter(c.out)
	table.Header("Variant", "Trades", "W", "L", "Pend", "Win%", "PnL", "Volume", "ROI%")

	for _, m := range metrics {
		table.Append(
			m.VariantName,
			fmt.Sprintf("%d", m.TotalTrades),
			fmt.Sprintf("%d", m.Wins),
			fmt.Sprintf("%d", m.Losses),
			fmt.Sprintf("%d", m.Pending),
			fmt.Sprintf("%.1f", m.WinRate()),
			fmt.Sprintf("$%.2f", m.TotalPnL),
			fmt.Sprintf("$%.2f", m.TotalInvested),
			fmt.Sprintf("%.1f", m.ROI()),
		)
	}
	table.Render()
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// shortSlug keeps the distinguishing tail of a market slug.
func shortSlug(slug string) string {
	if len(slug) <= 14 {
		return slug
	}
	return "…" + slug[len(slug)-14:]
}
