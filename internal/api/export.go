package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adelgadoc/updownbot/internal/domain"
)

const exportTimeLayout = "2006-01-02 15:04:05"

func (s *server) exportOrders(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	orders := s.deps.Registry.Orders(asset, 0, 0)

	var body, ext string
	switch format := c.DefaultQuery("format", "txt"); format {
	case "txt":
		body, ext = formatOrdersTXT(orders), "txt"
	case "md":
		body, ext = formatOrdersMD(orders), "md"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format: " + format})
		return
	}
	serveExport(c, "orders", ext, body)
}

func (s *server) exportTrades(c *gin.Context) {
	asset, ok := parseAssetQuery(c)
	if !ok {
		return
	}
	trades := s.deps.Registry.Trades(asset, "", 0, 0)

	var body, ext string
	switch format := c.DefaultQuery("format", "txt"); format {
	case "txt":
		body, ext = formatTradesTXT(trades), "txt"
	case "md":
		body, ext = formatTradesMD(trades), "md"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format: " + format})
		return
	}
	serveExport(c, "trades", ext, body)
}

func serveExport(c *gin.Context, kind, ext, body string) {
	filename := fmt.Sprintf("%s_%s.%s", kind, time.Now().Format("20060102_150405"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	contentType := "text/plain; charset=utf-8"
	if ext == "md" {
		contentType = "text/markdown; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, []byte(body))
}

func formatOrdersTXT(orders []domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORDER HISTORY (%d orders)\n", len(orders))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(exportTimeLayout))
	b.WriteString("created\tvariant\tasset\tmarket\tside\tprice\tsize\tfilled\tstatus\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.1f\t%.1f\t%s\n",
			o.CreatedAt.Format(exportTimeLayout), o.Variant, o.Asset, o.MarketSlug,
			o.Side, o.Price, o.Size, o.FilledSize, o.Status)
	}
	b.WriteString("\n")
	writeOrderSummary(&b, orders, "%-10s %d\n")
	return b.String()
}

func formatOrdersMD(orders []domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Order History\n\n%d orders, generated %s\n\n",
		len(orders), time.Now().Format(exportTimeLayout))
	b.WriteString("| Created | Variant | Asset | Market | Side | Price | Size | Filled | Status |\n")
	b.WriteString("|---------|---------|-------|--------|------|-------|------|--------|--------|\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.2f | %.1f | %.1f | %s |\n",
			o.CreatedAt.Format(exportTimeLayout), o.Variant, o.Asset, o.MarketSlug,
			o.Side, o.Price, o.Size, o.FilledSize, o.Status)
	}
	b.WriteString("\n## Summary\n\n")
	writeOrderSummary(&b, orders, "- %s: %d\n")
	return b.String()
}

func writeOrderSummary(b *strings.Builder, orders []domain.Order, lineFormat string) {
	byStatus := make(map[domain.OrderStatus]int)
	for _, o := range orders {
		byStatus[o.Status]++
	}
	for _, st := range []domain.OrderStatus{
		domain.OrderStatusOpen, domain.OrderStatusFilled,
		domain.OrderStatusCancelled, domain.OrderStatusExpired,
	} {
		if byStatus[st] > 0 {
			fmt.Fprintf(b, lineFormat, string(st), byStatus[st])
		}
	}
}

func formatTradesTXT(trades []domain.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TRADE HISTORY (%d trades)\n", len(trades))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(exportTimeLayout))
	b.WriteString("entry\tvariant\tasset\tmarket\tside\tentry_price\tsize\tinvested\tresult\tpnl\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.1f\t%.2f\t%s\t%+.2f\n",
			t.EntryTime.Format(exportTimeLayout), t.Variant, t.Asset, t.MarketSlug,
			t.Side, t.EntryPrice, t.FilledSize, t.Invested, t.Result, t.PnL)
	}
	b.WriteString("\n")
	writeTradeSummary(&b, trades, "%s: %s\n")
	return b.String()
}

func formatTradesMD(trades []domain.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trade History\n\n%d trades, generated %s\n\n",
		len(trades), time.Now().Format(exportTimeLayout))
	b.WriteString("| Entry | Variant | Asset | Market | Side | Entry Price | Size | Invested | Result | PnL |\n")
	b.WriteString("|-------|---------|-------|--------|------|-------------|------|----------|--------|-----|\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %.2f | %.1f | %.2f | %s | %+.2f |\n",
			t.EntryTime.Format(exportTimeLayout), t.Variant, t.Asset, t.MarketSlug,
			t.Side, t.EntryPrice, t.FilledSize, t.Invested, t.Result, t.PnL)
	}
	b.WriteString("\n## Summary\n\n")
	writeTradeSummary(&b, trades, "- %s: %s\n")
	return b.String()
}

func writeTradeSummary(b *strings.Builder, trades []domain.Trade, lineFormat string) {
	var wins, losses, pending int
	var pnl, invested float64
	for _, t := range trades {
		switch t.Result {
		case domain.TradeResultWin:
			wins++
		case domain.TradeResultLoss:
			losses++
		default:
			pending++
		}
		pnl += t.PnL
		invested += t.Invested
	}

	completed := wins + losses
	winRate, roi := 0.0, 0.0
	if completed > 0 {
		winRate = float64(wins) / float64(completed) * 100
	}
	if invested > 0 {
		roi = pnl / invested * 100
	}

	fmt.Fprintf(b, lineFormat, "wins", fmt.Sprintf("%d", wins))
	fmt.Fprintf(b, lineFormat, "losses", fmt.Sprintf("%d", losses))
	fmt.Fprintf(b, lineFormat, "pending", fmt.Sprintf("%d", pending))
	fmt.Fprintf(b, lineFormat, "win_rate", fmt.Sprintf("%.1f%%", winRate))
	fmt.Fprintf(b, lineFormat, "total_pnl", fmt.Sprintf("%+.2f", pnl))
	fmt.Fprintf(b, lineFormat, "total_invested", fmt.Sprintf("%.2f", invested))
	fmt.Fprintf(b, lineFormat, "roi", fmt.Sprintf("%.2f%%", roi))
}
