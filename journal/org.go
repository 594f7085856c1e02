package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a Trade as an Org-mode block suitable for pasting
// into a personal journal. Structured facts live in a PROPERTIES drawer for
// easy search; the narrative sections are left blank for the trader.
func FormatTradeOrg(t Trade) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, t.Direction, shortID(t.ID))

	exitTime, exitPrice, pnl := "-", "-", "-"
	if t.ExitTime != nil {
		exitTime = t.ExitTime.UTC().Format(time.RFC3339)
	}
	if t.ExitPrice != nil {
		exitPrice = fmt.Sprintf("%.5f", *t.ExitPrice)
	}
	if t.PnL != nil {
		pnl = fmt.Sprintf("%.2f", *t.PnL)
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ACCOUNT: %s\n", t.AccountID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":QUANTITY: %g\n", t.Quantity))
	b.WriteString(fmt.Sprintf(":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_TIME: %s\n", exitTime))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %s\n", exitPrice))
	b.WriteString(fmt.Sprintf(":PNL: %s\n", pnl))
	b.WriteString(fmt.Sprintf(":SOURCE: %s\n", t.Source))
	if t.ImportSource != "" {
		b.WriteString(fmt.Sprintf(":IMPORT_SOURCE: %s\n", t.ImportSource))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
