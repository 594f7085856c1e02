// journal/export.go
package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

var exportHeader = []string{
	"id", "account_id", "symbol", "direction", "quantity",
	"entry_time", "entry_price", "exit_time", "exit_price", "pnl",
	"source", "import_source", "tags",
}

// ExportCSV writes trades as CSV. Open trades leave the exit and pnl
// columns blank.
func ExportCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, t := range trades {
		exitTime, exitPrice, pnl := "", "", ""
		if t.ExitTime != nil {
			exitTime = t.ExitTime.UTC().Format(time.RFC3339)
		}
		if t.ExitPrice != nil {
			exitPrice = f(*t.ExitPrice)
		}
		if t.PnL != nil {
			pnl = f(*t.PnL)
		}

		if err := cw.Write([]string{
			t.ID,
			t.AccountID,
			t.Symbol,
			string(t.Direction),
			f(t.Quantity),
			t.EntryTime.UTC().Format(time.RFC3339),
			f(t.EntryPrice),
			exitTime,
			exitPrice,
			pnl,
			t.Source,
			t.ImportSource,
			strings.Join(t.Tags, ";"),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
