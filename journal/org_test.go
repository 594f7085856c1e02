package journal

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 15, 10, 30, 45, 0, time.UTC)
	trade := closedTrade("trade-12345678-abcd", "A1", "NQZ4", entry, 18000, 18010.5, 2, 420)
	trade.ImportSource = "tradovate"

	out := FormatTradeOrg(trade)

	assert.Contains(t, out, "** Trade: NQZ4 LONG (trade-12)")
	assert.Contains(t, out, ":PROPERTIES:")
	assert.Contains(t, out, ":SYMBOL: NQZ4")
	assert.Contains(t, out, ":QUANTITY: 2")
	assert.Contains(t, out, ":PNL: 420.00")
	assert.Contains(t, out, ":IMPORT_SOURCE: tradovate")
	assert.Contains(t, out, "*** Thesis")
	assert.Contains(t, out, "*** Review")
}

func TestFormatTradeOrgOpenTrade(t *testing.T) {
	t.Parallel()

	trade := Trade{
		ID: "T1", AccountID: "A1", Symbol: "AAPL", Direction: Short,
		Quantity: 100, EntryTime: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		EntryPrice: 225.5, Source: "import",
	}

	out := FormatTradeOrg(trade)
	assert.Contains(t, out, ":EXIT_TIME: -")
	assert.Contains(t, out, ":EXIT_PRICE: -")
	assert.Contains(t, out, ":PNL: -")
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	entry := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	closed := closedTrade("T1", "A1", "ES", entry, 5000, 5010, 1, 500)
	open := Trade{
		ID: "T2", AccountID: "A1", Symbol: "NQ", Direction: Long,
		Quantity: 2, EntryTime: entry.Add(time.Hour), EntryPrice: 18000,
		Source: "import", ImportSource: "ninjatrader",
	}

	var b strings.Builder
	require.NoError(t, ExportCSV(&b, []Trade{closed, open}))

	r := csv.NewReader(strings.NewReader(b.String()))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "500", rows[1][9])

	// Open trade leaves exit and pnl columns blank.
	assert.Equal(t, "T2", rows[2][0])
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, "", rows[2][8])
	assert.Equal(t, "", rows[2][9])
}
