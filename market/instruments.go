// market/instruments.go
package market

import "strings"

// ContractMeta describes a futures contract family, keyed by root symbol.
type ContractMeta struct {
	Root        string
	Description string
	PointValue  float64 // dollars per full point per contract
	TickSize    float64
}

// Contracts is the lookup table for supported futures roots. Anything not
// listed here (equities, crypto, unknown futures) trades at point value 1.
var Contracts = map[string]ContractMeta{
	"ES":  {Root: "ES", Description: "E-mini S&P 500", PointValue: 50, TickSize: 0.25},
	"MES": {Root: "MES", Description: "Micro E-mini S&P 500", PointValue: 5, TickSize: 0.25},
	"NQ":  {Root: "NQ", Description: "E-mini Nasdaq-100", PointValue: 20, TickSize: 0.25},
	"MNQ": {Root: "MNQ", Description: "Micro E-mini Nasdaq-100", PointValue: 2, TickSize: 0.25},
	"YM":  {Root: "YM", Description: "E-mini Dow", PointValue: 5, TickSize: 1},
	"MYM": {Root: "MYM", Description: "Micro E-mini Dow", PointValue: 0.5, TickSize: 1},
	"RTY": {Root: "RTY", Description: "E-mini Russell 2000", PointValue: 50, TickSize: 0.1},
	"M2K": {Root: "M2K", Description: "Micro E-mini Russell 2000", PointValue: 5, TickSize: 0.1},
	"CL":  {Root: "CL", Description: "Crude Oil", PointValue: 1000, TickSize: 0.01},
	"MCL": {Root: "MCL", Description: "Micro Crude Oil", PointValue: 100, TickSize: 0.01},
	"GC":  {Root: "GC", Description: "Gold", PointValue: 100, TickSize: 0.1},
	"MGC": {Root: "MGC", Description: "Micro Gold", PointValue: 10, TickSize: 0.1},
	"6E":  {Root: "6E", Description: "Euro FX", PointValue: 125000, TickSize: 0.00005},
}

// Month codes used by contract symbols like NQZ4 or ESH25.
const monthCodes = "FGHJKMNQUVXZ"

// Root extracts the contract root from a broker symbol. It handles plain
// roots ("NQ"), code-suffixed contracts ("NQZ4", "MNQU25") and
// space/dash-delimited forms ("NQ 12-24"). Equity tickers pass through
// unchanged.
func Root(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if i := strings.IndexAny(s, " -"); i > 0 {
		s = s[:i]
	}

	// Trailing digits are a contract year, preceded by a month code.
	end := len(s)
	for end > 0 && s[end-1] >= '0' && s[end-1] <= '9' {
		end--
	}
	if end < len(s) && end > 1 && strings.ContainsRune(monthCodes, rune(s[end-1])) {
		s = s[:end-1]
	}
	return s
}

// Multiplier returns the dollar value of one full point of price movement
// for one contract of the given symbol. This is the single multiplier
// resolution path: the Contracts table decides, everything else is 1.
func Multiplier(symbol string) float64 {
	if meta, ok := Contracts[Root(symbol)]; ok {
		return meta.PointValue
	}
	return 1
}
