package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Platform identifies a supported broker export format. The set is closed:
// only the normalizer knows about per-platform differences, the reconciler
// never does.
type Platform string

const (
	Tradovate          Platform = "tradovate"
	NinjaTrader        Platform = "ninjatrader"
	TradingView        Platform = "tradingview"
	InteractiveBrokers Platform = "interactivebrokers"
)

// platformConfig maps a platform's CSV shape onto canonical fill fields.
type platformConfig struct {
	DisplayName string

	SymbolCol string
	SideCol   string
	QtyCol    string
	PriceCol  string
	TimeCol   string

	// TimeLayouts are tried in order against the TimeCol value.
	TimeLayouts []string

	// SideTokens maps lowercased side column values to a side. Tokens not
	// found here fall back to a substring heuristic ("buy" anywhere means
	// Buy, anything else Sell).
	SideTokens map[string]Side
}

var platforms = map[Platform]platformConfig{
	Tradovate: {
		DisplayName: "Tradovate",
		SymbolCol:   "Contract",
		SideCol:     "B/S",
		QtyCol:      "Filled Qty",
		PriceCol:    "Avg Fill Price",
		TimeCol:     "Fill Time", // dedicated fill-time column
		TimeLayouts: []string{
			"01/02/2006 15:04:05",
			"2006-01-02 15:04:05",
		},
		SideTokens: map[string]Side{
			"buy": Buy, "b": Buy, "bot": Buy,
			"sell": Sell, "s": Sell, "sld": Sell,
		},
	},
	NinjaTrader: {
		DisplayName: "NinjaTrader",
		SymbolCol:   "Instrument",
		SideCol:     "Action",
		QtyCol:      "Quantity",
		PriceCol:    "Price",
		TimeCol:     "Time",
		TimeLayouts: []string{
			"1/2/2006 3:04:05 PM",
			"2006-01-02 15:04:05",
		},
		SideTokens: map[string]Side{
			"buy": Buy, "buytocover": Buy,
			"sell": Sell, "sellshort": Sell,
		},
	},
	TradingView: {
		DisplayName: "TradingView",
		SymbolCol:   "Symbol",
		SideCol:     "Side",
		QtyCol:      "Qty",
		PriceCol:    "Fill Price",
		TimeCol:     "Placing Time",
		TimeLayouts: []string{
			"2006-01-02 15:04:05",
			time.RFC3339,
		},
		SideTokens: map[string]Side{
			"buy": Buy, "sell": Sell,
		},
	},
	InteractiveBrokers: {
		DisplayName: "Interactive Brokers",
		SymbolCol:   "Symbol",
		SideCol:     "Buy/Sell",
		QtyCol:      "Quantity",
		PriceCol:    "Price",
		TimeCol:     "Date/Time",
		TimeLayouts: []string{
			"2006-01-02, 15:04:05",
			"2006-01-02 15:04:05",
		},
		SideTokens: map[string]Side{
			"buy": Buy, "bot": Buy,
			"sell": Sell, "sld": Sell,
		},
	},
}

// Platforms returns the supported platform identifiers, sorted.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platforms))
	for p := range platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether p names a supported platform.
func (p Platform) Valid() bool {
	_, ok := platforms[p]
	return ok
}

// DisplayName returns the human-readable platform name.
func (p Platform) DisplayName() string {
	if cfg, ok := platforms[p]; ok {
		return cfg.DisplayName
	}
	return string(p)
}

func (c platformConfig) requiredColumns() []string {
	return []string{c.SymbolCol, c.SideCol, c.QtyCol, c.PriceCol, c.TimeCol}
}

// side resolves a raw side token. Unknown tokens use the substring
// heuristic rather than failing the row.
func (c platformConfig) side(token string) Side {
	tok := strings.ToLower(strings.TrimSpace(token))
	if s, ok := c.SideTokens[tok]; ok {
		return s
	}
	if strings.Contains(tok, "buy") {
		return Buy
	}
	return Sell
}

func parsePlatform(name string) (platformConfig, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	cfg, ok := platforms[p]
	if !ok {
		return platformConfig{}, fmt.Errorf("unsupported platform %q", name)
	}
	return cfg, nil
}
