package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// normalizer maps raw CSV rows for one platform into canonical fills.
type normalizer struct {
	cfg platformConfig
	idx map[string]int // column name -> position in the record
}

// newNormalizer validates the header once for the whole file. Every
// missing required column is reported by name in a single HeaderError.
func newNormalizer(cfg platformConfig, header []string) (*normalizer, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range cfg.requiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	return &normalizer{cfg: cfg, idx: idx}, nil
}

func (n *normalizer) field(record []string, col string) string {
	i := n.idx[col]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// fill normalizes one data row. rowNum is 1-based and excludes the header.
func (n *normalizer) fill(record []string, rowNum int) (Fill, *RowError) {
	symbol := n.field(record, n.cfg.SymbolCol)
	if symbol == "" {
		return Fill{}, &RowError{Row: rowNum, Reason: ReasonMissingSymbol, Message: "Missing symbol"}
	}

	sideTok := n.field(record, n.cfg.SideCol)
	if sideTok == "" {
		return Fill{}, &RowError{Row: rowNum, Reason: ReasonMissingSide, Message: "Missing side"}
	}

	qty, err := parseNumber(n.field(record, n.cfg.QtyCol))
	if err != nil {
		return Fill{}, &RowError{Row: rowNum, Reason: ReasonBadQuantity, Message: "Missing quantity"}
	}

	price, err := parseNumber(n.field(record, n.cfg.PriceCol))
	if err != nil {
		return Fill{}, &RowError{Row: rowNum, Reason: ReasonBadPrice, Message: "Missing entry price"}
	}

	ts, err := n.parseTime(n.field(record, n.cfg.TimeCol))
	if err != nil {
		return Fill{}, &RowError{Row: rowNum, Reason: ReasonBadTimestamp, Message: "Missing or invalid date"}
	}

	return Fill{
		Symbol:   symbol,
		Side:     n.cfg.side(sideTok),
		Quantity: qty,
		Price:    price,
		Time:     ts,
	}, nil
}

// parseNumber strips thousands separators and currency symbols before
// parsing, so "$1,234.50" comes through as 1234.5.
func parseNumber(raw string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric field")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	return v, nil
}

func (n *normalizer) parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range n.cfg.TimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
