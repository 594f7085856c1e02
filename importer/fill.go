// Package importer turns broker CSV exports into journal trades. A file is
// parsed in one pass: header validation, per-row normalization into fills,
// then per-symbol position reconciliation into closed and open trades.
package importer

import "time"

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// Fill is one executed order report from a broker export, already
// normalized to canonical fields. Fills are immutable once produced; the
// reconciler never mutates its input.
type Fill struct {
	Symbol   string
	Side     Side
	Quantity float64
	Price    float64
	Time     time.Time
}
