package importer

import (
	"time"

	"github.com/rustyeddy/tradelog/journal"
)

// positionState tracks the unclosed quantity on one side of a symbol.
// Invariant: qty == 0 ⇔ cost == 0 ⇔ openedAt is zero. Average entry price
// is cost/qty whenever qty > 0.
type positionState struct {
	qty      float64
	cost     float64 // sum of price*quantity for all unclosed quantity
	openedAt time.Time
}

func (p positionState) avgPrice() float64 {
	if p.qty == 0 {
		return 0
	}
	return p.cost / p.qty
}

// bookState is the per-symbol reconciliation state: long and short sides
// tracked independently.
type bookState struct {
	long  positionState
	short positionState
}

// reconcileSymbol folds the time-ordered fills for one symbol into closed
// trades plus at most one open trade per side. The fold threads an explicit
// {long, short} state pair through each step; nothing outside the returned
// values is mutated.
func reconcileSymbol(fills []Fill, multiplier float64) []journal.Trade {
	var (
		st  bookState
		out []journal.Trade
	)

	for _, f := range fills {
		var emitted []journal.Trade
		st, emitted = step(st, f, multiplier)
		out = append(out, emitted...)
	}

	// Residual open quantity on either side becomes one open trade.
	if st.long.qty > 0 {
		out = append(out, openTrade(fills, journal.Long, st.long))
	}
	if st.short.qty > 0 {
		out = append(out, openTrade(fills, journal.Short, st.short))
	}
	return out
}

// step applies one fill: close against the opposite side first, then open
// or add to the same side with whatever quantity remains. A fill that does
// both is a flip and emits a closed trade while leaving a fresh open
// position behind.
func step(st bookState, f Fill, multiplier float64) (bookState, []journal.Trade) {
	// Zero or negative quantity/price fills are no-ops, not errors.
	if f.Quantity <= 0 || f.Price <= 0 {
		return st, nil
	}

	var emitted []journal.Trade

	switch f.Side {
	case Buy:
		var closed *journal.Trade
		var remaining float64
		st.short, closed, remaining = closeAgainst(st.short, f, journal.Short, multiplier)
		if closed != nil {
			emitted = append(emitted, *closed)
		}
		st.long = addTo(st.long, f, remaining)

	case Sell:
		var closed *journal.Trade
		var remaining float64
		st.long, closed, remaining = closeAgainst(st.long, f, journal.Long, multiplier)
		if closed != nil {
			emitted = append(emitted, *closed)
		}
		st.short = addTo(st.short, f, remaining)
	}

	return st, emitted
}

// closeAgainst offsets the open position on the opposite side of the fill.
// It returns the updated side state, the closed trade if any quantity was
// offset, and the fill quantity left over to open the other side.
func closeAgainst(pos positionState, f Fill, dir journal.Direction, multiplier float64) (positionState, *journal.Trade, float64) {
	if pos.qty <= 0 {
		return pos, nil, f.Quantity
	}

	closeQty := f.Quantity
	if pos.qty < closeQty {
		closeQty = pos.qty
	}

	avgEntry := pos.avgPrice()

	var pnl float64
	if dir == journal.Long {
		pnl = (f.Price - avgEntry) * closeQty * multiplier
	} else {
		pnl = (avgEntry - f.Price) * closeQty * multiplier
	}

	exitTime := f.Time
	exitPrice := f.Price
	closed := &journal.Trade{
		Symbol:     f.Symbol,
		Direction:  dir,
		Quantity:   closeQty,
		EntryTime:  pos.openedAt,
		EntryPrice: avgEntry,
		ExitTime:   &exitTime,
		ExitPrice:  &exitPrice,
		PnL:        &pnl,
	}

	remaining := f.Quantity - closeQty

	if closeQty >= pos.qty {
		// Fully closed: reset exactly to the empty state so the invariant
		// holds without float residue.
		return positionState{}, closed, remaining
	}

	pos.qty -= closeQty
	pos.cost = avgEntry * pos.qty
	return pos, closed, 0
}

// addTo opens or adds remaining fill quantity to the fill's own side.
func addTo(pos positionState, f Fill, qty float64) positionState {
	if qty <= 0 {
		return pos
	}
	if pos.qty == 0 {
		pos.openedAt = f.Time
	}
	pos.cost += f.Price * qty
	pos.qty += qty
	return pos
}

// openTrade materializes a residual position as an open journal trade:
// no exit fields, no pnl.
func openTrade(fills []Fill, dir journal.Direction, pos positionState) journal.Trade {
	return journal.Trade{
		Symbol:     fills[0].Symbol,
		Direction:  dir,
		Quantity:   pos.qty,
		EntryTime:  pos.openedAt,
		EntryPrice: pos.avgPrice(),
	}
}
