// journal/journal.go
package journal

import (
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

// Trade is the durable journal entity. A trade is created once, either
// closed (exit fields and PnL set) or open (all three nil); the import
// pipeline never mutates a trade after creation.
type Trade struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"accountId"`
	Symbol       string     `json:"symbol"`
	Direction    Direction  `json:"direction"`
	Quantity     float64    `json:"quantity"`
	EntryTime    time.Time  `json:"entryTime"`
	EntryPrice   float64    `json:"entryPrice"`
	ExitTime     *time.Time `json:"exitTime,omitempty"`
	ExitPrice    *float64   `json:"exitPrice,omitempty"`
	PnL          *float64   `json:"pnl,omitempty"`
	Source       string     `json:"source"` // "manual" or "import"
	ImportSource string     `json:"importSource,omitempty"`
	ImportBatch  string     `json:"importBatch,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// Closed reports whether the trade has been round-tripped.
func (t Trade) Closed() bool {
	return t.ExitTime != nil && t.ExitPrice != nil && t.PnL != nil
}

// Account owns trades via Trade.AccountID. There is no back-reference;
// lookup is always by filtering trades.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Balance   float64   `json:"balance"` // starting balance for equity curves
	CreatedAt time.Time `json:"createdAt"`
}

// Note is a dated journal reflection tied to an account.
type Note struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Date      time.Time `json:"date"`
	Body      string    `json:"body"`
}

// TradeFilter narrows ListTrades. Zero values mean "no constraint"; the
// time window is half-open [From, To) on entry time.
type TradeFilter struct {
	AccountID  string
	Symbol     string
	From       time.Time
	To         time.Time
	ClosedOnly bool
}

// Match reports whether the trade passes the filter.
func (f TradeFilter) Match(t Trade) bool {
	if f.AccountID != "" && t.AccountID != f.AccountID {
		return false
	}
	if f.Symbol != "" && t.Symbol != f.Symbol {
		return false
	}
	if !f.From.IsZero() && t.EntryTime.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.EntryTime.Before(f.To) {
		return false
	}
	if f.ClosedOnly && !t.Closed() {
		return false
	}
	return true
}

// Store is the persistent trade store: a mapping from trade ID to Trade,
// plus accounts and daily notes. Upserts are keyed by ID so re-imports
// and edits never disturb unrelated records.
type Store interface {
	GetTrade(id string) (Trade, error)
	ListTrades(f TradeFilter) ([]Trade, error)
	UpsertTrades(trades ...Trade) error
	DeleteTrade(id string) error

	PutAccount(a Account) error
	GetAccount(id string) (Account, error)
	ListAccounts() ([]Account, error)
	DeleteAccount(id string) error

	PutNote(n Note) error
	ListNotes(accountID string) ([]Note, error)
	DeleteNote(id string) error

	Close() error
}

// SortTrades orders trades by entry time ascending, ID as tie-break.
func SortTrades(trades []Trade) {
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].EntryTime.Equal(trades[j].EntryTime) {
			return trades[i].EntryTime.Before(trades[j].EntryTime)
		}
		return trades[i].ID < trades[j].ID
	})
}
