package journal

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const tradeColumns = `id, account_id, symbol, direction, quantity, entry_time, entry_price,
	exit_time, exit_price, pnl, source, import_source, import_batch, notes, tags`

// GetTrade returns a single trade by ID.
func (s *SQLite) GetTrade(id string) (Trade, error) {
	row := s.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)

	t, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Trade{}, fmt.Errorf("trade %q: %w", id, ErrNotFound)
		}
		return Trade{}, err
	}
	return t, nil
}

// ListTrades returns trades matching the filter, ordered by entry time.
func (s *SQLite) ListTrades(f TradeFilter) ([]Trade, error) {
	var (
		where []string
		args  []any
	)
	if f.AccountID != "" {
		where = append(where, "account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Symbol != "" {
		where = append(where, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if !f.From.IsZero() {
		where = append(where, "entry_time >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, "entry_time < ?")
		args = append(args, f.To)
	}
	if f.ClosedOnly {
		where = append(where, "exit_time IS NOT NULL")
	}

	q := `SELECT ` + tradeColumns + ` FROM trades`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY entry_time ASC, id ASC"

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) GetAccount(id string) (Account, error) {
	var a Account
	err := s.db.QueryRow(`
		SELECT id, name, currency, balance, created_at
		FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &a.Balance, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Account{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
		}
		return Account{}, err
	}
	return a, nil
}

func (s *SQLite) ListAccounts() ([]Account, error) {
	rows, err := s.db.Query(`
		SELECT id, name, currency, balance, created_at
		FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.Balance, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) ListNotes(accountID string) ([]Note, error) {
	q := `SELECT id, account_id, date, body FROM notes`
	var args []any
	if accountID != "" {
		q += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	q += ` ORDER BY date ASC`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Date, &n.Body); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(r rowScanner) (Trade, error) {
	var (
		t         Trade
		direction string
		exitTime  sql.NullTime
		exitPrice sql.NullFloat64
		pnl       sql.NullFloat64
		tags      string
	)
	err := r.Scan(
		&t.ID, &t.AccountID, &t.Symbol, &direction, &t.Quantity,
		&t.EntryTime, &t.EntryPrice, &exitTime, &exitPrice, &pnl,
		&t.Source, &t.ImportSource, &t.ImportBatch, &t.Notes, &tags,
	)
	if err != nil {
		return Trade{}, err
	}

	t.Direction = Direction(direction)
	if exitTime.Valid {
		et := exitTime.Time
		t.ExitTime = &et
	}
	if exitPrice.Valid {
		ep := exitPrice.Float64
		t.ExitPrice = &ep
	}
	if pnl.Valid {
		p := pnl.Float64
		t.PnL = &p
	}
	if tags != "" {
		t.Tags = strings.Split(tags, ",")
	}
	return t, nil
}

// DayBounds returns the [start, end) window covering one local day.
func DayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}
