package journal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Store backed by a local SQLite database. It implements the
// same id-keyed upsert semantics as the snapshot store.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) UpsertTrades(trades ...Trade) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trades
		(id, account_id, symbol, direction, quantity, entry_time, entry_price,
		 exit_time, exit_price, pnl, source, import_source, import_batch, notes, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id=excluded.account_id,
			symbol=excluded.symbol,
			direction=excluded.direction,
			quantity=excluded.quantity,
			entry_time=excluded.entry_time,
			entry_price=excluded.entry_price,
			exit_time=excluded.exit_time,
			exit_price=excluded.exit_price,
			pnl=excluded.pnl,
			source=excluded.source,
			import_source=excluded.import_source,
			import_batch=excluded.import_batch,
			notes=excluded.notes,
			tags=excluded.tags`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		if t.ID == "" {
			return fmt.Errorf("upsert trade: empty ID")
		}

		var exitTime, exitPrice, pnl any
		if t.ExitTime != nil {
			exitTime = *t.ExitTime
		}
		if t.ExitPrice != nil {
			exitPrice = *t.ExitPrice
		}
		if t.PnL != nil {
			pnl = *t.PnL
		}

		if _, err := stmt.Exec(
			t.ID, t.AccountID, t.Symbol, string(t.Direction), t.Quantity,
			t.EntryTime, t.EntryPrice, exitTime, exitPrice, pnl,
			t.Source, t.ImportSource, t.ImportBatch, t.Notes,
			strings.Join(t.Tags, ","),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLite) DeleteTrade(id string) error {
	res, err := s.db.Exec(`DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("trade %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) PutAccount(a Account) error {
	if a.ID == "" {
		return fmt.Errorf("put account: empty ID")
	}
	_, err := s.db.Exec(`
		INSERT INTO accounts (id, name, currency, balance, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			currency=excluded.currency,
			balance=excluded.balance`,
		a.ID, a.Name, a.Currency, a.Balance, a.CreatedAt,
	)
	return err
}

func (s *SQLite) DeleteAccount(id string) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) PutNote(n Note) error {
	if n.ID == "" {
		return fmt.Errorf("put note: empty ID")
	}
	_, err := s.db.Exec(`
		INSERT INTO notes (id, account_id, date, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id=excluded.account_id,
			date=excluded.date,
			body=excluded.body`,
		n.ID, n.AccountID, n.Date, n.Body,
	)
	return err
}

func (s *SQLite) DeleteNote(id string) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
