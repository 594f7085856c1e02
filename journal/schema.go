// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	quantity REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	entry_price REAL NOT NULL,
	exit_time DATETIME,
	exit_price REAL,
	pnl REAL,
	source TEXT NOT NULL,
	import_source TEXT NOT NULL DEFAULT '',
	import_batch TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	currency TEXT NOT NULL,
	balance REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);
CREATE INDEX IF NOT EXISTS idx_notes_account ON notes(account_id);
`
