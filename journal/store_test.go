package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshot(t *testing.T) Store {
	t.Helper()

	s, err := OpenSnapshot(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	return s
}

func newTestSQLite(t *testing.T) Store {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	return s
}

func TestSnapshotStore(t *testing.T) {
	t.Parallel()
	runStoreTests(t, newTestSnapshot)
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	runStoreTests(t, newTestSQLite)
}

func closedTrade(id, account, symbol string, entry time.Time, entryPrice, exitPrice, qty, pnl float64) Trade {
	exit := entry.Add(time.Hour)
	return Trade{
		ID:         id,
		AccountID:  account,
		Symbol:     symbol,
		Direction:  Long,
		Quantity:   qty,
		EntryTime:  entry,
		EntryPrice: entryPrice,
		ExitTime:   &exit,
		ExitPrice:  &exitPrice,
		PnL:        &pnl,
		Source:     "manual",
	}
}

func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	base := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	t.Run("upsert and get", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		want := closedTrade("T1", "A1", "NQZ4", base, 18000, 18010, 2, 400)
		want.ImportSource = "tradovate"
		want.Tags = []string{"breakout", "a-plus"}
		require.NoError(t, s.UpsertTrades(want))

		got, err := s.GetTrade("T1")
		require.NoError(t, err)
		assert.Equal(t, want.AccountID, got.AccountID)
		assert.Equal(t, want.Symbol, got.Symbol)
		assert.Equal(t, Long, got.Direction)
		assert.InDelta(t, want.Quantity, got.Quantity, 1e-9)
		assert.True(t, got.EntryTime.Equal(want.EntryTime))
		require.NotNil(t, got.PnL)
		assert.InDelta(t, 400, *got.PnL, 1e-9)
		assert.Equal(t, want.Tags, got.Tags)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		_, err := s.GetTrade("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("open trade round trip", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		ot := Trade{
			ID:         "T-open",
			AccountID:  "A1",
			Symbol:     "AAPL",
			Direction:  Short,
			Quantity:   100,
			EntryTime:  base,
			EntryPrice: 225.5,
			Source:     "import",
		}
		require.NoError(t, s.UpsertTrades(ot))

		got, err := s.GetTrade("T-open")
		require.NoError(t, err)
		assert.False(t, got.Closed())
		assert.Nil(t, got.ExitTime)
		assert.Nil(t, got.ExitPrice)
		assert.Nil(t, got.PnL)
	})

	t.Run("upsert replaces by id and leaves others alone", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		require.NoError(t, s.UpsertTrades(
			closedTrade("T1", "A1", "ES", base, 5000, 5010, 1, 500),
			closedTrade("T2", "A2", "NQ", base.Add(time.Minute), 18000, 18005, 1, 100),
		))

		updated := closedTrade("T1", "A1", "ES", base, 5000, 5020, 1, 1000)
		updated.Notes = "edited"
		require.NoError(t, s.UpsertTrades(updated))

		got1, err := s.GetTrade("T1")
		require.NoError(t, err)
		assert.InDelta(t, 1000, *got1.PnL, 1e-9)
		assert.Equal(t, "edited", got1.Notes)

		got2, err := s.GetTrade("T2")
		require.NoError(t, err)
		assert.InDelta(t, 100, *got2.PnL, 1e-9)
	})

	t.Run("list filters and orders", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		openTrade := Trade{
			ID: "T3", AccountID: "A1", Symbol: "NQ", Direction: Long,
			Quantity: 1, EntryTime: base.Add(3 * time.Hour), EntryPrice: 18000,
			Source: "import",
		}
		require.NoError(t, s.UpsertTrades(
			closedTrade("T2", "A1", "NQ", base.Add(2*time.Hour), 18000, 18010, 1, 200),
			closedTrade("T1", "A1", "ES", base, 5000, 5010, 1, 500),
			closedTrade("T9", "A2", "NQ", base.Add(time.Hour), 18000, 18001, 1, 20),
			openTrade,
		))

		all, err := s.ListTrades(TradeFilter{AccountID: "A1"})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "T1", all[0].ID)
		assert.Equal(t, "T2", all[1].ID)
		assert.Equal(t, "T3", all[2].ID)

		closed, err := s.ListTrades(TradeFilter{AccountID: "A1", ClosedOnly: true})
		require.NoError(t, err)
		require.Len(t, closed, 2)

		bySymbol, err := s.ListTrades(TradeFilter{Symbol: "NQ"})
		require.NoError(t, err)
		assert.Len(t, bySymbol, 3)

		windowed, err := s.ListTrades(TradeFilter{
			From: base.Add(time.Hour),
			To:   base.Add(3 * time.Hour),
		})
		require.NoError(t, err)
		require.Len(t, windowed, 2)
		assert.Equal(t, "T9", windowed[0].ID)
		assert.Equal(t, "T2", windowed[1].ID)
	})

	t.Run("delete trade", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		require.NoError(t, s.UpsertTrades(closedTrade("T1", "A1", "ES", base, 5000, 5010, 1, 500)))
		require.NoError(t, s.DeleteTrade("T1"))

		_, err := s.GetTrade("T1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteTrade("T1"), ErrNotFound)
	})

	t.Run("accounts", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		a := Account{ID: "A1", Name: "Apex Eval", Currency: "USD", Balance: 50000, CreatedAt: base}
		b := Account{ID: "A2", Name: "Live", Currency: "USD", Balance: 10000, CreatedAt: base.Add(time.Hour)}
		require.NoError(t, s.PutAccount(a))
		require.NoError(t, s.PutAccount(b))

		got, err := s.GetAccount("A1")
		require.NoError(t, err)
		assert.Equal(t, "Apex Eval", got.Name)

		list, err := s.ListAccounts()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "A1", list[0].ID)

		require.NoError(t, s.DeleteAccount("A2"))
		_, err = s.GetAccount("A2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("notes", func(t *testing.T) {
		t.Parallel()

		s := open(t)
		defer s.Close()

		require.NoError(t, s.PutNote(Note{ID: "N2", AccountID: "A1", Date: base.Add(24 * time.Hour), Body: "overtraded"}))
		require.NoError(t, s.PutNote(Note{ID: "N1", AccountID: "A1", Date: base, Body: "patient today"}))
		require.NoError(t, s.PutNote(Note{ID: "N3", AccountID: "A2", Date: base, Body: "other account"}))

		notes, err := s.ListNotes("A1")
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "N1", notes[0].ID)
		assert.Equal(t, "N2", notes[1].ID)

		require.NoError(t, s.DeleteNote("N1"))
		notes, err = s.ListNotes("A1")
		require.NoError(t, err)
		assert.Len(t, notes, 1)
	})
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	base := time.Date(2025, 4, 10, 9, 30, 0, 0, time.UTC)

	s, err := OpenSnapshot(path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertTrades(closedTrade("T1", "A1", "NQ", base, 18000, 18010, 2, 400)))
	require.NoError(t, s.PutAccount(Account{ID: "A1", Name: "Main", Currency: "USD", CreatedAt: base}))
	require.NoError(t, s.Close())

	s2, err := OpenSnapshot(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, "NQ", got.Symbol)
	require.NotNil(t, got.PnL)
	assert.InDelta(t, 400, *got.PnL, 1e-9)

	accounts, err := s2.ListAccounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
