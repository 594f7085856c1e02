package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotData is the entire persisted store. Every write re-serializes
// the whole structure and replaces the file, so a reader always sees one
// complete, consistent snapshot (read-merge-write, never append).
type snapshotData struct {
	Trades   map[string]Trade   `msgpack:"trades"`
	Accounts map[string]Account `msgpack:"accounts"`
	Notes    map[string]Note    `msgpack:"notes"`
}

// Snapshot is a file-backed key-value Store encoded with msgpack.
type Snapshot struct {
	mu   sync.Mutex
	path string
	data snapshotData
}

// OpenSnapshot loads the store at path, creating an empty one if the file
// does not exist yet.
func OpenSnapshot(path string) (*Snapshot, error) {
	s := &Snapshot{
		path: path,
		data: snapshotData{
			Trades:   map[string]Trade{},
			Accounts: map[string]Account{},
			Notes:    map[string]Note{},
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := msgpack.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	// Maps may be nil in snapshots written before a section existed.
	if s.data.Trades == nil {
		s.data.Trades = map[string]Trade{}
	}
	if s.data.Accounts == nil {
		s.data.Accounts = map[string]Account{}
	}
	if s.data.Notes == nil {
		s.data.Notes = map[string]Note{}
	}
	return s, nil
}

// persist writes the whole store to a temp file and renames it into place.
// Callers must hold s.mu.
func (s *Snapshot) persist() error {
	raw, err := msgpack.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (s *Snapshot) GetTrade(id string) (Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Trades[id]
	if !ok {
		return Trade{}, fmt.Errorf("trade %q: %w", id, ErrNotFound)
	}
	return t, nil
}

func (s *Snapshot) ListTrades(f TradeFilter) ([]Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Trade
	for _, t := range s.data.Trades {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	SortTrades(out)
	return out, nil
}

func (s *Snapshot) UpsertTrades(trades ...Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range trades {
		if t.ID == "" {
			return fmt.Errorf("upsert trade: empty ID")
		}
		s.data.Trades[t.ID] = t
	}
	return s.persist()
}

func (s *Snapshot) DeleteTrade(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Trades[id]; !ok {
		return fmt.Errorf("trade %q: %w", id, ErrNotFound)
	}
	delete(s.data.Trades, id)
	return s.persist()
}

func (s *Snapshot) PutAccount(a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		return fmt.Errorf("put account: empty ID")
	}
	s.data.Accounts[a.ID] = a
	return s.persist()
}

func (s *Snapshot) GetAccount(id string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data.Accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	return a, nil
}

func (s *Snapshot) ListAccounts() ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Account, 0, len(s.data.Accounts))
	for _, a := range s.data.Accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Snapshot) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Accounts[id]; !ok {
		return fmt.Errorf("account %q: %w", id, ErrNotFound)
	}
	delete(s.data.Accounts, id)
	return s.persist()
}

func (s *Snapshot) PutNote(n Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == "" {
		return fmt.Errorf("put note: empty ID")
	}
	s.data.Notes[n.ID] = n
	return s.persist()
}

func (s *Snapshot) ListNotes(accountID string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Note
	for _, n := range s.data.Notes {
		if accountID == "" || n.AccountID == accountID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Snapshot) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Notes[id]; !ok {
		return fmt.Errorf("note %q: %w", id, ErrNotFound)
	}
	delete(s.data.Notes, id)
	return s.persist()
}

func (s *Snapshot) Close() error { return nil }
