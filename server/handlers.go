package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradelog/analytics"
	"github.com/rustyeddy/tradelog/importer"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/pkg/id"
)

// maxImportSize caps uploaded export files at 10 MiB.
const maxImportSize = 10 << 20

// --- accounts ---

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts()
	if err != nil {
		s.storeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []journal.Account{}
	}
	s.respondJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a journal.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(a.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "account name required")
		return
	}
	if a.ID == "" {
		a.ID = id.New()
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	if err := s.store.PutAccount(a); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, a)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.store.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// --- trades ---

func (s *Server) tradeFilter(r *http.Request) (journal.TradeFilter, error) {
	q := r.URL.Query()
	f := journal.TradeFilter{
		AccountID:  q.Get("account"),
		Symbol:     q.Get("symbol"),
		ClosedOnly: q.Get("closed") == "true",
	}

	loc := time.UTC
	if day := q.Get("from"); day != "" {
		start, _, err := journal.DayBounds(loc, day)
		if err != nil {
			return f, err
		}
		f.From = start
	}
	if day := q.Get("to"); day != "" {
		_, end, err := journal.DayBounds(loc, day)
		if err != nil {
			return f, err
		}
		f.To = end
	}
	return f, nil
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	f, err := s.tradeFilter(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid date filter, want YYYY-MM-DD")
		return
	}

	trades, err := s.store.ListTrades(f)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if trades == nil {
		trades = []journal.Trade{}
	}
	s.respondJSON(w, http.StatusOK, trades)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTrade(chi.URLParam(r, "id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

// handleCreateTrade logs a manual trade. P&L is derived from the exit
// fields when present and not supplied by the caller.
func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var t journal.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTrade(&t); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	t.ID = id.New()
	if t.Source == "" {
		t.Source = "manual"
	}
	derivePnL(&t)

	if err := s.store.UpsertTrades(t); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	tradeID := chi.URLParam(r, "id")
	if _, err := s.store.GetTrade(tradeID); err != nil {
		s.storeError(w, err)
		return
	}

	var t journal.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTrade(&t); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	t.ID = tradeID
	derivePnL(&t)

	if err := s.store.UpsertTrades(t); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTrade(chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func validateTrade(t *journal.Trade) string {
	switch {
	case t.AccountID == "":
		return "accountId required"
	case strings.TrimSpace(t.Symbol) == "":
		return "symbol required"
	case t.Direction != journal.Long && t.Direction != journal.Short:
		return "direction must be LONG or SHORT"
	case t.Quantity <= 0:
		return "quantity must be positive"
	case t.EntryPrice <= 0:
		return "entryPrice must be positive"
	case t.EntryTime.IsZero():
		return "entryTime required"
	}
	t.Symbol = strings.TrimSpace(t.Symbol)
	return ""
}

func derivePnL(t *journal.Trade) {
	if t.PnL != nil || t.ExitPrice == nil || t.ExitTime == nil {
		return
	}

	mult := market.Multiplier(t.Symbol)
	var pnl float64
	if t.Direction == journal.Long {
		pnl = (*t.ExitPrice - t.EntryPrice) * t.Quantity * mult
	} else {
		pnl = (t.EntryPrice - *t.ExitPrice) * t.Quantity * mult
	}
	t.PnL = &pnl
}

// --- notes ---

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.URL.Query().Get("account"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	if notes == nil {
		notes = []journal.Note{}
	}
	s.respondJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var n journal.Note
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if n.AccountID == "" || strings.TrimSpace(n.Body) == "" {
		s.respondError(w, http.StatusBadRequest, "accountId and body required")
		return
	}
	n.ID = id.New()
	if n.Date.IsZero() {
		n.Date = time.Now().UTC()
	}

	if err := s.store.PutNote(n); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, n)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNote(chi.URLParam(r, "id")); err != nil {
		s.storeError(w, err)
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

// --- import ---

type importErrorResponse struct {
	Error string   `json:"error"`
	Rows  []string `json:"rows,omitempty"`
}

// handleImport runs the CSV import pipeline and, on success, merges the
// batch into the store with a single upsert.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	accountID := r.FormValue("accountId")
	if _, err := s.store.GetAccount(accountID); err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			s.respondError(w, http.StatusBadRequest, "unknown account")
			return
		}
		s.storeError(w, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	req := importer.Request{
		Platform:   importer.Platform(r.FormValue("platform")),
		AccountID:  accountID,
		SourceName: r.FormValue("sourceName"),
	}

	res, err := importer.Import(file, req)
	if err != nil {
		var herr *importer.HeaderError
		var ierr *importer.ImportError
		switch {
		case errors.As(err, &herr):
			s.respondJSON(w, http.StatusUnprocessableEntity, importErrorResponse{Error: herr.Error()})
		case errors.As(err, &ierr):
			resp := importErrorResponse{Error: ierr.Error()}
			for _, re := range ierr.Rows {
				resp.Rows = append(resp.Rows, re.Error())
			}
			s.respondJSON(w, http.StatusUnprocessableEntity, resp)
		default:
			s.respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if err := s.store.UpsertTrades(res.Trades...); err != nil {
		s.storeError(w, err)
		return
	}

	s.log.Info().
		Str("batch", res.BatchID).
		Str("account", accountID).
		Int("closed", res.Closed).
		Int("open", res.Open).
		Msg("import complete")

	s.respondJSON(w, http.StatusOK, res)
}

// --- analytics ---

func (s *Server) accountTrades(w http.ResponseWriter, r *http.Request) ([]journal.Trade, bool) {
	f, err := s.tradeFilter(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid date filter, want YYYY-MM-DD")
		return nil, false
	}

	trades, err := s.store.ListTrades(f)
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	return trades, true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.accountTrades(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, analytics.Compute(trades))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.accountTrades(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		year, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("month"); v != "" {
		month, _ = strconv.Atoi(v)
	}
	if month < 1 || month > 12 || year < 1970 {
		s.respondError(w, http.StatusBadRequest, "invalid year/month")
		return
	}

	s.respondJSON(w, http.StatusOK, analytics.MonthGrid(trades, year, time.Month(month)))
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.accountTrades(w, r)
	if !ok {
		return
	}

	var balance float64
	if acct := r.URL.Query().Get("account"); acct != "" {
		if a, err := s.store.GetAccount(acct); err == nil {
			balance = a.Balance
		}
	}

	curve := analytics.EquityCurve(trades, balance)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"curve":      curve,
		"drawdown":   analytics.Drawdown(curve),
		"cumulative": analytics.CumulativePnL(trades),
	})
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	trades, ok := s.accountTrades(w, r)
	if !ok {
		return
	}

	notes, err := s.store.ListNotes(r.URL.Query().Get("account"))
	if err != nil {
		s.storeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, analytics.EvaluateBadges(trades, notes))
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, journal.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error().Err(err).Msg("store error")
	s.respondError(w, http.StatusInternalServerError, "internal error")
}
