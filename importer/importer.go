package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/pkg/id"
)

// Request describes one import batch. AccountID applies to every produced
// trade; it is supplied once, never per row.
type Request struct {
	Platform  Platform
	AccountID string

	// SourceName overrides the recorded import source, e.g. a linked
	// broker's display name. Empty means the platform display name.
	SourceName string
}

// Result is a successful import: trades ready for a single batched upsert
// into the store.
type Result struct {
	BatchID string
	Trades  []journal.Trade
	Closed  int
	Open    int
}

// ImportFile imports a CSV export from disk. Zip archives are extracted
// first and the contained CSV is used.
func ImportFile(path string, req Request) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		dir, err := os.MkdirTemp("", "tradelog-import-*")
		if err != nil {
			return nil, fmt.Errorf("temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		if err := unzip.Extract(path, dir); err != nil {
			return nil, fmt.Errorf("extract %s: %w", path, err)
		}

		csvPath, err := findCSV(dir)
		if err != nil {
			return nil, err
		}
		path = csvPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	return Import(f, req)
}

// Import runs the whole pipeline against a CSV stream: header validation,
// row normalization, per-symbol reconciliation, then trade stamping.
//
// Errors follow the all-or-nothing policy: a *HeaderError means the file
// shape is unusable, an *ImportError collects every bad row (no trades are
// produced if any row fails). Reconciliation itself never fails.
func Import(r io.Reader, req Request) (*Result, error) {
	if !req.Platform.Valid() {
		return nil, fmt.Errorf("unsupported platform %q", req.Platform)
	}
	if req.AccountID == "" {
		return nil, fmt.Errorf("import: account ID required")
	}
	cfg := platforms[req.Platform]

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // short rows surface as row errors, not a parse abort
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	norm, err := newNormalizer(cfg, records[0])
	if err != nil {
		return nil, err
	}

	var (
		fills   []Fill
		rowErrs []RowError
	)
	for i, record := range records[1:] {
		f, rerr := norm.fill(record, i+1)
		if rerr != nil {
			rowErrs = append(rowErrs, *rerr)
			continue
		}
		fills = append(fills, f)
	}
	if len(rowErrs) > 0 {
		return nil, &ImportError{Rows: rowErrs}
	}

	trades := reconcile(fills)
	result := &Result{
		BatchID: uuid.NewString(),
		Trades:  trades,
	}
	stamp(result, req)

	for _, t := range result.Trades {
		if t.Closed() {
			result.Closed++
		} else {
			result.Open++
		}
	}
	return result, nil
}

// reconcile groups fills by symbol and reconciles each symbol
// independently. Within a symbol fills are ordered by timestamp; the sort
// is stable so same-timestamp fills keep their file order.
func reconcile(fills []Fill) []journal.Trade {
	bySymbol := map[string][]Fill{}
	var symbols []string
	for _, f := range fills {
		if _, ok := bySymbol[f.Symbol]; !ok {
			symbols = append(symbols, f.Symbol)
		}
		bySymbol[f.Symbol] = append(bySymbol[f.Symbol], f)
	}

	var out []journal.Trade
	for _, sym := range symbols {
		ordered := bySymbol[sym]
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Time.Before(ordered[j].Time)
		})

		multiplier := market.Multiplier(sym)
		out = append(out, reconcileSymbol(ordered, multiplier)...)
	}
	return out
}

// stamp is the trade emitter: fresh ULID per trade, account linkage and
// import metadata for the whole batch.
func stamp(res *Result, req Request) {
	source := req.SourceName
	if source == "" {
		source = req.Platform.DisplayName()
	}

	for i := range res.Trades {
		res.Trades[i].ID = id.New()
		res.Trades[i].AccountID = req.AccountID
		res.Trades[i].Source = "import"
		res.Trades[i].ImportSource = source
		res.Trades[i].ImportBatch = res.BatchID
	}
}

func findCSV(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found == "" && !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("archive contains no csv file")
	}
	return found, nil
}
