package importer

import (
	"fmt"
	"strings"
)

// Reason codes let callers filter or localize row errors without parsing
// message text.
type Reason string

const (
	ReasonMissingSymbol Reason = "missing_symbol"
	ReasonMissingSide   Reason = "missing_side"
	ReasonBadQuantity   Reason = "bad_quantity"
	ReasonBadPrice      Reason = "bad_price"
	ReasonBadTimestamp  Reason = "bad_timestamp"
)

// RowError is one rejected CSV row. Row is the 1-based data row number
// (the header is not counted).
type RowError struct {
	Row     int
	Reason  Reason
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// HeaderError means the file itself is unusable: required columns are
// absent. It is raised once, before any row is processed.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("missing required columns: [%s]", strings.Join(e.Missing, ", "))
}

// maxReportedRows caps the per-row messages shown in an import report.
const maxReportedRows = 5

// ImportError rejects the whole import: any row error discards every row
// (all-or-nothing, no partial imports). All row errors are retained;
// Error() shows at most maxReportedRows of them.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "found %d issues:", len(e.Rows))
	for i, re := range e.Rows {
		if i == maxReportedRows {
			break
		}
		b.WriteString("\n")
		b.WriteString(re.Error())
	}
	return b.String()
}
