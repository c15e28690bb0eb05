// Package export defines the outbound port for the ledger sheet the
// worker appends purchases and income entries to.
package export

import (
	"context"
	"time"
)

// Row is one appended ledger line.
type Row struct {
	Kind        string
	Date        time.Time
	Description string
	AmountCents int64
	Direction   string
	Category    string
	Account     string
}

// LedgerWriter appends a row to the remote ledger and returns a
// reference to where it landed.
type LedgerWriter interface {
	Append(ctx context.Context, row Row) (rowRef string, err error)
}
