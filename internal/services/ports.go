// Package services orchestrates the bookkeeping workflows on top of the
// SQLite repository: credential handling, lookups by natural key,
// balance mutation with compensation, and export queueing.
package services

import "context"

// ExportQueue publishes ledger-export notifications. *amqp.Client
// satisfies it; services treat a nil queue as "exports disabled" and
// never fail a request over it.
type ExportQueue interface {
	PublishLedgerExport(ctx context.Context, kind string, id int64) error
}
