// Package datastore writes exported rows into a local SQLite file or a remote
// Datasette instance.
package datastore

import "context"

// Store is a write-only sink for exported rows.
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable creates a new table with the given schema if it doesn't exist
	CreateTable(ctx context.Context, schema string) error

	// BatchInsert upserts records into the table. Rows with an existing
	// primary key are replaced.
	BatchInsert(ctx context.Context, database string, table string, records []map[string]any) error

	// Close closes the connection to the data store
	Close() error
}
