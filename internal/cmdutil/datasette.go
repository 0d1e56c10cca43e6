package cmdutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/pdbrowse/internal/datastore"
	"github.com/spf13/viper"
)

// DatasetteDatabase is the database name used for remote Datasette inserts.
const DatasetteDatabase = "pdbrowse"

// newStore picks the datastore for the configured datasette mode. It is a
// variable so tests can swap in a fake.
var newStore = func() (datastore.Store, error) {
	switch mode := viper.GetString("datasette.mode"); mode {
	case "", "local":
		dbFile := viper.GetString("datasette.dbfile")
		if dbFile == "" {
			dbFile = "pdbrowse.db"
		}
		return datastore.NewSQLiteStore(dbFile), nil
	case "remote":
		url := viper.GetString("datasette.url")
		if url == "" {
			return nil, fmt.Errorf("datasette.url must be set in remote mode")
		}
		return datastore.NewDatasetteClient(url, viper.GetString("datasette.token")), nil
	default:
		return nil, fmt.Errorf("unknown datasette mode %q", mode)
	}
}

// WriteToDatastore writes items to the configured datastore when
// datasette.enabled is set. Rows are upserted, so repeated exports of the
// same items replace earlier rows.
func WriteToDatastore[T any](ctx context.Context, items []T, schema, table, description string, mapper func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	store, err := newStore()
	if err != nil {
		return err
	}

	slog.Info("Writing to datastore", "description", description, "table", table, "count", len(items))

	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(ctx, schema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		records = append(records, mapper(item))
	}

	if err := store.BatchInsert(ctx, DatasetteDatabase, table, records); err != nil {
		return fmt.Errorf("failed to insert %s: %w", description, err)
	}

	slog.Info("Wrote to datastore", "description", description, "count", len(records))
	return nil
}
