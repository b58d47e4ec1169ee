package database

import (
	"context"

	"github.com/pkg/errors"
)

const DB_NAME = "vdi.db"

// ErrUnknownTable marks a table identity with no declared schema or keys.
var ErrUnknownTable = errors.New("unknown table")

// Row is one record keyed by column name.
type Row map[string]interface{}

// Storage is the warehouse the loader merges into.
type Storage interface {
	// EnsureTable creates the table when absent and adds any declared column
	// it lacks. Existing columns are never dropped or changed.
	EnsureTable(ctx context.Context, id string, columns []Column) error
	// StageAndMerge inserts the rows whose key values are not yet present in
	// the table and returns how many were inserted.
	StageAndMerge(ctx context.Context, id string, rows []Row, keys []string) (int64, error)
	Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)
	Close() error
}
