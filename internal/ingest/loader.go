package ingest

import (
	"context"
	"sync"

	"SeedWithWarehouse/internal/database"
	"SeedWithWarehouse/internal/metrics"
	"SeedWithWarehouse/pkg/logging"

	"github.com/pkg/errors"
)

// Loader merges row-sets into the warehouse. Merges into the same table are
// serialised; different tables load in parallel.
type Loader struct {
	storage database.Storage
	prefix  string
	metrics *metrics.Registry

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLoader(storage database.Storage, prefix string, reg *metrics.Registry) *Loader {
	return &Loader{
		storage: storage,
		prefix:  prefix,
		metrics: reg,
		locks:   make(map[string]*sync.Mutex),
	}
}

// TableID is the warehouse identity of a declared table name.
func (l *Loader) TableID(name string) string {
	return l.prefix + name
}

func (l *Loader) lock(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Load ensures the destination table and inserts the records whose keys are
// not already present. An empty row-set and a table with no declared schema
// are both no-ops.
func (l *Loader) Load(ctx context.Context, id string, records interface{}) (int64, error) {
	logger := logging.GetLogger().GetLoggerWithField("table", id)
	logger.Debug("Start Loader.Load")
	defer logger.Debug("End Loader.Load")

	rows, err := database.RowsFrom(records)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	table, ok := database.LookupTable(id, l.prefix)
	if !ok || len(table.Keys) == 0 {
		logger.Warn(errors.Wrapf(database.ErrUnknownTable, "no key columns for %s, skipping %d rows", id, len(rows)))
		return 0, nil
	}

	m := l.lock(id)
	m.Lock()
	defer m.Unlock()

	if err := l.storage.EnsureTable(ctx, id, table.Columns); err != nil {
		return 0, errors.Wrapf(err, "failed to ensure table %s", id)
	}
	inserted, err := l.storage.StageAndMerge(ctx, id, rows, table.Keys)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to merge into %s", id)
	}
	if l.metrics != nil {
		l.metrics.RowsMerged.WithLabelValues(id).Add(float64(inserted))
	}
	logger.Infof("Merged %d of %d rows", inserted, len(rows))
	return inserted, nil
}
