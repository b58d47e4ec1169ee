package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func marketRows() []Row {
	return []Row{
		{"TransactionID": "T1", "MarketID": "1", "MarketName": "Main"},
		{"TransactionID": "T1", "MarketID": "2", "MarketName": "Annex"},
	}
}

func TestStageAndMergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	table := Tables[TableMarketsInfo]

	require.NoError(t, s.EnsureTable(ctx, "vdi_markets_info", table.Columns))

	n, err := s.StageAndMerge(ctx, "vdi_markets_info", marketRows(), table.Keys)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.StageAndMerge(ctx, "vdi_markets_info", marketRows(), table.Keys)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	rows, err := s.Query(ctx, `SELECT MarketID, MarketName FROM vdi_markets_info ORDER BY MarketID`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["MarketID"])
	assert.Equal(t, "Annex", rows[1]["MarketName"])
}

func TestStageAndMergeKeepsExistingRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	table := Tables[TableMarketsInfo]
	require.NoError(t, s.EnsureTable(ctx, "m", table.Columns))

	_, err := s.StageAndMerge(ctx, "m", []Row{{"MarketID": "1", "MarketName": "Original"}}, table.Keys)
	require.NoError(t, err)

	n, err := s.StageAndMerge(ctx, "m", []Row{
		{"MarketID": "1", "MarketName": "Changed"},
		{"MarketID": "3", "MarketName": "New"},
		{"MarketID": "3", "MarketName": "Duplicate in batch"},
	}, table.Keys)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := s.Query(ctx, `SELECT MarketID, MarketName FROM m ORDER BY MarketID`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Original", rows[0]["MarketName"])
	assert.Equal(t, "New", rows[1]["MarketName"])
}

func TestStageAndMergeCompositeKeyAndTypes(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	table := Tables[TableProductFees]
	require.NoError(t, s.EnsureTable(ctx, "fees", table.Columns))

	rows := []Row{
		{"MarketID": "1", "ProductID": "819", "FeeID": "10000", "FeeValue": sql.NullFloat64{Float64: 1, Valid: true}, "IsTaxable": true},
		{"MarketID": "1", "ProductID": "820", "FeeID": "10000", "FeeValue": sql.NullFloat64{}, "IsTaxable": false},
	}
	n, err := s.StageAndMerge(ctx, "fees", rows, table.Keys)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.Query(ctx, `SELECT ProductID, FeeValue, IsTaxable FROM fees ORDER BY ProductID`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0]["FeeValue"])
	assert.EqualValues(t, 1, got[0]["IsTaxable"])
	assert.Nil(t, got[1]["FeeValue"])
}

func TestEnsureTableWidensSchema(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.EnsureTable(ctx, "w", []Column{{"MarketID", TypeString}}))
	_, err := s.StageAndMerge(ctx, "w", []Row{{"MarketID": "1"}}, []string{"MarketID"})
	require.NoError(t, err)

	require.NoError(t, s.EnsureTable(ctx, "w", []Column{{"marketid", TypeString}, {"CatalogSize", TypeString}}))
	require.NoError(t, s.EnsureTable(ctx, "w", []Column{{"CatalogSize", TypeString}}))

	cols, err := s.columns(ctx, "w")
	require.NoError(t, err)
	assert.Len(t, cols, 2)

	_, err = s.StageAndMerge(ctx, "w", []Row{{"MarketID": "2", "CatalogSize": "Full"}}, []string{"MarketID"})
	require.NoError(t, err)

	rows, err := s.Query(ctx, `SELECT MarketID, CatalogSize FROM w ORDER BY MarketID`)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0]["CatalogSize"])
	assert.Equal(t, "Full", rows[1]["CatalogSize"])
}

func TestStageAndMergeEdgeCases(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	n, err := s.StageAndMerge(ctx, "never_created", nil, []string{"MarketID"})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.StageAndMerge(ctx, "x", marketRows(), nil)
	assert.True(t, errors.Is(err, ErrUnknownTable))

	_, err = s.StageAndMerge(ctx, "missing_table", marketRows(), []string{"MarketID"})
	assert.Error(t, err)

	// a failed merge leaves no staging table behind
	rows, err := s.Query(ctx, `SELECT name FROM sqlite_temp_master WHERE type = 'table'`)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLookupTable(t *testing.T) {
	table, ok := LookupTable("warehouse.vdi_products", "vdi_")
	require.True(t, ok)
	assert.Equal(t, []string{"MarketID", "ProductID"}, table.Keys)

	table, ok = LookupTable("markets_info", "vdi_")
	require.True(t, ok)
	assert.Equal(t, []string{"MarketID"}, table.Keys)

	_, ok = LookupTable("vdi_orders", "vdi_")
	assert.False(t, ok)
}

type sample struct {
	MarketID string          `db:"MarketID"`
	Price    sql.NullFloat64 `db:"Price"`
	Line     int             `db:"Line"`
}

func TestRowsFrom(t *testing.T) {
	rows, err := RowsFrom([]sample{{MarketID: "1", Price: sql.NullFloat64{Float64: 2.5, Valid: true}, Line: 3}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{"MarketID": "1", "Price": sql.NullFloat64{Float64: 2.5, Valid: true}, "Line": 3}, rows[0])

	rows, err = RowsFrom([]*sample{{MarketID: "2"}})
	require.NoError(t, err)
	assert.Equal(t, "2", rows[0]["MarketID"])

	_, err = RowsFrom(sample{})
	assert.Error(t, err)

	rows, err = RowsFrom(nil)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
