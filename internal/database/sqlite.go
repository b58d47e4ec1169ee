package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"

	"SeedWithWarehouse/pkg/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// SQLiteStorage is the warehouse backed by a single SQLite file. It holds one
// connection so that a staging table and the merge reading it always share a
// session.
type SQLiteStorage struct {
	db *sqlx.DB
}

type columnInfo struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

func Exists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

func NewSQLiteStorage(dbname string) (*SQLiteStorage, error) {
	logger := logging.GetLogger()
	logger.Info("Start NewSQLiteStorage")
	defer logger.Info("End NewSQLiteStorage")

	if !Exists(dbname) {
		logger.Info(dbname, " not exist, creating")
	}

	db, err := sqlx.Open("sqlite3", dbname)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", dbname)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s", dbname)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func quoteIdent(id string) string {
	parts := strings.Split(id, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// splitIdent separates an optional schema qualifier from a table name.
func splitIdent(id string) (string, string) {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

func (s *SQLiteStorage) EnsureTable(ctx context.Context, id string, columns []Column) error {
	logger := logging.GetLogger()
	logger.Debug("Start SQLiteStorage.EnsureTable")
	defer logger.Debug("End SQLiteStorage.EnsureTable")

	if len(columns) == 0 {
		return errors.Errorf("no columns declared for %s", id)
	}

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c.Name) + " " + c.Type
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", quoteIdent(id), strings.Join(defs, ", "))
	logger.Debugf("CREATE:\n%s", query)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(err, "failed CREATE TABLE to dbsqlite; query:\n%s", query)
	}

	existing, err := s.columns(ctx, id)
	if err != nil {
		return err
	}
	for _, c := range columns {
		if _, ok := existing[strings.ToLower(c.Name)]; ok {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s;", quoteIdent(id), quoteIdent(c.Name), c.Type)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return errors.Wrapf(err, "failed ALTER TABLE to dbsqlite; query:\n%s", query)
		}
		logger.Infof("Table %s: added column %s %s", id, c.Name, c.Type)
	}
	return nil
}

func (s *SQLiteStorage) columns(ctx context.Context, id string) (map[string]struct{}, error) {
	schema, table := splitIdent(id)
	pragma := "PRAGMA "
	if schema != "" {
		pragma += quoteIdent(schema) + "."
	}
	query := fmt.Sprintf("%stable_info(%s);", pragma, quoteIdent(table))

	var info []columnInfo
	if err := s.db.SelectContext(ctx, &info, query); err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s", query)
	}
	out := make(map[string]struct{}, len(info))
	for _, c := range info {
		out[strings.ToLower(c.Name)] = struct{}{}
	}
	return out, nil
}

// rowColumns is the sorted union of the column names used by rows.
func rowColumns(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *SQLiteStorage) StageAndMerge(ctx context.Context, id string, rows []Row, keys []string) (int64, error) {
	logger := logging.GetLogger()
	logger.Debug("Start SQLiteStorage.StageAndMerge")
	defer logger.Debug("End SQLiteStorage.StageAndMerge")

	if len(rows) == 0 {
		return 0, nil
	}
	if len(keys) == 0 {
		return 0, errors.Wrapf(ErrUnknownTable, "no key columns for %s", id)
	}

	columns := rowColumns(rows)
	quoted := make([]string, len(columns))
	named := make([]string, len(columns))
	selected := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		named[i] = ":" + c
		selected[i] = "s." + quoteIdent(c)
	}
	keyList := make([]string, len(keys))
	keyMatch := make([]string, len(keys))
	for i, k := range keys {
		keyList[i] = quoteIdent(k)
		keyMatch[i] = fmt.Sprintf("d.%s IS s.%s", quoteIdent(k), quoteIdent(k))
	}

	_, table := splitIdent(id)
	target := quoteIdent(id)
	staging := "temp." + quoteIdent(table+"_temp")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
				logger.Errorf("failed to roll back staging of %s: %v", id, err)
			}
		}
	}()

	statements := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s;", staging),
		fmt.Sprintf("CREATE TEMP TABLE %s AS SELECT %s FROM %s WHERE 0;", quoteIdent(table+"_temp"), strings.Join(quoted, ", "), target),
	}
	for _, query := range statements {
		logger.Debugf("STAGE:\n%s", query)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return 0, errors.Wrapf(err, "failed to prepare staging for %s; query:\n%s", id, query)
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", staging, strings.Join(quoted, ", "), strings.Join(named, ", "))
	for _, r := range rows {
		arg := make(map[string]interface{}, len(columns))
		for _, c := range columns {
			arg[c] = r[c]
		}
		if _, err := tx.NamedExecContext(ctx, insert, arg); err != nil {
			return 0, errors.Wrapf(err, "failed INSERT to staging; query:\n%s", insert)
		}
	}

	merge := fmt.Sprintf(`INSERT INTO %s (%s)
SELECT %s FROM %s s
WHERE s.rowid IN (SELECT MIN(rowid) FROM %s GROUP BY %s)
AND NOT EXISTS (SELECT 1 FROM %s d WHERE %s);`,
		target, strings.Join(quoted, ", "),
		strings.Join(selected, ", "), staging,
		staging, strings.Join(keyList, ", "),
		target, strings.Join(keyMatch, " AND "))
	logger.Debugf("MERGE:\n%s", merge)
	res, err := tx.ExecContext(ctx, merge)
	if err != nil {
		return 0, errors.Wrapf(err, "failed MERGE to dbsqlite; query:\n%s", merge)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read merged row count")
	}

	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s;", staging)
	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return 0, errors.Wrapf(err, "failed to drop staging; query:\n%s", drop)
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit merge")
	}
	committed = true
	return inserted, nil
}

func (s *SQLiteStorage) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s", query)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		m := make(map[string]interface{})
		if err := rows.MapScan(m); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		for k, v := range m {
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		out = append(out, Row(m))
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate rows")
}
