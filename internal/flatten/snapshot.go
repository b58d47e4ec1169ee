package flatten

import (
	"database/sql/driver"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"SeedWithWarehouse/internal/database"

	"github.com/pkg/errors"
)

// SnapshotWriter persists a flattened row-set under name for later
// inspection.
type SnapshotWriter interface {
	Write(name, table string, records interface{}) error
}

// CSVSnapshot writes each row-set to <Dir>/<name>.csv with the declared
// column order of table as the header.
type CSVSnapshot struct {
	Dir string
}

func NewCSVSnapshot(dir string) (*CSVSnapshot, error) {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return nil, errors.Wrapf(err, "failed to create snapshot dir %s", dir)
	}
	return &CSVSnapshot{Dir: dir}, nil
}

func (s *CSVSnapshot) Write(name, table string, records interface{}) error {
	rows, err := database.RowsFrom(records)
	if err != nil {
		return err
	}
	columns := database.Tables[table].ColumnNames()
	if len(columns) == 0 && len(rows) > 0 {
		for c := range rows[0] {
			columns = append(columns, c)
		}
	}

	f, err := os.Create(filepath.Join(s.Dir, name+".csv"))
	if err != nil {
		return errors.Wrapf(err, "failed to create snapshot %s", name)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, c := range columns {
			line[i] = formatCell(row[c])
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatCell(v interface{}) string {
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return ""
		}
		v = dv
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
