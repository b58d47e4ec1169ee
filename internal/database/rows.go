package database

import (
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"
)

var mapper = reflectx.NewMapper("db")

// RowsFrom converts a slice of structs with db tags into rows.
func RowsFrom(records interface{}) ([]Row, error) {
	v := reflect.ValueOf(records)
	if !v.IsValid() {
		return nil, nil
	}
	if v.Kind() != reflect.Slice {
		return nil, errors.Errorf("expected a slice of records, got %T", records)
	}

	rows := make([]Row, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := reflect.Indirect(v.Index(i))
		if item.Kind() != reflect.Struct {
			return nil, errors.Errorf("expected struct records, got %s", item.Kind())
		}
		row := make(Row)
		for path, fi := range mapper.TypeMap(item.Type()).Names {
			// nested paths such as "Price.Float64" belong to the column's value type
			if strings.Contains(path, ".") {
				continue
			}
			row[path] = reflectx.FieldByIndexesReadOnly(item, fi.Index).Interface()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
