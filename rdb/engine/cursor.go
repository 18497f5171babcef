package engine

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hatlonely/litedb/rdb/row"
)

// sqlCursor 基于 *sql.Rows 的游标
type sqlCursor struct {
	rows      *sql.Rows
	columns   []string
	typeNames []string
	current   row.Row
	err       error
}

func newSQLCursor(rows *sql.Rows) (*sqlCursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}

	typeNames := make([]string, len(columns))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			if i < len(typeNames) {
				typeNames[i] = strings.ToUpper(t.DatabaseTypeName())
			}
		}
	}

	return &sqlCursor{rows: rows, columns: columns, typeNames: typeNames}, nil
}

func (c *sqlCursor) Next() bool {
	if c.err != nil || !c.rows.Next() {
		return false
	}

	values := make([]any, len(c.columns))
	valuePtrs := make([]any, len(c.columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := c.rows.Scan(valuePtrs...); err != nil {
		c.err = err
		return false
	}

	kvs := make([]any, 0, 2*len(c.columns))
	for i, col := range c.columns {
		kvs = append(kvs, col, columnValue(values[i], c.typeNames[i]))
	}
	c.current = row.New(kvs...)
	return true
}

func (c *sqlCursor) Row() row.Row {
	return c.current
}

func (c *sqlCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *sqlCursor) Close() error {
	return c.rows.Close()
}

// columnValue 按列声明类型把驱动返回的值转换为 row.Value
func columnValue(v any, typeName string) row.Value {
	switch x := v.(type) {
	case nil:
		return row.Null()
	case []byte:
		if isBinaryType(typeName) {
			b := make([]byte, len(x))
			copy(b, x)
			return row.Blob(b)
		}
		return row.Text(string(x))
	case int64:
		if isBoolType(typeName) {
			return row.Bool(x != 0)
		}
		return row.Int(x)
	case time.Time:
		return row.Text(x.Format(time.RFC3339Nano))
	}
	return row.ValueOf(v)
}

func isBinaryType(typeName string) bool {
	return strings.Contains(typeName, "BLOB") || strings.Contains(typeName, "BINARY")
}

func isBoolType(typeName string) bool {
	return typeName == "BOOL" || typeName == "BOOLEAN"
}

// ReadAll 读取游标中的全部行并关闭游标，零行时返回空切片
func ReadAll(c Cursor) ([]row.Row, error) {
	defer c.Close()

	rows := []row.Row{}
	for c.Next() {
		rows = append(rows, c.Row())
	}
	return rows, c.Err()
}
