package table

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hatlonely/litedb/rdb/row"
)

// Schema 有序的字段列表和唯一的主键
// 第一个 PrimaryKey 字段作为主键，没有时在最前面补一个 TEXT 类型的 id 字段
type Schema struct {
	fields     []Field
	index      map[string]int
	primaryKey string
}

func NewSchema(fields []Field) *Schema {
	s := &Schema{index: map[string]int{}}
	for _, f := range fields {
		if _, ok := s.index[f.Name]; ok {
			continue
		}
		if s.primaryKey == "" && f.Index == PrimaryKey {
			s.primaryKey = f.Name
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	if s.primaryKey == "" {
		s.primaryKey = "id"
		if _, ok := s.index["id"]; ok {
			// 同名的非主键 id 字段被主键替换
			s.fields = append(s.fields[:s.index["id"]:s.index["id"]], s.fields[s.index["id"]+1:]...)
		}
		s.fields = append([]Field{{Name: "id", Type: Text, Index: PrimaryKey, Default: NonNull}}, s.fields...)
		for i, f := range s.fields {
			s.index[f.Name] = i
		}
	}
	return s
}

func (s *Schema) Fields() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s *Schema) PrimaryKey() Field {
	return s.fields[s.index[s.primaryKey]]
}

func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s *Schema) columnSQL(f Field) string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteString(" ")
	sb.WriteString(string(f.Type))

	switch {
	case f.Name == s.primaryKey:
		sb.WriteString(" PRIMARY KEY")
	case f.Index == PrimaryKey, f.Index == Unique:
		sb.WriteString(" UNIQUE")
	}

	switch f.Default.kind {
	case defaultNonNull:
		sb.WriteString(" NOT NULL")
	case defaultValue:
		sb.WriteString(" DEFAULT ")
		sb.WriteString(literal(f.Default.value))
	}
	return sb.String()
}

func (s *Schema) createTableSQL(name string) string {
	columns := make([]string, len(s.fields))
	for i, f := range s.fields {
		columns[i] = s.columnSQL(f)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", name, strings.Join(columns, ", "))
}

// createIndexSQLs Unique 和 Indexed 字段各建一个名为 <table>_<field> 的索引
func (s *Schema) createIndexSQLs(name string) []string {
	var statements []string
	for _, f := range s.fields {
		switch f.Index {
		case Unique:
			statements = append(statements, fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s_%s ON %s(%s);", name, f.Name, name, f.Name))
		case Indexed:
			statements = append(statements, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_%s ON %s(%s);", name, f.Name, name, f.Name))
		}
	}
	return statements
}

func (s *Schema) insertSQL(name string) string {
	placeholders := make([]string, len(s.fields))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(s.Names(), ", "), strings.Join(placeholders, ", "))
}

// literal 格式化 DEFAULT 子句中的值
func literal(v row.Value) string {
	switch v.Kind() {
	case row.KindNull:
		return "NULL"
	case row.KindBool:
		if b, _ := v.AsBool(); b {
			return "1"
		}
		return "0"
	case row.KindText:
		s, _ := v.AsText()
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	case row.KindBlob:
		b, _ := v.AsBlob()
		return "X'" + hex.EncodeToString(b) + "'"
	}
	return v.String()
}
