package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/row"
)

// Type 字段的列类型
type Type string

const (
	Integer Type = "INT"
	Real    Type = "REAL"
	Text    Type = "TEXT"
	Blob    Type = "BLOB"
	Bool    Type = "BOOL"
)

// ParseType 解析声明的列类型，不区分大小写
func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToUpper(strings.TrimSpace(s))); t {
	case Integer, Real, Text, Blob, Bool:
		return t, true
	}
	return Text, false
}

// accepts 判断值能否写入该类型的列
func (t Type) accepts(v row.Value) (row.Value, bool) {
	switch t {
	case Integer:
		if v.Kind() == row.KindInt {
			return v, true
		}
	case Real:
		switch v.Kind() {
		case row.KindReal:
			return v, true
		case row.KindInt:
			i, _ := v.AsInt()
			return row.Real(float64(i)), true
		}
	case Text:
		if v.Kind() == row.KindText {
			return v, true
		}
	case Bool:
		switch v.Kind() {
		case row.KindBool:
			return v, true
		case row.KindInt:
			if i, _ := v.AsInt(); i == 0 || i == 1 {
				return row.Bool(i == 1), true
			}
		}
	case Blob:
		if v.Kind() == row.KindBlob {
			return v, true
		}
	}
	return row.Value{}, false
}

// affinity 按列亲和性转换值，得到 SQLite 实际保存的值，用于比较主键
func (t Type) affinity(v row.Value) row.Value {
	if a, ok := t.accepts(v); ok {
		return a
	}
	switch t {
	case Integer:
		if s, ok := v.AsText(); ok {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return row.Int(i)
			}
		}
		if f, ok := v.AsReal(); ok && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return row.Int(int64(f))
		}
	case Real:
		if s, ok := v.AsText(); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return row.Real(f)
			}
		}
	case Bool:
		if s, ok := v.AsText(); ok && (s == "0" || s == "1") {
			return row.Bool(s == "1")
		}
	case Text:
		if i, ok := v.AsInt(); ok {
			return row.Text(strconv.FormatInt(i, 10))
		}
	}
	return v
}

func (t Type) zero() row.Value {
	switch t {
	case Integer:
		return row.Int(0)
	case Real:
		return row.Real(0)
	case Bool:
		return row.Bool(false)
	}
	return row.Text("")
}

// Index 字段的索引方式
// Packed 和 Private 只是标记，不生成约束或索引
type Index string

const (
	NoIndex    Index = "none"
	PrimaryKey Index = "primaryKey"
	Unique     Index = "unique"
	Indexed    Index = "index"
	Packed     Index = "packed"
	Private    Index = "private"
)

func ParseIndex(s string) (Index, bool) {
	switch i := Index(s); i {
	case NoIndex, PrimaryKey, Unique, Indexed, Packed, Private:
		return i, true
	}
	return NoIndex, false
}

type defaultKind int

const (
	defaultNone defaultKind = iota
	defaultNonNull
	defaultValue
)

// Default 列的默认值约束：无、NOT NULL 或者默认值
type Default struct {
	kind  defaultKind
	value row.Value
}

var (
	NoDefault = Default{kind: defaultNone}
	NonNull   = Default{kind: defaultNonNull}
)

// DefaultValue 使用 v 作为列默认值，同时作为插入时缺失字段的取值
func DefaultValue(v any) Default {
	return Default{kind: defaultValue, value: row.ValueOf(v)}
}

func (d Default) IsNone() bool    { return d.kind == defaultNone }
func (d Default) IsNonNull() bool { return d.kind == defaultNonNull }

func (d Default) Value() (row.Value, bool) {
	return d.value, d.kind == defaultValue
}

func (d Default) String() string {
	switch d.kind {
	case defaultNonNull:
		return "NonNull"
	case defaultValue:
		return "Value(" + d.value.String() + ")"
	}
	return "None"
}

// Field 表的一个字段，创建后不可修改
type Field struct {
	Name    string
	Type    Type
	Index   Index
	Default Default
}

// ToMap 字典形式，包含 name、type、index
func (f Field) ToMap() map[string]any {
	return map[string]any{
		"name":  f.Name,
		"type":  string(f.Type),
		"index": string(f.Index),
	}
}

func (f Field) toRow() row.Row {
	return row.New("name", f.Name, "type", string(f.Type), "index", string(f.Index))
}

// FieldFromMap 从字典创建字段，支持 ToMap 的输出和 pragma table_info 的结果行
// 未知类型视为 Text；没有 index 时 pk == 1 视为主键
func FieldFromMap(m map[string]any) Field {
	f := Field{Type: Text, Index: NoIndex, Default: NonNull}
	if name, ok := m["name"].(string); ok {
		f.Name = name
	}
	if s, ok := m["type"].(string); ok {
		f.Type, _ = ParseType(s)
	}
	if s, ok := m["index"].(string); ok {
		if index, ok := ParseIndex(s); ok {
			f.Index = index
			return f
		}
	}
	if isPrimaryKey(m["pk"]) {
		f.Index = PrimaryKey
	}
	return f
}

func isPrimaryKey(v any) bool {
	switch pk := v.(type) {
	case int64:
		return pk == 1
	case int:
		return pk == 1
	case float64:
		return pk == 1
	case bool:
		return pk
	}
	return false
}

// FieldsFromResult 把 Schema 返回的 Items 转换为字段列表，其他结果返回空列表
func FieldsFromResult(r database.Result) []Field {
	fields := []Field{}
	if !r.IsItems() {
		return fields
	}
	for _, item := range r.Items {
		fields = append(fields, FieldFromMap(item.Map()))
	}
	return fields
}
