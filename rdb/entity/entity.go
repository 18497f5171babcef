package entity

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"math"
	"strings"

	"github.com/hatlonely/litedb/rdb/row"
)

// Fields 实体的字段字典
type Fields = map[string]any

// Entity 可以转换为字段字典的业务对象
type Entity interface {
	ToFields() Fields
}

// RowFielder 写入数据库时使用的字段和 ToFields 不同时实现
type RowFielder interface {
	ToRowFields() Fields
}

// Base 持有构造时的字段，创建后不再修改
// 嵌入 Base 的实体通过类型化的访问方法读取字段，并覆盖 ToFields
type Base struct {
	fields Fields
}

func NewBase(fields Fields) Base {
	f := make(Fields, len(fields))
	for k, v := range fields {
		f[k] = v
	}
	return Base{fields: f}
}

// NewBaseFromJSON 解析 JSON 对象，解析失败时字段为空
func NewBaseFromJSON(s string) Base {
	var fields Fields
	if err := decodeJSON(s, &fields); err != nil {
		return Base{fields: Fields{}}
	}
	return Base{fields: fields}
}

func NewBaseFromRow(r row.Row) Base {
	return Base{fields: r.Map()}
}

func decodeJSON(s string, v any) error {
	d := json.NewDecoder(bytes.NewReader([]byte(s)))
	d.UseNumber()
	return d.Decode(v)
}

// OriginalFields 构造时的字段副本
func (b Base) OriginalFields() Fields {
	return NewBase(b.fields).fields
}

// ToFields 默认返回构造时的字段，实体类型通常会覆盖
func (b Base) ToFields() Fields {
	return b.OriginalFields()
}

func (b Base) Value(key string) (any, bool) {
	v, ok := b.fields[key]
	return v, ok
}

// Bool 接受 bool、非零整数以及字符串 "true" 和 "1"
func (b Base) Bool(key string, def bool) bool {
	switch v := b.fields[key].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case row.Value:
		if x, ok := v.AsBool(); ok {
			return x
		}
	}
	if i, ok := toInt64(b.fields[key]); ok {
		return i != 0
	}
	return def
}

func (b Base) Int(key string, def int) int {
	if i, ok := toInt64(b.fields[key]); ok {
		return int(i)
	}
	return def
}

func (b Base) Int64(key string, def int64) int64 {
	if i, ok := toInt64(b.fields[key]); ok {
		return i
	}
	return def
}

func (b Base) Float(key string, def float32) float32 {
	if f, ok := toFloat64(b.fields[key]); ok {
		return float32(f)
	}
	return def
}

func (b Base) Double(key string, def float64) float64 {
	if f, ok := toFloat64(b.fields[key]); ok {
		return f
	}
	return def
}

func (b Base) String(key string, def string) string {
	switch v := b.fields[key].(type) {
	case string:
		return v
	case row.Value:
		if s, ok := v.AsText(); ok {
			return s
		}
	}
	return def
}

// Array 字符串先按 JSON 数组解析，否则返回字段中的数组
func (b Base) Array(key string, def []any) []any {
	switch v := b.fields[key].(type) {
	case string:
		var a []any
		if err := decodeJSON(v, &a); err == nil && a != nil {
			return a
		}
	case []any:
		return v
	}
	return def
}

// Dict 字符串先按 JSON 对象解析，否则返回字段中的字典
func (b Base) Dict(key string, def map[string]any) map[string]any {
	switch v := b.fields[key].(type) {
	case string:
		var m map[string]any
		if err := decodeJSON(v, &m); err == nil && m != nil {
			return m
		}
	case map[string]any:
		return v
	}
	return def
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint32:
		return int64(x), true
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	case float64:
		if x == math.Trunc(x) {
			return int64(x), true
		}
	case json.Number:
		i, err := x.Int64()
		return i, err == nil
	case row.Value:
		return x.AsInt()
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case row.Value:
		if f, ok := x.AsReal(); ok {
			return f, true
		}
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

// Data ToFields 的 JSON 编码，key 按字典序排列
func Data(e Entity) []byte {
	buf, err := json.Marshal(e.ToFields())
	if err != nil {
		return nil
	}
	return buf
}

// ToJSON 编码失败时返回空字符串
func ToJSON(e Entity) string {
	return string(Data(e))
}

// RawString 不转义 HTML 字符的 JSON 文本
func RawString(e Entity) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.ToFields()); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func MD5(e Entity) string {
	sum := md5.Sum(Data(e))
	return hex.EncodeToString(sum[:])
}

// ToRow 写入数据库的行，优先使用 ToRowFields
func ToRow(e Entity) row.Row {
	if rf, ok := e.(RowFielder); ok {
		return row.FromMap(rf.ToRowFields())
	}
	return row.FromMap(e.ToFields())
}
