package row

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Kind 值的运行时类型
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindText
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value 行中的一个动态类型值
// 零值即为 Null
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	blob []byte
}

func Null() Value          { return Value{} }
func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{kind: KindInt, i: i} }
func Real(f float64) Value { return Value{kind: KindReal, f: f} }
func Text(s string) Value  { return Value{kind: KindText, s: s} }
func Blob(b []byte) Value  { return Value{kind: KindBlob, blob: b} }

// ValueOf 将 Go 值转换为 Value
// map 和 slice 会被编码为 JSON 文本
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *Value:
		if x == nil {
			return Null()
		}
		return *x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return ValueOf(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		// 超出 int64 的值保存为十进制文本，不回绕成负数
		if x > math.MaxInt64 {
			return Text(strconv.FormatUint(x, 10))
		}
		return Int(int64(x))
	case float32:
		return Real(float64(x))
	case float64:
		return Real(x)
	case string:
		return Text(x)
	case []byte:
		return Blob(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i)
		}
		if f, err := x.Float64(); err == nil {
			return Real(f)
		}
		return Text(x.String())
	case fmt.Stringer:
		return Text(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		buf, err := json.Marshal(v)
		if err == nil {
			return Text(string(buf))
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return Null()
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Text(fmt.Sprintf("%v", v))
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsReal() (float64, bool) {
	return v.f, v.kind == KindReal
}

func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindText
}

func (v Value) AsBlob() ([]byte, bool) {
	return v.blob, v.kind == KindBlob
}

// Interface 返回可直接作为驱动参数的 Go 值
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindReal:
		return v.f
	case KindText:
		return v.s
	case KindBlob:
		return v.blob
	default:
		return nil
	}
}

// Equal 类型敏感的相等比较，不同类型永远不相等
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindReal:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindText:
		return v.s == o.s
	case KindBlob:
		return bytes.Equal(v.blob, o.blob)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBlob:
		return fmt.Sprintf("blob(%d)", len(v.blob))
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindBlob {
		return json.Marshal(string(v.blob))
	}
	return json.Marshal(v.Interface())
}
