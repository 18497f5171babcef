package row

import (
	"encoding/json"
	"sort"
	"strings"
)

// Row 有序的字段名到值的映射，表示一条记录
// Row 是值类型，Set 和 Delete 先复制底层存储再修改，复制出的 Row 互不影响
type Row struct {
	keys   []string
	values map[string]Value
}

// New 使用交替的 key, value 参数创建 Row
// 例如 New("id", "a", "ts", 1)
func New(kvs ...any) Row {
	r := Row{values: make(map[string]Value, len(kvs)/2)}
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			continue
		}
		r.set(key, ValueOf(kvs[i+1]))
	}
	return r
}

// FromMap 从 map 创建 Row，字段按名称排序
func FromMap(m map[string]any) Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Row{values: make(map[string]Value, len(m))}
	for _, k := range keys {
		r.set(k, ValueOf(m[k]))
	}
	return r
}

// Set 设置字段值，已存在的字段保持原有位置
func (r *Row) Set(key string, v Value) {
	*r = r.Clone()
	r.set(key, v)
}

// set 直接修改底层存储，只用于新建的 Row
func (r *Row) set(key string, v Value) {
	if r.values == nil {
		r.values = map[string]Value{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r Row) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value 返回字段值，不存在时返回 Null
func (r Row) Value(key string) Value {
	return r.values[key]
}

func (r Row) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

func (r *Row) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	*r = r.Clone()
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys 按插入顺序返回字段名
func (r Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r Row) Len() int {
	return len(r.keys)
}

// Map 转换为普通 map，值为 Value.Interface()
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		m[k] = r.values[k].Interface()
	}
	return m
}

func (r Row) Clone() Row {
	c := Row{
		keys:   r.Keys(),
		values: make(map[string]Value, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Equal 字段集合相同且每个字段的值类型和内容都相同时两行相等
// 字段顺序不参与比较
func (r Row) Equal(o Row) bool {
	if len(r.values) != len(o.values) {
		return false
	}
	for k, v := range r.values {
		ov, ok := o.values[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range r.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(r.values[k].String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (r Row) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range r.keys {
		if i > 0 {
			sb.WriteString(",")
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		sb.Write(key)
		sb.WriteString(":")
		sb.Write(val)
	}
	sb.WriteString("}")
	return []byte(sb.String()), nil
}
