package model

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/hatlonely/litedb/rdb/table"
	"github.com/pkg/errors"
)

// FieldsFromStruct 从结构体的 rdb tag 创建字段
// 支持的 tag 格式：
// - `rdb:"column_name,type=TEXT,default=0,required,primary,index,unique,packed,private"`
// - `rdb:"-"` 忽略该字段
// 没有 type 时从 Go 类型推断，没有 tag 时使用字段名
func FieldsFromStruct(v any) ([]table.Field, error) {
	rt := reflect.TypeOf(v)
	if rt != nil && rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected struct, got %T", v)
	}

	var fields []table.Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("rdb")
		if tag == "-" {
			continue
		}

		f, err := parseFieldTag(sf, tag)
		if err != nil {
			return nil, errors.WithMessagef(err, "parse field [%s] failed", sf.Name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseFieldTag(sf reflect.StructField, tag string) (table.Field, error) {
	f := table.Field{
		Name:    sf.Name,
		Type:    inferType(sf.Type),
		Index:   table.NoIndex,
		Default: table.NoDefault,
	}
	if tag == "" {
		return f, nil
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" && !strings.Contains(parts[0], "=") {
		f.Name = parts[0]
		parts = parts[1:]
	}

	var defaultValue *string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, value, ok := strings.Cut(part, "="); ok {
			switch strings.TrimSpace(key) {
			case "type":
				t, ok := table.ParseType(value)
				if !ok {
					return f, errors.Errorf("unknown type [%s]", value)
				}
				f.Type = t
			case "default":
				value = strings.TrimSpace(value)
				defaultValue = &value
			default:
				return f, errors.Errorf("unknown option [%s]", part)
			}
			continue
		}

		switch part {
		case "required", "not_null":
			f.Default = table.NonNull
		case "primary", "pk":
			f.Index = table.PrimaryKey
			f.Default = table.NonNull
		case "index":
			f.Index = table.Indexed
		case "unique":
			f.Index = table.Unique
		case "packed":
			f.Index = table.Packed
		case "private":
			f.Index = table.Private
		default:
			return f, errors.Errorf("unknown option [%s]", part)
		}
	}

	if defaultValue != nil {
		v, err := parseDefaultValue(*defaultValue, f.Type)
		if err != nil {
			return f, err
		}
		f.Default = table.DefaultValue(v)
	}
	return f, nil
}

// inferType 从 Go 类型推断列类型，复杂类型以 JSON 文本保存
func inferType(t reflect.Type) table.Type {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return table.Integer
	case reflect.Float32, reflect.Float64:
		return table.Real
	case reflect.Bool:
		return table.Bool
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return table.Blob
		}
	}
	return table.Text
}

func parseDefaultValue(value string, t table.Type) (any, error) {
	switch t {
	case table.Integer:
		i, err := strconv.ParseInt(value, 10, 64)
		return i, errors.Wrapf(err, "invalid default [%s]", value)
	case table.Real:
		f, err := strconv.ParseFloat(value, 64)
		return f, errors.Wrapf(err, "invalid default [%s]", value)
	case table.Bool:
		return value == "true" || value == "1", nil
	}
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1], nil
	}
	return value, nil
}
