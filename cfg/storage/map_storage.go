package storage

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hatlonely/litedb/cfg/def"
	"github.com/hatlonely/litedb/cfg/validator"
	"github.com/pkg/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// MapStorage 基于 map 和 slice 的存储实现
type MapStorage struct {
	data any
}

func NewMapStorage(data any) *MapStorage {
	return &MapStorage{data: data}
}

// Data 获取存储的原始数据
func (ms *MapStorage) Data() any {
	return ms.data
}

func (ms *MapStorage) Sub(key string) Storage {
	if key == "" {
		return ms
	}
	current := ms.data
	for _, k := range parseKey(key) {
		current = child(current, k)
		if current == nil {
			break
		}
	}
	return NewMapStorage(current)
}

// ConvertTo 转换后按 def tag 补齐零值字段，再按 validate tag 校验
// 嵌套的 any 字段保留为 *MapStorage，交给 ref.New 在构造时再转换
func (ms *MapStorage) ConvertTo(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}

	if p, ok := object.(*any); ok {
		*p = ms.data
		return nil
	}

	if err := convert(ms.data, rv.Elem()); err != nil {
		return err
	}
	if err := def.SetDefaults(object); err != nil {
		return errors.WithMessage(err, "def.SetDefaults failed")
	}
	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "validator.ValidateStruct failed")
	}
	return nil
}

// parseKey 把 "a.b[0].c" 解析为 ["a", "b", "0", "c"]
func parseKey(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool {
		return r == '.' || r == '[' || r == ']'
	})
}

func child(data any, key string) any {
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		v := rv.MapIndex(reflect.ValueOf(key))
		if !v.IsValid() {
			return nil
		}
		return v.Interface()
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil
		}
		return rv.Index(idx).Interface()
	}
	return nil
}

func convert(src any, dst reflect.Value) error {
	if src == nil {
		return nil
	}
	if ms, ok := src.(*MapStorage); ok {
		return convert(ms.data, dst)
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convert(src, dst.Elem())
	}

	sv := reflect.ValueOf(src)
	if dst.Type() == durationType {
		return convertDuration(sv, dst)
	}

	switch dst.Kind() {
	case reflect.Interface:
		if dst.Type().NumMethod() != 0 {
			break
		}
		if sv.Kind() == reflect.Map || sv.Kind() == reflect.Slice {
			dst.Set(reflect.ValueOf(NewMapStorage(src)))
		} else {
			dst.Set(sv)
		}
		return nil
	case reflect.Struct:
		return convertStruct(sv, dst)
	case reflect.Map:
		return convertMap(sv, dst)
	case reflect.Slice:
		if sv.Kind() == reflect.Slice || sv.Kind() == reflect.Array {
			return convertSlice(sv, dst)
		}
	case reflect.String:
		if sv.Kind() != reflect.String {
			dst.SetString(toString(sv))
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Bool:
		if sv.Kind() == reflect.String {
			return convertFromString(sv.String(), dst)
		}
	}

	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}
	if sv.Type().ConvertibleTo(dst.Type()) && sv.Kind() != reflect.String {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}
	return errors.Errorf("cannot convert %v to %v", sv.Type(), dst.Type())
}

func convertStruct(sv reflect.Value, dst reflect.Value) error {
	if sv.Kind() != reflect.Map {
		return errors.Errorf("cannot convert %v to %v", sv.Type(), dst.Type())
	}

	values := map[string]reflect.Value{}
	for _, k := range sv.MapKeys() {
		values[strings.ToLower(toString(k))] = sv.MapIndex(k)
	}

	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		v, ok := values[strings.ToLower(name)]
		if !ok {
			continue
		}
		if err := convert(v.Interface(), dst.Field(i)); err != nil {
			return errors.WithMessagef(err, "field %s", name)
		}
	}
	return nil
}

func fieldName(field reflect.StructField) string {
	for _, tagKey := range []string{"cfg", "json", "yaml", "toml", "ini"} {
		if tag := field.Tag.Get(tagKey); tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				return name
			}
		}
	}
	return field.Name
}

func convertMap(sv reflect.Value, dst reflect.Value) error {
	if sv.Kind() != reflect.Map {
		return errors.Errorf("cannot convert %v to %v", sv.Type(), dst.Type())
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
	for _, k := range sv.MapKeys() {
		key := reflect.New(dst.Type().Key()).Elem()
		if err := convert(k.Interface(), key); err != nil {
			return err
		}
		val := reflect.New(dst.Type().Elem()).Elem()
		if err := convert(sv.MapIndex(k).Interface(), val); err != nil {
			return errors.WithMessagef(err, "key %v", k.Interface())
		}
		dst.SetMapIndex(key, val)
	}
	return nil
}

func convertSlice(sv reflect.Value, dst reflect.Value) error {
	slice := reflect.MakeSlice(dst.Type(), sv.Len(), sv.Len())
	for i := 0; i < sv.Len(); i++ {
		if err := convert(sv.Index(i).Interface(), slice.Index(i)); err != nil {
			return errors.WithMessagef(err, "index %d", i)
		}
	}
	dst.Set(slice)
	return nil
}

func convertDuration(sv reflect.Value, dst reflect.Value) error {
	switch sv.Kind() {
	case reflect.String:
		d, err := time.ParseDuration(sv.String())
		if err != nil {
			return errors.Wrapf(err, "invalid duration %q", sv.String())
		}
		dst.SetInt(int64(d))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(sv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetInt(int64(sv.Uint()))
	case reflect.Float32, reflect.Float64:
		dst.SetInt(int64(sv.Float() * float64(time.Second)))
	default:
		return errors.Errorf("cannot convert %v to time.Duration", sv.Type())
	}
	return nil
}

func convertFromString(s string, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return errors.Wrapf(err, "invalid bool %q", s)
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 0, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid int %q", s)
		}
		dst.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 0, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid uint %q", s)
		}
		dst.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid float %q", s)
		}
		dst.SetFloat(f)
	}
	return nil
}

func toString(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return toString(v.Elem())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return ""
}
