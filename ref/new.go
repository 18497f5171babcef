package ref

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

// TypeOptions 通过名字描述一个待构造的对象
// Namespace 默认为类型所在的包路径，Type 为类型名
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

// Convertable 可以转换成任意结构的配置数据，例如 cfg/storage.MapStorage
// New 会把 Convertable 类型的 options 转换成构造函数的参数类型
type Convertable interface {
	ConvertTo(object any) error
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// constructor 构造函数签名为 func() T, func() (T, error), func(O) T 或 func(O) (T, error)
type constructor struct {
	fn        reflect.Value
	paramType reflect.Type
	withError bool
}

func newConstructor(fn any) (*constructor, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, errors.Errorf("constructor must be a function, got %T", fn)
	}

	ft := fv.Type()
	if ft.NumIn() > 1 {
		return nil, errors.Errorf("constructor must have 0 or 1 input parameters, got %d", ft.NumIn())
	}
	if ft.NumOut() != 1 && ft.NumOut() != 2 {
		return nil, errors.Errorf("constructor must have 1 or 2 return values, got %d", ft.NumOut())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return nil, errors.New("second return value must be error")
	}

	c := &constructor{fn: fv, withError: ft.NumOut() == 2}
	if ft.NumIn() == 1 {
		c.paramType = ft.In(0)
	}
	return c, nil
}

func (c *constructor) call(options any) (any, error) {
	var args []reflect.Value
	if c.paramType != nil {
		arg, err := c.argument(options)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	out := c.fn.Call(args)
	if c.withError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// argument 把 options 转换成构造函数的参数
func (c *constructor) argument(options any) (reflect.Value, error) {
	if convertable, ok := options.(Convertable); ok {
		if c.paramType.Kind() == reflect.Ptr {
			target := reflect.New(c.paramType.Elem())
			if err := convertable.ConvertTo(target.Interface()); err != nil {
				return reflect.Value{}, errors.WithMessagef(err, "convert options to %v failed", c.paramType)
			}
			return target, nil
		}
		target := reflect.New(c.paramType)
		if err := convertable.ConvertTo(target.Interface()); err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "convert options to %v failed", c.paramType)
		}
		return target.Elem(), nil
	}

	if options == nil {
		switch c.paramType.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			return reflect.Zero(c.paramType), nil
		}
		return reflect.Value{}, errors.Errorf("constructor requires options of type %v but got nil", c.paramType)
	}

	v := reflect.ValueOf(options)
	if !v.Type().AssignableTo(c.paramType) {
		return reflect.Value{}, errors.Errorf("options type %T is not assignable to %v", options, c.paramType)
	}
	return v, nil
}

var constructors sync.Map

func key(namespace, type_ string) string {
	return namespace + ":" + type_
}

// Register 注册构造函数，同一个名字重复注册相同的函数会被忽略
func Register(namespace string, type_ string, fn any) error {
	c, err := newConstructor(fn)
	if err != nil {
		return errors.WithMessagef(err, "register %s:%s failed", namespace, type_)
	}

	if existing, ok := constructors.Load(key(namespace, type_)); ok {
		if existing.(*constructor).fn.Pointer() == c.fn.Pointer() {
			return nil
		}
		return errors.Errorf("constructor for %s:%s already registered with different function", namespace, type_)
	}

	constructors.Store(key(namespace, type_), c)
	return nil
}

func MustRegister(namespace string, type_ string, fn any) {
	if err := Register(namespace, type_, fn); err != nil {
		panic(err)
	}
}

// RegisterT 以 T 的包路径和类型名注册构造函数
func RegisterT[T any](fn any) error {
	namespace, type_, err := typeName[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, fn)
}

func MustRegisterT[T any](fn any) {
	if err := RegisterT[T](fn); err != nil {
		panic(err)
	}
}

func New(namespace string, type_ string, options any) (any, error) {
	value, ok := constructors.Load(key(namespace, type_))
	if !ok {
		return nil, errors.Errorf("constructor not found for %s:%s", namespace, type_)
	}
	return value.(*constructor).call(options)
}

// NewT 以 T 的包路径和类型名构造对象
func NewT[T any](options any) (T, error) {
	var zero T

	namespace, type_, err := typeName[T]()
	if err != nil {
		return zero, err
	}

	obj, err := New(namespace, type_, options)
	if err != nil {
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		return zero, errors.Errorf("created object %T is not of type %T", obj, zero)
	}
	return t, nil
}

func typeName[T any]() (string, string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "", "", errors.Errorf("cannot determine package path or type name for %v", t)
	}
	return t.PkgPath(), t.Name(), nil
}
