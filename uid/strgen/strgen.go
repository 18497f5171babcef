package strgen

import (
	"reflect"

	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[UUIDGenerator](NewUUIDGeneratorWithOptions)
	ref.MustRegisterT[*UUIDGenerator](NewUUIDGeneratorWithOptions)
}

// StrGenerator 生成字符串主键
type StrGenerator interface {
	Generate() string
}

func NewStrGeneratorWithOptions(options *ref.TypeOptions) (StrGenerator, error) {
	if options == nil || options.Type == "" {
		return NewUUIDGeneratorWithOptions(nil), nil
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = reflect.TypeOf((*UUIDGenerator)(nil)).Elem().PkgPath()
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	g, ok := obj.(StrGenerator)
	if !ok {
		return nil, errors.Errorf("%T is not a StrGenerator", obj)
	}
	return g, nil
}
