package intgen

import (
	"reflect"

	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[SnowflakeGenerator](NewSnowflakeGeneratorWithOptions)
	ref.MustRegisterT[*SnowflakeGenerator](NewSnowflakeGeneratorWithOptions)
}

// IntGenerator 生成整数主键
type IntGenerator interface {
	Generate() int64
}

func NewIntGeneratorWithOptions(options *ref.TypeOptions) (IntGenerator, error) {
	if options == nil || options.Type == "" {
		return NewSnowflakeGeneratorWithOptions(nil), nil
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = reflect.TypeOf((*SnowflakeGenerator)(nil)).Elem().PkgPath()
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	g, ok := obj.(IntGenerator)
	if !ok {
		return nil, errors.Errorf("%T is not an IntGenerator", obj)
	}
	return g, nil
}
