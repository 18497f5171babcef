package writer

import (
	"io"
	"reflect"

	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[ConsoleWriter](NewConsoleWriterWithOptions)
	ref.MustRegisterT[FileWriter](NewFileWriterWithOptions)
	ref.MustRegisterT[*ConsoleWriter](NewConsoleWriterWithOptions)
	ref.MustRegisterT[*FileWriter](NewFileWriterWithOptions)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 通过 ref 创建输出器，未指定类型时输出到 stdout
func NewWriterWithOptions(options *ref.TypeOptions) (Writer, error) {
	if options == nil || options.Type == "" {
		return NewConsoleWriterWithOptions(nil)
	}

	namespace := options.Namespace
	if namespace == "" {
		namespace = reflect.TypeOf((*FileWriter)(nil)).Elem().PkgPath()
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	w, ok := obj.(Writer)
	if !ok {
		return nil, errors.Errorf("%T does not implement Writer", obj)
	}
	return w, nil
}
