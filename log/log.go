package log

import (
	"reflect"
	"sync/atomic"

	"github.com/hatlonely/litedb/log/logger"
	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

var defaultLogger atomic.Value

var loggerNamespace = reflect.TypeOf((*logger.SLog)(nil)).Elem().PkgPath()

func init() {
	ref.MustRegisterT[logger.SLog](logger.NewSLogWithOptions)
	ref.MustRegisterT[*logger.SLog](logger.NewSLogWithOptions)

	// 默认向终端输出 text 格式日志
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger.Store(holder{l})
}

type holder struct {
	logger logger.Logger
}

func Default() logger.Logger {
	return defaultLogger.Load().(holder).logger
}

// SetDefault 替换默认日志器，nil 被忽略
func SetDefault(l logger.Logger) {
	if l != nil {
		defaultLogger.Store(holder{l})
	}
}

// NewLoggerWithOptions 通过 ref 创建日志器，options 为空时返回默认日志器
func NewLoggerWithOptions(options *ref.TypeOptions) (logger.Logger, error) {
	if options == nil || options.Type == "" {
		return Default(), nil
	}

	namespace := options.Namespace
	if namespace == "" {
		namespace = loggerNamespace
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	l, ok := obj.(logger.Logger)
	if !ok {
		return nil, errors.Errorf("%T does not implement Logger", obj)
	}
	return l, nil
}
