package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-sql-driver/mysql"
	"github.com/hatlonely/litedb/rdb/row"
	"github.com/hatlonely/litedb/ref"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
)

func init() {
	ref.MustRegisterT[SQLEngine](NewSQLEngineWithOptions)
	ref.MustRegisterT[GormEngine](NewGormEngineWithOptions)
	ref.MustRegisterT[*SQLEngine](NewSQLEngineWithOptions)
	ref.MustRegisterT[*GormEngine](NewGormEngineWithOptions)
}

// Executor 执行带位置参数的语句
type Executor interface {
	// Exec 执行写语句
	Exec(ctx context.Context, query string, args ...any) error
	// Query 执行读语句，返回的 Cursor 必须关闭
	Query(ctx context.Context, query string, args ...any) (Cursor, error)
}

// Cursor 查询结果游标
type Cursor interface {
	Next() bool
	Row() row.Row
	Err() error
	Close() error
}

// Tx 一个打开的事务
type Tx interface {
	Executor
	Commit() error
	Rollback() error
}

// Engine 底层嵌入式 SQL 引擎
type Engine interface {
	Executor
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Namespace 引擎注册所在的命名空间，TypeOptions 未指定 namespace 时使用
var Namespace = reflect.TypeOf((*SQLEngine)(nil)).Elem().PkgPath()

// NewEngineWithOptions 通过 ref 创建引擎
func NewEngineWithOptions(options *ref.TypeOptions) (Engine, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = Namespace
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	engine, ok := obj.(Engine)
	if !ok {
		return nil, errors.Errorf("%T is not an Engine", obj)
	}
	return engine, nil
}

// CodeError 通用的 SQLite 错误码 SQLITE_ERROR
const CodeError = 1

// Error 引擎错误，保留原生错误码和错误信息
type Error struct {
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError 将驱动错误转换为 *Error
// 无法识别错误码的错误使用 CodeError
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return &Error{Code: int(mattnErr.Code), Message: mattnErr.Error(), cause: err}
	}
	var mattnErrPtr *sqlite3.Error
	if errors.As(err, &mattnErrPtr) && mattnErrPtr != nil {
		return &Error{Code: int(mattnErrPtr.Code), Message: mattnErrPtr.Error(), cause: err}
	}

	var moderncErr *sqlite.Error
	if errors.As(err, &moderncErr) {
		return &Error{Code: moderncErr.Code(), Message: moderncErr.Error(), cause: err}
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return &Error{Code: int(mysqlErr.Number), Message: mysqlErr.Message, cause: err}
	}

	return &Error{Code: CodeError, Message: err.Error(), cause: err}
}
