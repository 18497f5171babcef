package database

import (
	"fmt"

	"github.com/hatlonely/litedb/rdb/engine"
	"github.com/hatlonely/litedb/rdb/row"
)

// CodeContractViolation 调用方违反约定时使用的错误码，例如更新时缺少主键
const CodeContractViolation = -1

// Kind 结果类型
type Kind int

const (
	KindSuccess Kind = iota
	KindItems
	KindError
)

// Result 数据库操作结果，三选一：Success、Items(rows)、Error(code, message)
type Result struct {
	Kind    Kind
	Items   []row.Row
	Code    int
	Message string
}

func Success() Result {
	return Result{Kind: KindSuccess}
}

// ItemsOf 读结果，nil 视为空结果
func ItemsOf(items []row.Row) Result {
	if items == nil {
		items = []row.Row{}
	}
	return Result{Kind: KindItems, Items: items}
}

func Failure(code int, message string) Result {
	return Result{Kind: KindError, Code: code, Message: message}
}

// FailureOf 保留引擎原生的错误码和错误信息
func FailureOf(err error) Result {
	e := engine.AsError(err)
	return Failure(e.Code, e.Message)
}

func (r Result) IsSuccess() bool { return r.Kind == KindSuccess }
func (r Result) IsItems() bool   { return r.Kind == KindItems }
func (r Result) IsError() bool   { return r.Kind == KindError }

// Err 错误结果转换为 *engine.Error，其他结果返回 nil
func (r Result) Err() error {
	if r.Kind != KindError {
		return nil
	}
	return &engine.Error{Code: r.Code, Message: r.Message}
}

func (r Result) String() string {
	switch r.Kind {
	case KindSuccess:
		return "Success"
	case KindItems:
		return fmt.Sprintf("Items(%d)", len(r.Items))
	default:
		return fmt.Sprintf("Error(%d, %q)", r.Code, r.Message)
	}
}

// QueryArgs 一条带位置参数的语句
type QueryArgs struct {
	SQL  string
	Args []any
}

func NewQueryArgs(sql string, args ...any) QueryArgs {
	return QueryArgs{SQL: sql, Args: args}
}
