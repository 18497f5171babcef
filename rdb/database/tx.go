package database

import (
	"context"
	"fmt"

	"github.com/hatlonely/litedb/rdb/engine"
)

// Session worker 上执行语句的句柄
type Session interface {
	Exec(sql string, args ...any) Result
	Query(sql string, args ...any) Result
	Update(batch []QueryArgs) Result
}

// Tx TxBlock 中打开的事务，只在 block 执行期间有效
type Tx struct {
	ctx      context.Context
	tx       engine.Tx
	finished bool
}

func (t *Tx) Exec(sql string, args ...any) Result {
	if t.finished {
		return Failure(CodeContractViolation, "transaction is finished")
	}
	return exec(t.ctx, t.tx, sql, args)
}

func (t *Tx) Query(sql string, args ...any) Result {
	if t.finished {
		return Failure(CodeContractViolation, "transaction is finished")
	}
	return query(t.ctx, t.tx, sql, args)
}

// Update 在当前事务中执行 batch，遇到第一个错误即返回，是否回滚由 TxBlock 决定
func (t *Tx) Update(batch []QueryArgs) Result {
	if t.finished {
		return Failure(CodeContractViolation, "transaction is finished")
	}
	return runBatch(t.ctx, t.tx, batch)
}

// directSession 自动提交模式，Update 单独开启事务
type directSession struct {
	ctx    context.Context
	engine engine.Engine
}

func (s *directSession) Exec(sql string, args ...any) Result {
	return exec(s.ctx, s.engine, sql, args)
}

func (s *directSession) Query(sql string, args ...any) Result {
	return query(s.ctx, s.engine, sql, args)
}

func (s *directSession) Update(batch []QueryArgs) Result {
	return updateInTx(s.ctx, s.engine, batch)
}

func exec(ctx context.Context, e engine.Executor, sql string, args []any) Result {
	if err := e.Exec(ctx, sql, args...); err != nil {
		return FailureOf(err)
	}
	return Success()
}

func query(ctx context.Context, e engine.Executor, sql string, args []any) Result {
	cursor, err := e.Query(ctx, sql, args...)
	if err != nil {
		return FailureOf(err)
	}
	rows, err := engine.ReadAll(cursor)
	if err != nil {
		return FailureOf(err)
	}
	return ItemsOf(rows)
}

func runBatch(ctx context.Context, e engine.Executor, batch []QueryArgs) Result {
	for _, q := range batch {
		if r := exec(ctx, e, q.SQL, q.Args); r.IsError() {
			return r
		}
	}
	return Success()
}

func updateInTx(ctx context.Context, e engine.Engine, batch []QueryArgs) Result {
	if len(batch) == 0 {
		return Success()
	}

	tx, err := e.Begin(ctx)
	if err != nil {
		return FailureOf(err)
	}
	if r := runBatch(ctx, tx, batch); r.IsError() {
		_ = tx.Rollback()
		return r
	}
	if err := tx.Commit(); err != nil {
		return FailureOf(err)
	}
	return Success()
}

func runTxBlock(ctx context.Context, e engine.Engine, block func(tx *Tx) Result) (result Result) {
	etx, err := e.Begin(ctx)
	if err != nil {
		return FailureOf(err)
	}

	tx := &Tx{ctx: ctx, tx: etx}
	defer func() {
		tx.finished = true
		if r := recover(); r != nil {
			_ = etx.Rollback()
			result = Failure(CodeContractViolation, fmt.Sprintf("panic: %v", r))
		}
	}()

	result = block(tx)
	if result.IsError() {
		_ = etx.Rollback()
		return result
	}
	if err := etx.Commit(); err != nil {
		return FailureOf(err)
	}
	return result
}
