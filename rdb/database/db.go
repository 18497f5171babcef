package database

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/fifo"
	"github.com/hatlonely/litedb/log"
	"github.com/hatlonely/litedb/log/logger"
	"github.com/hatlonely/litedb/rdb/engine"
	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

type Options struct {
	// Dir 数据库文件所在目录，文件名为 <Name>.sqlite
	Dir string `cfg:"dir"`
	// Name 数据库名，":memory:" 表示内存数据库
	Name   string `cfg:"name" def:"hldb"`
	Driver string `cfg:"driver" def:"sqlite3" validate:"oneof=sqlite3 sqlite"`

	// Engine 自定义引擎，设置后忽略 Dir 和 Driver
	Engine *ref.TypeOptions `cfg:"engine"`

	// MaxPending 最多排队的任务数，超过后提交方按到达顺序阻塞
	MaxPending int64 `cfg:"maxPending" def:"1024" validate:"gte=0"`

	EnableMetrics bool   `cfg:"enableMetrics"`
	EnableTracing bool   `cfg:"enableTracing"`
	MetricsName   string `cfg:"metricsName" def:"litedb"`

	Logger *ref.TypeOptions `cfg:"logger"`
}

// DB 串行访问一个数据库文件
// 所有操作按提交顺序由同一个 worker 执行，结果通过 Future 返回
type DB struct {
	name   string
	path   string
	engine engine.Engine

	jobs    chan *job
	sem     *fifo.Semaphore
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	closeMu sync.Mutex
	err     error

	logger   logger.Logger
	observer *observer
}

type job struct {
	op      string
	sql     string
	run     func(ctx context.Context) Result
	promise *Promise[Result]
}

func NewWithOptions(options *Options) (*DB, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	name := options.Name
	if name == "" {
		name = DefaultName
	}

	var e engine.Engine
	var path string
	var err error
	if options.Engine != nil && options.Engine.Type != "" {
		e, err = engine.NewEngineWithOptions(options.Engine)
		if err != nil {
			return nil, errors.WithMessage(err, "engine.NewEngineWithOptions failed")
		}
		path = name
	} else {
		path = PathForDBFile(options.Dir, name)
		if name != MemoryName && options.Dir != "" {
			if err := os.MkdirAll(options.Dir, 0755); err != nil {
				return nil, errors.Wrapf(err, "os.MkdirAll failed, dir [%s]", options.Dir)
			}
		}
		driver := options.Driver
		if driver == "" {
			driver = "sqlite3"
		}
		e, err = engine.NewSQLEngineWithOptions(&engine.SQLOptions{
			Driver:   driver,
			Database: path,
			MaxConns: 1,
			MaxIdle:  1,
		})
		if err != nil {
			return nil, errors.WithMessage(err, "engine.NewSQLEngineWithOptions failed")
		}
	}

	db, err := NewWithEngine(e, name, options)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	db.path = path
	return db, nil
}

// NewWithEngine 使用已经打开的引擎，DB 关闭时同时关闭引擎
func NewWithEngine(e engine.Engine, name string, options *Options) (*DB, error) {
	if options == nil {
		options = &Options{}
	}

	l, err := log.NewLoggerWithOptions(options.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewLoggerWithOptions failed")
	}

	maxPending := options.MaxPending
	if maxPending <= 0 {
		maxPending = 1024
	}

	obs, err := newObserver(name, options, l)
	if err != nil {
		return nil, err
	}

	db := &DB{
		name:     name,
		path:     name,
		engine:   e,
		jobs:     make(chan *job, maxPending),
		sem:      fifo.NewSemaphore(maxPending),
		done:     make(chan struct{}),
		logger:   l,
		observer: obs,
	}
	go db.loop()
	return db, nil
}

func (db *DB) Name() string {
	return db.name
}

// Path 数据库文件路径
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Logger() logger.Logger {
	return db.logger
}

func (db *DB) loop() {
	defer close(db.done)
	for j := range db.jobs {
		result := db.observer.observe(j.op, j.sql, func(ctx context.Context) Result {
			return execute(ctx, j)
		})
		db.observer.dequeued()
		db.sem.Release(1)
		j.promise.Resolve(result)
	}
}

func execute(ctx context.Context, j *job) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failure(CodeContractViolation, fmt.Sprintf("panic: %v", r))
		}
	}()
	return j.run(ctx)
}

func (db *DB) submit(op string, sql string, run func(ctx context.Context) Result) *Future[Result] {
	p := NewPromise[Result]()

	if err := db.sem.Acquire(context.Background(), 1); err != nil {
		p.Resolve(Failure(engine.CodeError, err.Error()))
		return p.Future()
	}

	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.closed {
		db.sem.Release(1)
		p.Resolve(Failure(engine.CodeError, "database is closed"))
		return p.Future()
	}
	db.observer.enqueued()
	db.jobs <- &job{op: op, sql: sql, run: run, promise: p}
	return p.Future()
}

// UpdateWithoutTx 执行一条写语句，不开启事务
func (db *DB) UpdateWithoutTx(sql string, args ...any) *Future[Result] {
	return db.submit("update_without_tx", sql, func(ctx context.Context) Result {
		return exec(ctx, db.engine, sql, args)
	})
}

// Update 在一个事务中按顺序执行 batch，任意一条失败则整体回滚并返回该错误
func (db *DB) Update(batch []QueryArgs) *Future[Result] {
	return db.submit("update", batchSQL(batch), func(ctx context.Context) Result {
		return updateInTx(ctx, db.engine, batch)
	})
}

// Query 执行读语句，返回全部结果行
func (db *DB) Query(sql string, args ...any) *Future[Result] {
	return db.submit("query", sql, func(ctx context.Context) Result {
		return query(ctx, db.engine, sql, args)
	})
}

// TxBlock 在事务中执行 block
// block 返回 Error 或者 panic 时回滚，否则提交
// block 内只能通过 tx 访问数据库，调用 db 上的方法并等待结果会死锁
func (db *DB) TxBlock(block func(tx *Tx) Result) *Future[Result] {
	return db.submit("tx_block", "", func(ctx context.Context) Result {
		return runTxBlock(ctx, db.engine, block)
	})
}

// Do 在 worker 上执行一个不带事务的多步任务
func (db *DB) Do(fn func(s Session) Result) *Future[Result] {
	return db.submit("do", "", func(ctx context.Context) Result {
		return fn(&directSession{ctx: ctx, engine: db.engine})
	})
}

// Close 等待已提交的任务执行完成后关闭引擎，之后提交的任务直接返回错误
func (db *DB) Close() error {
	db.closeMu.Lock()
	defer db.closeMu.Unlock()

	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		return db.err
	}
	db.closed = true
	close(db.jobs)
	db.mu.Unlock()

	<-db.done
	if err := db.engine.Close(); err != nil {
		db.err = errors.Wrapf(err, "close %s failed", db.name)
	}
	return db.err
}

func batchSQL(batch []QueryArgs) string {
	if len(batch) == 0 {
		return ""
	}
	return batch[0].SQL
}
