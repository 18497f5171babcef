package engine

import (
	"context"
	"database/sql"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// SQLOptions database/sql 引擎配置
// driver 支持 sqlite3 (mattn/go-sqlite3)、sqlite (modernc.org/sqlite) 和 mysql
type SQLOptions struct {
	Driver   string `cfg:"driver" def:"sqlite3" validate:"oneof=sqlite3 sqlite mysql"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     string `cfg:"port" def:"3306"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	Charset  string `cfg:"charset" def:"utf8mb4"`
	MaxConns int    `cfg:"maxConns" def:"1"`
	MaxIdle  int    `cfg:"maxIdle" def:"1"`
}

type SQLEngine struct {
	db     *sql.DB
	driver string
}

func NewSQLEngineWithOptions(options *SQLOptions) (*SQLEngine, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}

	dsn, err := buildDSN(options.Driver, options)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(options.Driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sql.Open failed, driver [%s]", options.Driver)
	}

	// 内存数据库的每个连接都是独立的库，只能使用一个连接
	maxConns, maxIdle := options.MaxConns, options.MaxIdle
	if maxConns <= 0 {
		maxConns = 1
	}
	if maxIdle <= 0 {
		maxIdle = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "db.Ping failed, driver [%s]", options.Driver)
	}

	return &SQLEngine{db: db, driver: options.Driver}, nil
}

func buildDSN(driver string, options *SQLOptions) (string, error) {
	if options.DSN != "" {
		return options.DSN, nil
	}
	switch driver {
	case "sqlite3", "sqlite":
		if options.Database == "" {
			return "", errors.New("database is required for sqlite")
		}
		return options.Database, nil
	case "mysql":
		return mysqlDSN(options), nil
	default:
		return "", errors.Errorf("unsupported driver: %s", driver)
	}
}

func mysqlDSN(options *SQLOptions) string {
	c := mysql.NewConfig()
	c.User = options.Username
	c.Passwd = options.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(options.Host, options.Port)
	c.DBName = options.Database
	c.ParseTime = true
	if options.Charset != "" {
		c.Params = map[string]string{"charset": options.Charset}
	}
	return c.FormatDSN()
}

func (e *SQLEngine) Driver() string {
	return e.driver
}

func (e *SQLEngine) Exec(ctx context.Context, query string, args ...any) error {
	_, err := e.db.ExecContext(ctx, query, args...)
	return err
}

func (e *SQLEngine) Query(ctx context.Context, query string, args ...any) (Cursor, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return newSQLCursor(rows)
}

func (e *SQLEngine) Begin(ctx context.Context) (Tx, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

func (e *SQLEngine) Close() error {
	return e.db.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (Cursor, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return newSQLCursor(rows)
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	return t.tx.Rollback()
}
