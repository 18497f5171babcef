package engine

import (
	"context"

	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormOptions gorm 引擎配置
// 只使用 gorm 的原生 SQL 能力 (Exec/Raw/Begin)，不使用模型映射
type GormOptions struct {
	Dialect  string `cfg:"dialect" def:"sqlite" validate:"oneof=sqlite mysql"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     string `cfg:"port" def:"3306"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	Charset  string `cfg:"charset" def:"utf8mb4"`
}

type GormEngine struct {
	db *gorm.DB
}

func NewGormEngineWithOptions(options *GormOptions) (*GormEngine, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}

	var dialector gorm.Dialector
	switch options.Dialect {
	case "sqlite", "":
		dsn := options.DSN
		if dsn == "" {
			dsn = options.Database
		}
		if dsn == "" {
			return nil, errors.New("database is required for sqlite")
		}
		dialector = gormsqlite.Open(dsn)
	case "mysql":
		dsn := options.DSN
		if dsn == "" {
			dsn = mysqlDSN(&SQLOptions{
				Host:     options.Host,
				Port:     options.Port,
				Database: options.Database,
				Username: options.Username,
				Password: options.Password,
				Charset:  options.Charset,
			})
		}
		dialector = gormmysql.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported dialect: %s", options.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "gorm.Open failed, dialect [%s]", options.Dialect)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "db.DB failed")
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &GormEngine{db: db}, nil
}

func (e *GormEngine) Exec(ctx context.Context, query string, args ...any) error {
	return gormExec(e.db.WithContext(ctx), query, args)
}

func (e *GormEngine) Query(ctx context.Context, query string, args ...any) (Cursor, error) {
	return gormQuery(e.db.WithContext(ctx), query, args)
}

func (e *GormEngine) Begin(ctx context.Context) (Tx, error) {
	tx := e.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTx{tx: tx}, nil
}

func (e *GormEngine) Close() error {
	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Exec(ctx context.Context, query string, args ...any) error {
	return gormExec(t.tx.WithContext(ctx), query, args)
}

func (t *gormTx) Query(ctx context.Context, query string, args ...any) (Cursor, error) {
	return gormQuery(t.tx.WithContext(ctx), query, args)
}

func (t *gormTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTx) Rollback() error {
	return t.tx.Rollback().Error
}

func gormExec(db *gorm.DB, query string, args []any) error {
	return db.Exec(query, args...).Error
}

func gormQuery(db *gorm.DB, query string, args []any) (Cursor, error) {
	rows, err := db.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	return newSQLCursor(rows)
}
