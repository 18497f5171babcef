package rdb

import (
	"github.com/hatlonely/litedb/cfg"
	"github.com/hatlonely/litedb/cfg/def"
	"github.com/hatlonely/litedb/cfg/validator"
	"github.com/hatlonely/litedb/log/logger"
	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/model"
	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

type Options struct {
	Database database.Options `cfg:"database"`
	// Logger database.logger 未设置时使用
	Logger *logger.SLogOptions `cfg:"logger"`
}

// NewWithOptions 打开数据库并返回表的注册中心
func NewWithOptions(options *Options) (*model.Model, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	if err := def.SetDefaults(options); err != nil {
		return nil, errors.WithMessage(err, "def.SetDefaults failed")
	}
	if err := validator.ValidateStruct(options); err != nil {
		return nil, errors.WithMessage(err, "validator.ValidateStruct failed")
	}

	dbOptions := options.Database
	if dbOptions.Logger == nil && options.Logger != nil {
		dbOptions.Logger = &ref.TypeOptions{Type: "SLog", Options: options.Logger}
	}
	db, err := database.NewWithOptions(&dbOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "database.NewWithOptions failed")
	}
	return model.New(db, db.Logger()), nil
}

// NewWithConfigFile 从配置文件中 key 对应的部分加载 Options，key 为空表示整个文件
func NewWithConfigFile(path string, key string) (*model.Model, error) {
	var options Options
	if err := cfg.LoadSub(path, key, &options); err != nil {
		return nil, errors.WithMessage(err, "cfg.LoadSub failed")
	}
	return NewWithOptions(&options)
}
