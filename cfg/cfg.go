package cfg

import (
	"os"

	"github.com/hatlonely/litedb/cfg/decoder"
	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/pkg/errors"
)

// NewStorageFromFile 读取配置文件，按扩展名选择解码器
func NewStorageFromFile(path string) (storage.Storage, error) {
	d, err := decoder.ByExtension(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "os.ReadFile failed, path [%s]", path)
	}
	s, err := d.Decode(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode %s failed", path)
	}
	return s, nil
}

// Load 把整个配置文件转换到 object
func Load(path string, object any) error {
	return LoadSub(path, "", object)
}

// LoadSub 把配置文件中 key 对应的部分转换到 object，key 为空表示整个文件
func LoadSub(path string, key string, object any) error {
	s, err := NewStorageFromFile(path)
	if err != nil {
		return err
	}
	if err := s.Sub(key).ConvertTo(object); err != nil {
		return errors.WithMessagef(err, "convert %s[%s] failed", path, key)
	}
	return nil
}
