package decoder

import (
	"path/filepath"
	"strings"

	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/hatlonely/litedb/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[*JsonDecoder](NewJsonDecoder)
	ref.MustRegisterT[*YamlDecoder](NewYamlDecoder)
	ref.MustRegisterT[*TomlDecoder](NewTomlDecoder)
	ref.MustRegisterT[*IniDecoder](NewIniDecoder)
}

// Decoder 配置数据编解码器接口
type Decoder interface {
	// Decode 将原始数据解码为存储对象
	Decode(data []byte) (storage.Storage, error)
	// Encode 将存储对象编码为原始数据
	Encode(s storage.Storage) ([]byte, error)
}

func NewDecoderWithOptions(options *ref.TypeOptions) (Decoder, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	decoder, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	d, ok := decoder.(Decoder)
	if !ok {
		return nil, errors.Errorf("%T is not a Decoder", decoder)
	}
	return d, nil
}

// ByExtension 按文件扩展名选择解码器
func ByExtension(path string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJsonDecoder(), nil
	case ".yaml", ".yml":
		return NewYamlDecoder(), nil
	case ".toml":
		return NewTomlDecoder(), nil
	case ".ini":
		return NewIniDecoder(), nil
	}
	return nil, errors.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

func storageData(s storage.Storage) (any, error) {
	if ms, ok := s.(*storage.MapStorage); ok {
		return ms.Data(), nil
	}
	var data any
	if err := s.ConvertTo(&data); err != nil {
		return nil, errors.WithMessage(err, "storage.ConvertTo failed")
	}
	return data, nil
}
