package decoder

import (
	"bytes"

	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YamlDecoder YAML 格式编解码器
type YamlDecoder struct {
	Indent int
}

func NewYamlDecoder() *YamlDecoder {
	return &YamlDecoder{Indent: 2}
}

func (y *YamlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "yaml.Unmarshal failed")
	}
	return storage.NewMapStorage(result), nil
}

func (y *YamlDecoder) Encode(s storage.Storage) ([]byte, error) {
	data, err := storageData(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(y.Indent)
	if err := encoder.Encode(data); err != nil {
		return nil, errors.Wrap(err, "yaml.Encode failed")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "yaml.Encoder.Close failed")
	}
	return buf.Bytes(), nil
}
