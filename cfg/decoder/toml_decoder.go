package decoder

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/pkg/errors"
)

// TomlDecoder TOML 格式编解码器
type TomlDecoder struct {
	Indent string
}

func NewTomlDecoder() *TomlDecoder {
	return &TomlDecoder{Indent: "  "}
}

func (t *TomlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result map[string]any
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "toml.Unmarshal failed")
	}
	return storage.NewMapStorage(result), nil
}

func (t *TomlDecoder) Encode(s storage.Storage) ([]byte, error) {
	data, err := storageData(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = t.Indent
	if err := encoder.Encode(data); err != nil {
		return nil, errors.Wrap(err, "toml.Encode failed")
	}
	return buf.Bytes(), nil
}
