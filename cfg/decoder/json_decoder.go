package decoder

import (
	"encoding/json"

	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/pkg/errors"
)

// JsonDecoder JSON 格式编解码器
type JsonDecoder struct {
	Indent string
}

func NewJsonDecoder() *JsonDecoder {
	return &JsonDecoder{Indent: "  "}
}

func (j *JsonDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "json.Unmarshal failed")
	}
	return storage.NewMapStorage(result), nil
}

func (j *JsonDecoder) Encode(s storage.Storage) ([]byte, error) {
	data, err := storageData(s)
	if err != nil {
		return nil, err
	}
	buf, err := json.MarshalIndent(data, "", j.Indent)
	if err != nil {
		return nil, errors.Wrap(err, "json.MarshalIndent failed")
	}
	return buf, nil
}
