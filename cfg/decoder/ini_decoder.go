package decoder

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hatlonely/litedb/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// IniDecoder INI 格式编解码器
// 无 section 头的键放在顶层，每个 section 对应一层 map
type IniDecoder struct {
	AllowBoolKeys bool
}

func NewIniDecoder() *IniDecoder {
	return &IniDecoder{AllowBoolKeys: true}
}

func (i *IniDecoder) Decode(data []byte) (storage.Storage, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         i.AllowBoolKeys,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "ini.LoadSources failed")
	}

	result := map[string]any{}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				result[key.Name()] = parseIniValue(key.String())
			}
			continue
		}
		values := map[string]any{}
		for _, key := range section.Keys() {
			values[key.Name()] = parseIniValue(key.String())
		}
		result[section.Name()] = values
	}
	return storage.NewMapStorage(result), nil
}

func parseIniValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

func (i *IniDecoder) Encode(s storage.Storage) ([]byte, error) {
	data, err := storageData(s)
	if err != nil {
		return nil, err
	}
	m, ok := data.(map[string]any)
	if !ok {
		return nil, errors.Errorf("ini requires a map at top level, got %T", data)
	}

	file := ini.Empty()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sub, ok := m[k].(map[string]any)
		if !ok {
			if _, err := file.Section(ini.DefaultSection).NewKey(k, fmt.Sprint(m[k])); err != nil {
				return nil, errors.Wrapf(err, "NewKey %s failed", k)
			}
			continue
		}
		section, err := file.NewSection(k)
		if err != nil {
			return nil, errors.Wrapf(err, "NewSection %s failed", k)
		}
		for sk, sv := range sub {
			if _, err := section.NewKey(sk, fmt.Sprint(sv)); err != nil {
				return nil, errors.Wrapf(err, "NewKey %s.%s failed", k, sk)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "ini.WriteTo failed")
	}
	return buf.Bytes(), nil
}
