package database

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	DefaultName = "hldb"
	MemoryName  = ":memory:"
)

// PathForDBFile 返回 dir/name.sqlite，内存数据库直接返回 ":memory:"
func PathForDBFile(dir string, name string) string {
	if name == MemoryName {
		return MemoryName
	}
	return filepath.Join(dir, name+".sqlite")
}

// DeleteDB 删除数据库文件，文件不存在时不报错
func DeleteDB(dir string, name string) error {
	if name == MemoryName {
		return nil
	}
	path := PathForDBFile(dir, name)
	for _, p := range []string{path, path + "-journal", path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "os.Remove failed, path [%s]", p)
		}
	}
	return nil
}
