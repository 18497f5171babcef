package rdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hatlonely/litedb/log/logger"
	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/model"
	"github.com/hatlonely/litedb/rdb/row"
	. "github.com/smartystreets/goconvey/convey"
)

var noteFields = []map[string]any{
	{"name": "id", "type": "TEXT", "index": "primaryKey"},
	{"name": "body", "type": "TEXT", "index": "none"},
}

func TestNewWithOptions(t *testing.T) {
	Convey("测试 NewWithOptions", t, func() {
		dir := t.TempDir()
		m, err := NewWithOptions(&Options{
			Database: database.Options{Dir: dir},
			Logger:   &logger.SLogOptions{Format: "json"},
		})
		So(err, ShouldBeNil)
		defer m.Close()

		So(m.DB().Name(), ShouldEqual, database.DefaultName)
		So(m.DB().Path(), ShouldEqual, filepath.Join(dir, "hldb.sqlite"))

		fields, err := model.ArrayToFields(noteFields)
		So(err, ShouldBeNil)
		notes := m.GetTable("notes", fields)
		So(notes.Upsert([]row.Row{row.New("id", "a", "body", "x")}).Get().IsSuccess(), ShouldBeTrue)
		So(notes.Select("").Get().Items, ShouldHaveLength, 1)

		Convey("非法的配置", func() {
			_, err := NewWithOptions(nil)
			So(err, ShouldNotBeNil)

			_, err = NewWithOptions(&Options{Database: database.Options{Dir: dir, Driver: "postgres"}})
			So(err, ShouldNotBeNil)

			_, err = NewWithOptions(&Options{Database: database.Options{Dir: dir}, Logger: &logger.SLogOptions{Format: "xml"}})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewWithConfigFile(t *testing.T) {
	Convey("测试 NewWithConfigFile", t, func() {
		dir := t.TempDir()
		logPath := filepath.Join(dir, "litedb.log")
		path := filepath.Join(dir, "app.yaml")
		So(os.WriteFile(path, []byte(`
litedb:
  database:
    dir: `+filepath.Join(dir, "data")+`
    name: app
    maxPending: 16
  logger:
    format: json
    output:
      type: FileWriter
      options:
        path: `+logPath+`
`), 0644), ShouldBeNil)

		m, err := NewWithConfigFile(path, "litedb")
		So(err, ShouldBeNil)
		So(m.DB().Name(), ShouldEqual, "app")
		So(m.DB().Path(), ShouldEqual, filepath.Join(dir, "data", "app.sqlite"))

		fields, err := model.ArrayToFields(noteFields)
		So(err, ShouldBeNil)
		notes := m.GetTable("notes", fields)
		So(notes.Insert([]row.Row{row.New("id", "a", "body", "x")}).Get().IsSuccess(), ShouldBeTrue)
		So(notes.Insert([]row.Row{row.New("id", "a", "body", "y")}).Get().IsError(), ShouldBeTrue)
		So(m.Close(), ShouldBeNil)

		buf, err := os.ReadFile(logPath)
		So(err, ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
		So(lines, ShouldHaveLength, 1)

		var entry map[string]any
		So(json.Unmarshal([]byte(lines[0]), &entry), ShouldBeNil)
		So(entry["msg"], ShouldEqual, "db update failed")

		Convey("配置文件不存在", func() {
			_, err := NewWithConfigFile(filepath.Join(dir, "missing.yaml"), "")
			So(err, ShouldNotBeNil)
		})
	})
}
