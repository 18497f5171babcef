package table

import (
	"testing"

	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/row"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseType(t *testing.T) {
	Convey("测试 ParseType", t, func() {
		for s, want := range map[string]Type{
			"INT":  Integer,
			"int":  Integer,
			"REAL": Real,
			"Text": Text,
			"BLOB": Blob,
			"bool": Bool,
		} {
			typ, ok := ParseType(s)
			So(ok, ShouldBeTrue)
			So(typ, ShouldEqual, want)
		}

		typ, ok := ParseType("VARCHAR(32)")
		So(ok, ShouldBeFalse)
		So(typ, ShouldEqual, Text)
	})
}

func TestTypeAccepts(t *testing.T) {
	Convey("测试字段类型匹配", t, func() {
		v, ok := Integer.accepts(row.Int(3))
		So(ok, ShouldBeTrue)
		So(v.Equal(row.Int(3)), ShouldBeTrue)

		_, ok = Integer.accepts(row.Text("3"))
		So(ok, ShouldBeFalse)

		v, ok = Real.accepts(row.Int(2))
		So(ok, ShouldBeTrue)
		So(v.Equal(row.Real(2)), ShouldBeTrue)

		v, ok = Bool.accepts(row.Int(1))
		So(ok, ShouldBeTrue)
		So(v.Equal(row.Bool(true)), ShouldBeTrue)

		_, ok = Bool.accepts(row.Int(2))
		So(ok, ShouldBeFalse)

		_, ok = Text.accepts(row.Null())
		So(ok, ShouldBeFalse)
	})
}

func TestTypeAffinity(t *testing.T) {
	Convey("测试列亲和性转换", t, func() {
		So(Integer.affinity(row.Text("5")).Equal(row.Int(5)), ShouldBeTrue)
		So(Integer.affinity(row.Real(5)).Equal(row.Int(5)), ShouldBeTrue)
		So(Integer.affinity(row.Text("a")).Equal(row.Text("a")), ShouldBeTrue)
		So(Integer.affinity(row.Real(1.5)).Equal(row.Real(1.5)), ShouldBeTrue)
		So(Real.affinity(row.Text("1.5")).Equal(row.Real(1.5)), ShouldBeTrue)
		So(Real.affinity(row.Int(2)).Equal(row.Real(2)), ShouldBeTrue)
		So(Text.affinity(row.Int(7)).Equal(row.Text("7")), ShouldBeTrue)
		So(Bool.affinity(row.Text("1")).Equal(row.Bool(true)), ShouldBeTrue)
	})
}

func TestField(t *testing.T) {
	Convey("测试 Field 和字典互转", t, func() {
		f := Field{Name: "ts", Type: Integer, Index: Indexed, Default: NonNull}
		So(f.ToMap(), ShouldResemble, map[string]any{"name": "ts", "type": "INT", "index": "index"})

		g := FieldFromMap(f.ToMap())
		So(g.Name, ShouldEqual, "ts")
		So(g.Type, ShouldEqual, Integer)
		So(g.Index, ShouldEqual, Indexed)

		Convey("pragma table_info 的结果行", func() {
			g := FieldFromMap(map[string]any{"cid": int64(0), "name": "id", "type": "TEXT", "notnull": int64(1), "pk": int64(1)})
			So(g.Index, ShouldEqual, PrimaryKey)
			So(g.Type, ShouldEqual, Text)

			g = FieldFromMap(map[string]any{"name": "meta", "type": "JSON", "pk": int64(0)})
			So(g.Index, ShouldEqual, NoIndex)
			So(g.Type, ShouldEqual, Text)
		})

		Convey("FieldsFromResult", func() {
			r := database.ItemsOf([]row.Row{f.toRow(), row.New("name", "id", "type", "TEXT", "index", "primaryKey")})
			fields := FieldsFromResult(r)
			So(fields, ShouldHaveLength, 2)
			So(fields[1].Index, ShouldEqual, PrimaryKey)

			So(FieldsFromResult(database.Failure(1, "no such table")), ShouldBeEmpty)
		})
	})

	Convey("测试 Default", t, func() {
		So(NoDefault.IsNone(), ShouldBeTrue)
		So(NonNull.IsNonNull(), ShouldBeTrue)

		d := DefaultValue(7)
		v, ok := d.Value()
		So(ok, ShouldBeTrue)
		So(v.Equal(row.Int(7)), ShouldBeTrue)
		So(d.String(), ShouldEqual, "Value(7)")

		_, ok = NonNull.Value()
		So(ok, ShouldBeFalse)
	})
}

func TestSchema(t *testing.T) {
	Convey("测试 Schema", t, func() {
		Convey("没有主键时补充 id 字段", func() {
			s := NewSchema([]Field{{Name: "v", Type: Text, Default: NonNull}})
			So(s.Names(), ShouldResemble, []string{"id", "v"})
			So(s.PrimaryKey().Name, ShouldEqual, "id")
			So(s.PrimaryKey().Type, ShouldEqual, Text)
		})

		Convey("非主键的 id 字段被替换", func() {
			s := NewSchema([]Field{
				{Name: "v", Type: Text, Default: NonNull},
				{Name: "id", Type: Integer, Default: NoDefault},
			})
			So(s.Names(), ShouldResemble, []string{"id", "v"})
			f, ok := s.Field("id")
			So(ok, ShouldBeTrue)
			So(f.Index, ShouldEqual, PrimaryKey)
			f, ok = s.Field("v")
			So(ok, ShouldBeTrue)
			So(f.Name, ShouldEqual, "v")
		})

		Convey("第一个主键生效，其余主键字段为 UNIQUE", func() {
			s := NewSchema([]Field{
				{Name: "k", Type: Integer, Index: PrimaryKey, Default: NonNull},
				{Name: "code", Type: Text, Index: PrimaryKey, Default: NoDefault},
				{Name: "name", Type: Text, Index: Unique, Default: DefaultValue("it's")},
				{Name: "ts", Type: Integer, Index: Indexed, Default: DefaultValue(0)},
				{Name: "ok", Type: Bool, Default: DefaultValue(true)},
			})
			So(s.PrimaryKey().Name, ShouldEqual, "k")
			So(s.createTableSQL("t"), ShouldEqual,
				"CREATE TABLE IF NOT EXISTS t (k INT PRIMARY KEY NOT NULL, code TEXT UNIQUE, name TEXT UNIQUE DEFAULT 'it''s', ts INT DEFAULT 0, ok BOOL DEFAULT 1);")
			So(s.createIndexSQLs("t"), ShouldResemble, []string{
				"CREATE UNIQUE INDEX IF NOT EXISTS t_name ON t(name);",
				"CREATE INDEX IF NOT EXISTS t_ts ON t(ts);",
			})
			So(s.insertSQL("t"), ShouldEqual, "INSERT INTO t (k, code, name, ts, ok) VALUES (?, ?, ?, ?, ?)")
		})

		Convey("重复的字段名只保留第一个", func() {
			s := NewSchema([]Field{
				{Name: "id", Type: Text, Index: PrimaryKey, Default: NonNull},
				{Name: "v", Type: Text},
				{Name: "v", Type: Integer},
			})
			So(s.Fields(), ShouldHaveLength, 2)
			f, _ := s.Field("v")
			So(f.Type, ShouldEqual, Text)
		})
	})
}
