package entity

import (
	"math"
	"testing"

	"github.com/hatlonely/litedb/rdb/row"
	. "github.com/smartystreets/goconvey/convey"
)

type todo struct {
	Base

	ID    string
	Title string
	Done  bool
	Rank  int64
}

func newTodo(fields Fields) *todo {
	b := NewBase(fields)
	return &todo{
		Base:  b,
		ID:    b.String("id", ""),
		Title: b.String("title", ""),
		Done:  b.Bool("done", false),
		Rank:  b.Int64("rank", 0),
	}
}

func (t *todo) ToFields() Fields {
	return Fields{"id": t.ID, "title": t.Title, "done": t.Done, "rank": t.Rank}
}

type storedTodo struct {
	*todo
}

func (t storedTodo) ToRowFields() Fields {
	fields := t.ToFields()
	fields["md5"] = MD5(t.todo)
	return fields
}

func TestRoundTrip(t *testing.T) {
	Convey("测试实体和字段互转", t, func() {
		e := &todo{ID: "a", Title: "write tests", Done: true, Rank: 3}
		So(newTodo(e.ToFields()).ToFields(), ShouldResemble, e.ToFields())

		Convey("从数据库读出的行", func() {
			r := ToRow(e)
			So(r.Equal(row.New("id", "a", "title", "write tests", "done", true, "rank", 3)), ShouldBeTrue)
			So(newTodo(r.Map()).ToFields(), ShouldResemble, e.ToFields())
		})

		Convey("从 JSON 构造", func() {
			b := NewBaseFromJSON(ToJSON(e))
			So(newTodo(b.OriginalFields()).ToFields(), ShouldResemble, e.ToFields())
		})
	})
}

func TestBase(t *testing.T) {
	Convey("测试 Base 访问方法", t, func() {
		b := NewBaseFromJSON(`{"n": 1, "f": 1.5, "s": "x", "b": true, "bs": "1", "bi": 0, "arr": "[1, 2]", "list": ["a"], "dict": {"k": "v"}, "ds": "{\"k\": 2}"}`)

		So(b.Int("n", 0), ShouldEqual, 1)
		So(b.Int64("n", 0), ShouldEqual, int64(1))
		So(b.Double("f", 0), ShouldEqual, 1.5)
		So(b.Float("f", 0), ShouldEqual, float32(1.5))
		So(b.Double("n", 0), ShouldEqual, 1.0)
		So(b.Int("f", 9), ShouldEqual, 9)
		So(b.String("s", ""), ShouldEqual, "x")
		So(b.String("n", "d"), ShouldEqual, "d")
		So(b.Bool("b", false), ShouldBeTrue)
		So(b.Bool("bs", false), ShouldBeTrue)
		So(b.Bool("bi", true), ShouldBeFalse)
		So(b.Bool("missing", true), ShouldBeTrue)

		So(b.Array("arr", nil), ShouldHaveLength, 2)
		So(b.Array("list", nil), ShouldResemble, []any{"a"})
		So(b.Array("s", []any{"def"}), ShouldResemble, []any{"def"})
		So(b.Dict("dict", nil), ShouldResemble, map[string]any{"k": "v"})
		So(b.Dict("ds", nil), ShouldContainKey, "k")
		So(b.Dict("missing", map[string]any{}), ShouldBeEmpty)

		v, ok := b.Value("s")
		So(ok, ShouldBeTrue)
		So(v, ShouldEqual, "x")
		_, ok = b.Value("missing")
		So(ok, ShouldBeFalse)

		Convey("非法的 JSON 得到空字段", func() {
			So(NewBaseFromJSON("{").OriginalFields(), ShouldBeEmpty)
			So(NewBaseFromJSON("[1]").OriginalFields(), ShouldBeEmpty)
		})

		Convey("修改构造参数不影响 Base", func() {
			fields := Fields{"k": "v"}
			b := NewBase(fields)
			fields["k"] = "changed"
			So(b.String("k", ""), ShouldEqual, "v")

			b.OriginalFields()["k"] = "changed"
			So(b.String("k", ""), ShouldEqual, "v")
		})

		Convey("超出 int64 的 uint64 使用默认值", func() {
			b := NewBase(Fields{"big": uint64(math.MaxUint64), "small": uint64(7)})
			So(b.Int64("big", -1), ShouldEqual, int64(-1))
			So(b.Int64("small", 0), ShouldEqual, int64(7))
		})

		Convey("从 Row 构造", func() {
			b := NewBaseFromRow(row.New("id", "a", "n", 2, "ok", true))
			So(b.Int("n", 0), ShouldEqual, 2)
			So(b.Bool("ok", false), ShouldBeTrue)
		})
	})
}

func TestSerialization(t *testing.T) {
	Convey("测试序列化", t, func() {
		b := NewBase(Fields{"b": "<x>", "a": 1})
		So(ToJSON(b), ShouldEqual, `{"a":1,"b":"\u003cx\u003e"}`)
		So(RawString(b), ShouldEqual, `{"a":1,"b":"<x>"}`)
		So(string(Data(b)), ShouldEqual, ToJSON(b))

		sum := MD5(b)
		So(sum, ShouldHaveLength, 32)
		So(MD5(NewBase(Fields{"a": 1, "b": "<x>"})), ShouldEqual, sum)
		So(MD5(NewBase(Fields{"a": 2, "b": "<x>"})), ShouldNotEqual, sum)

		Convey("ToRow 优先使用 ToRowFields", func() {
			e := storedTodo{&todo{ID: "a", Title: "t"}}
			r := ToRow(e)
			So(r.Has("md5"), ShouldBeTrue)
			So(r.Value("md5").Equal(row.Text(MD5(e.todo))), ShouldBeTrue)
			So(ToRow(e.todo).Has("md5"), ShouldBeFalse)
		})
	})
}
