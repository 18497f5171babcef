package row

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestValueOf(t *testing.T) {
	Convey("测试 ValueOf 类型转换", t, func() {
		So(ValueOf(nil).Kind(), ShouldEqual, KindNull)
		So(ValueOf(true).Kind(), ShouldEqual, KindBool)
		So(ValueOf(1).Kind(), ShouldEqual, KindInt)
		So(ValueOf(uint16(7)).Kind(), ShouldEqual, KindInt)
		So(ValueOf(1.5).Kind(), ShouldEqual, KindReal)
		So(ValueOf("x").Kind(), ShouldEqual, KindText)
		So(ValueOf([]byte("x")).Kind(), ShouldEqual, KindBlob)
		So(ValueOf(Int(3)).Equal(Int(3)), ShouldBeTrue)

		Convey("超出 int64 的无符号整数保存为文本", func() {
			So(ValueOf(uint64(math.MaxInt64)).Equal(Int(math.MaxInt64)), ShouldBeTrue)
			So(ValueOf(uint64(math.MaxUint64)).Equal(Text("18446744073709551615")), ShouldBeTrue)
			So(ValueOf(uint64(1)<<63).Equal(Text("9223372036854775808")), ShouldBeTrue)
		})

		Convey("嵌套结构编码为 JSON 文本", func() {
			v := ValueOf(map[string]any{"a": 1})
			s, ok := v.AsText()
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, `{"a":1}`)

			v = ValueOf([]string{"a", "b"})
			s, _ = v.AsText()
			So(s, ShouldEqual, `["a","b"]`)
		})
	})
}

func TestValueEqual(t *testing.T) {
	Convey("测试 Value 类型敏感的比较", t, func() {
		So(Int(1).Equal(Int(1)), ShouldBeTrue)
		So(Int(1).Equal(Text("1")), ShouldBeFalse)
		So(Int(1).Equal(Real(1)), ShouldBeFalse)
		So(Bool(true).Equal(Int(1)), ShouldBeFalse)
		So(Null().Equal(Null()), ShouldBeTrue)
		So(Null().Equal(Text("")), ShouldBeFalse)
		So(Blob([]byte("ab")).Equal(Blob([]byte("ab"))), ShouldBeTrue)
		So(Blob([]byte("ab")).Equal(Text("ab")), ShouldBeFalse)
	})
}

func TestRow(t *testing.T) {
	Convey("测试 Row 基本操作", t, func() {
		r := New("id", "a", "v", "x", "ts", 1)
		So(r.Len(), ShouldEqual, 3)
		So(r.Keys(), ShouldResemble, []string{"id", "v", "ts"})

		v, ok := r.Get("ts")
		So(ok, ShouldBeTrue)
		So(v.Equal(Int(1)), ShouldBeTrue)
		So(r.Value("ts").Equal(Int(1)), ShouldBeTrue)
		So(r.Value("missing").IsNull(), ShouldBeTrue)

		Convey("覆盖已有字段保持顺序", func() {
			r.Set("id", Text("b"))
			So(r.Keys(), ShouldResemble, []string{"id", "v", "ts"})
			v, _ := r.Get("id")
			So(v.String(), ShouldEqual, "b")
		})

		Convey("删除字段", func() {
			r.Delete("v")
			So(r.Has("v"), ShouldBeFalse)
			So(r.Keys(), ShouldResemble, []string{"id", "ts"})
		})

		Convey("Clone 互不影响", func() {
			c := r.Clone()
			c.Set("extra", Int(2))
			So(r.Has("extra"), ShouldBeFalse)
			So(c.Len(), ShouldEqual, 4)
		})

		Convey("复制后修改不影响原来的 Row", func() {
			b := r
			b.Set("extra", Text("y"))
			b.Set("id", Text("b"))
			So(r.Len(), ShouldEqual, 3)
			So(r.Has("extra"), ShouldBeFalse)
			So(r.Value("id").Equal(Text("a")), ShouldBeTrue)
			So(r.Equal(New("id", "a", "v", "x", "ts", 1)), ShouldBeTrue)

			c := r
			c.Delete("v")
			So(r.Has("v"), ShouldBeTrue)
			So(r.Keys(), ShouldResemble, []string{"id", "v", "ts"})
			So(c.Keys(), ShouldResemble, []string{"id", "ts"})
		})

		Convey("Map 与 JSON", func() {
			So(r.Map(), ShouldResemble, map[string]any{"id": "a", "v": "x", "ts": int64(1)})
			buf, err := r.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, `{"id":"a","v":"x","ts":1}`)
		})
	})
}

func TestRowEqual(t *testing.T) {
	Convey("测试 Row 相等性", t, func() {
		Convey("整数与字符串不相等", func() {
			So(New("n", 1).Equal(New("n", "1")), ShouldBeFalse)
		})

		Convey("字段集合相同且值相同则相等，与顺序无关", func() {
			a := New("a", 1, "b", "x")
			b := New("b", "x", "a", 1)
			So(a.Equal(b), ShouldBeTrue)
		})

		Convey("字段集合不同不相等", func() {
			So(New("a", 1).Equal(New("a", 1, "b", 2)), ShouldBeFalse)
			So(New("a", 1).Equal(New("b", 1)), ShouldBeFalse)
		})

		Convey("FromMap 按字段名排序", func() {
			r := FromMap(map[string]any{"b": 2, "a": 1})
			So(r.Keys(), ShouldResemble, []string{"a", "b"})
			So(r.Equal(New("a", 1, "b", 2)), ShouldBeTrue)
		})
	})
}
