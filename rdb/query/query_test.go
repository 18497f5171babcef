package query

import (
	"testing"

	"github.com/hatlonely/litedb/rdb/row"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLeafQuery(t *testing.T) {
	Convey("测试单字段查询", t, func() {
		for _, c := range []struct {
			name  string
			query Query
			sql   string
			args  []any
		}{
			{"TermQuery", &TermQuery{Field: "status", Value: "active"}, "status = ?", []any{"active"}},
			{"TermQuery row.Value", &TermQuery{Field: "age", Value: row.Int(25)}, "age = ?", []any{int64(25)}},
			{"TermQuery nil", &TermQuery{Field: "deleted_at"}, "deleted_at IS NULL", nil},
			{"TermsQuery", &TermsQuery{Field: "id", Values: []any{"a", "b"}}, "id IN (?, ?)", []any{"a", "b"}},
			{"TermsQuery 空", &TermsQuery{Field: "id"}, "1=0", nil},
			{"RangeQuery", &RangeQuery{Field: "ts", Gte: 1, Lt: 10}, "ts >= ? AND ts < ?", []any{1, 10}},
			{"RangeQuery 空", &RangeQuery{Field: "ts"}, "1=1", nil},
			{"ExistsQuery", &ExistsQuery{Field: "email"}, "email IS NOT NULL", nil},
			{"PrefixQuery", &PrefixQuery{Field: "name", Value: "10%_"}, `name LIKE ? ESCAPE '\'`, []any{`10\%\_%`}},
			{"WildcardQuery", &WildcardQuery{Field: "name", Value: "a*b?"}, `name LIKE ? ESCAPE '\'`, []any{"a%b_"}},
			{"MatchQuery", &MatchQuery{Field: "body", Value: 42}, `body LIKE ? ESCAPE '\'`, []any{"%42%"}},
		} {
			Convey(c.name, func() {
				sql, args, err := c.query.ToSQL()
				So(err, ShouldBeNil)
				So(sql, ShouldEqual, c.sql)
				So(args, ShouldResemble, c.args)
			})
		}

		Convey("非法的字段名", func() {
			for _, q := range []Query{
				&TermQuery{Field: "a; DROP TABLE t"},
				&TermsQuery{Field: "", Values: []any{1}},
				&RangeQuery{Field: "1a", Gt: 1},
				&ExistsQuery{Field: "a b"},
				&PrefixQuery{Field: "a'"},
			} {
				_, _, err := q.ToSQL()
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestBoolQuery(t *testing.T) {
	Convey("测试 BoolQuery", t, func() {
		Convey("空查询", func() {
			sql, args, err := (&BoolQuery{}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "1=1")
			So(args, ShouldBeNil)
		})

		Convey("组合查询", func() {
			q := &BoolQuery{
				Must:    []Query{&TermQuery{Field: "status", Value: "active"}},
				Filter:  []Query{&RangeQuery{Field: "age", Gte: 18}},
				Should:  []Query{&TermQuery{Field: "a", Value: 1}, &TermQuery{Field: "b", Value: 2}},
				MustNot: []Query{&ExistsQuery{Field: "deleted_at"}},
			}
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "(status = ?) AND (age >= ?) AND (a = ? OR b = ?) AND (NOT (deleted_at IS NOT NULL))")
			So(args, ShouldResemble, []any{"active", 18, 1, 2})
		})

		Convey("MinShouldMatch", func() {
			n := 2
			q := &BoolQuery{
				Should:         []Query{&TermQuery{Field: "a", Value: 1}, &TermQuery{Field: "b", Value: 2}, &TermQuery{Field: "c", Value: 3}},
				MinShouldMatch: &n,
			}
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "(CASE WHEN (a = ?) THEN 1 ELSE 0 END + CASE WHEN (b = ?) THEN 1 ELSE 0 END + CASE WHEN (c = ?) THEN 1 ELSE 0 END) >= 2")
			So(args, ShouldResemble, []any{1, 2, 3})
		})

		Convey("子查询出错", func() {
			_, _, err := (&BoolQuery{Should: []Query{&TermQuery{Field: "-"}}}).ToSQL()
			So(err, ShouldNotBeNil)
		})
	})
}

func TestWhere(t *testing.T) {
	Convey("测试 Where", t, func() {
		where, args, err := Where(nil)
		So(err, ShouldBeNil)
		So(where, ShouldEqual, "")
		So(args, ShouldBeNil)

		where, args, err = Where(&TermQuery{Field: "id", Value: "a"})
		So(err, ShouldBeNil)
		So(where, ShouldEqual, "WHERE id = ?")
		So(args, ShouldResemble, []any{"a"})

		_, _, err = Where(&ExistsQuery{Field: "?"})
		So(err, ShouldNotBeNil)
	})
}
