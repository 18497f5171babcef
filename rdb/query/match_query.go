package query

import "fmt"

// MatchQuery 包含匹配，sqlite 的 LIKE 对 ASCII 字符不区分大小写
type MatchQuery struct {
	Field string `cfg:"field"`
	Value any    `cfg:"value"`
}

func (q *MatchQuery) Type() QueryType {
	return QueryTypeMatch
}

func (q *MatchQuery) ToSQL() (string, []any, error) {
	return like(q.Field, "%"+likeEscaper.Replace(fmt.Sprintf("%v", arg(q.Value)))+"%")
}
