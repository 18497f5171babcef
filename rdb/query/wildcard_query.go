package query

import "strings"

// WildcardQuery 通配符匹配，* 匹配任意数量字符，? 匹配单个字符
type WildcardQuery struct {
	Field string `cfg:"field"`
	Value string `cfg:"value"`
}

func (q *WildcardQuery) Type() QueryType {
	return QueryTypeWildcard
}

func (q *WildcardQuery) ToSQL() (string, []any, error) {
	pattern := likeEscaper.Replace(q.Value)
	pattern = strings.ReplaceAll(pattern, "*", "%")
	pattern = strings.ReplaceAll(pattern, "?", "_")
	return like(q.Field, pattern)
}
