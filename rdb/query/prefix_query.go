package query

import "fmt"

// PrefixQuery 前缀匹配，Value 中的 % 和 _ 按字面匹配
type PrefixQuery struct {
	Field string `cfg:"field"`
	Value string `cfg:"value"`
}

func (q *PrefixQuery) Type() QueryType {
	return QueryTypePrefix
}

func (q *PrefixQuery) ToSQL() (string, []any, error) {
	return like(q.Field, likeEscaper.Replace(q.Value)+"%")
}

func like(field string, pattern string) (string, []any, error) {
	field, err := Column(field)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, field), []any{pattern}, nil
}
