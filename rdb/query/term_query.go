package query

import (
	"fmt"
	"strings"
)

// TermQuery 精确匹配，Value 为 nil 时匹配 NULL
type TermQuery struct {
	Field string `cfg:"field"`
	Value any    `cfg:"value"`
}

func (q *TermQuery) Type() QueryType {
	return QueryTypeTerm
}

func (q *TermQuery) ToSQL() (string, []any, error) {
	field, err := Column(q.Field)
	if err != nil {
		return "", nil, err
	}
	v := arg(q.Value)
	if v == nil {
		return field + " IS NULL", nil, nil
	}
	return fmt.Sprintf("%s = ?", field), []any{v}, nil
}

// TermsQuery 匹配任意一个值，没有值时不匹配任何行
type TermsQuery struct {
	Field  string `cfg:"field"`
	Values []any  `cfg:"values"`
}

func (q *TermsQuery) Type() QueryType {
	return QueryTypeTerms
}

func (q *TermsQuery) ToSQL() (string, []any, error) {
	field, err := Column(q.Field)
	if err != nil {
		return "", nil, err
	}
	if len(q.Values) == 0 {
		return "1=0", nil, nil
	}
	args := make([]any, len(q.Values))
	for i, v := range q.Values {
		args[i] = arg(v)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	return fmt.Sprintf("%s IN (%s)", field, placeholders), args, nil
}
