package query

import (
	"fmt"
	"strings"
)

// RangeQuery 范围查询，未设置的边界被忽略
type RangeQuery struct {
	Field string `cfg:"field"`
	Gt    any    `cfg:"gt"`
	Gte   any    `cfg:"gte"`
	Lt    any    `cfg:"lt"`
	Lte   any    `cfg:"lte"`
}

func (q *RangeQuery) Type() QueryType {
	return QueryTypeRange
}

func (q *RangeQuery) ToSQL() (string, []any, error) {
	field, err := Column(q.Field)
	if err != nil {
		return "", nil, err
	}

	var conditions []string
	var args []any
	for _, bound := range []struct {
		op    string
		value any
	}{
		{">", q.Gt},
		{">=", q.Gte},
		{"<", q.Lt},
		{"<=", q.Lte},
	} {
		if v := arg(bound.value); v != nil {
			conditions = append(conditions, fmt.Sprintf("%s %s ?", field, bound.op))
			args = append(args, v)
		}
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}
