package query

import (
	"fmt"
	"strings"
)

// BoolQuery 布尔组合
// Must 和 Filter 全部满足，Should 至少满足 MinShouldMatch 个（默认 1 个），MustNot 都不满足
type BoolQuery struct {
	Must           []Query
	Should         []Query
	MustNot        []Query
	Filter         []Query
	MinShouldMatch *int
}

func (q *BoolQuery) Type() QueryType {
	return QueryTypeBool
}

func toSQLs(queries []Query) ([]string, []any, error) {
	conditions := make([]string, 0, len(queries))
	var args []any
	for _, query := range queries {
		sql, queryArgs, err := query.ToSQL()
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, sql)
		args = append(args, queryArgs...)
	}
	return conditions, args, nil
}

func (q *BoolQuery) ToSQL() (string, []any, error) {
	var conditions []string
	var args []any

	for _, group := range [][]Query{q.Must, q.Filter} {
		if len(group) == 0 {
			continue
		}
		sqls, groupArgs, err := toSQLs(group)
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, groupArgs...)
	}

	if len(q.Should) > 0 {
		sqls, shouldArgs, err := toSQLs(q.Should)
		if err != nil {
			return "", nil, err
		}
		// MinShouldMatch 不为 1 时按满足的条件个数计数
		if q.MinShouldMatch != nil && *q.MinShouldMatch != 1 {
			cases := make([]string, len(sqls))
			for i, sql := range sqls {
				cases[i] = fmt.Sprintf("CASE WHEN (%s) THEN 1 ELSE 0 END", sql)
			}
			conditions = append(conditions, fmt.Sprintf("(%s) >= %d", strings.Join(cases, " + "), *q.MinShouldMatch))
		} else {
			conditions = append(conditions, "("+strings.Join(sqls, " OR ")+")")
		}
		args = append(args, shouldArgs...)
	}

	if len(q.MustNot) > 0 {
		sqls, mustNotArgs, err := toSQLs(q.MustNot)
		if err != nil {
			return "", nil, err
		}
		for i, sql := range sqls {
			sqls[i] = "NOT (" + sql + ")"
		}
		conditions = append(conditions, "("+strings.Join(sqls, " AND ")+")")
		args = append(args, mustNotArgs...)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}
