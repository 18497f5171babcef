package aggregation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// AggregationType 聚合类型
type AggregationType string

const (
	AggTypeSum   AggregationType = "sum"
	AggTypeAvg   AggregationType = "avg"
	AggTypeMax   AggregationType = "max"
	AggTypeMin   AggregationType = "min"
	AggTypeCount AggregationType = "count"
	AggTypeTerms AggregationType = "terms"
)

// Aggregation 聚合接口
type Aggregation interface {
	Type() AggregationType
	Name() string

	// ToSQL 返回 SELECT 中的聚合表达式
	ToSQL() (string, error)
}

// Statement 生成聚合查询语句，where 为 query.Where 的结果
// 有 TermsAggregation 时只能有这一个聚合
func Statement(table string, where string, aggs []Aggregation) (string, error) {
	if len(aggs) == 0 {
		return "", errors.New("no aggregation")
	}

	var terms *TermsAggregation
	exprs := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		if t, ok := agg.(*TermsAggregation); ok {
			if len(aggs) != 1 {
				return "", errors.Errorf("terms aggregation [%s] must be the only aggregation", t.AggName)
			}
			terms = t
		}
		expr, err := agg.ToSQL()
		if err != nil {
			return "", errors.WithMessagef(err, "aggregation [%s]", agg.Name())
		}
		exprs = append(exprs, expr)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), table)
	if where != "" {
		sql += " " + where
	}
	if terms != nil {
		suffix, err := terms.suffix()
		if err != nil {
			return "", err
		}
		sql += " " + suffix
	}
	return sql, nil
}
