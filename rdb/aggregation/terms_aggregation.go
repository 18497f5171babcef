package aggregation

import (
	"fmt"
	"strings"

	"github.com/hatlonely/litedb/rdb/query"
	"github.com/pkg/errors"
)

// DocCount 每个分组的行数列名
const DocCount = "doc_count"

// Order 排序，Key 为分组字段、子聚合名或 DocCount
type Order struct {
	Key  string `cfg:"key"`
	Desc bool   `cfg:"desc"`
}

// TermsAggregation 按 Fields 分组，每组计算行数和 SubAggregations
type TermsAggregation struct {
	AggName         string
	Fields          []string
	SubAggregations []Aggregation
	Order           []Order
	// Size 大于 0 时只返回前 Size 个分组
	Size int
}

func (a *TermsAggregation) Type() AggregationType {
	return AggTypeTerms
}

func (a *TermsAggregation) Name() string {
	return a.AggName
}

func (a *TermsAggregation) ToSQL() (string, error) {
	if len(a.Fields) == 0 {
		return "", errors.New("terms aggregation without fields")
	}
	exprs := make([]string, 0, len(a.Fields)+len(a.SubAggregations)+1)
	for _, field := range a.Fields {
		f, err := query.Column(field)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, f)
	}
	exprs = append(exprs, "COUNT(*) AS "+DocCount)
	for _, sub := range a.SubAggregations {
		if _, ok := sub.(*TermsAggregation); ok {
			return "", errors.Errorf("nested terms aggregation [%s]", sub.Name())
		}
		expr, err := sub.ToSQL()
		if err != nil {
			return "", errors.WithMessagef(err, "sub aggregation [%s]", sub.Name())
		}
		exprs = append(exprs, expr)
	}
	return strings.Join(exprs, ", "), nil
}

// suffix GROUP BY, ORDER BY 和 LIMIT 子句
func (a *TermsAggregation) suffix() (string, error) {
	sql := "GROUP BY " + strings.Join(a.Fields, ", ")

	if len(a.Order) > 0 {
		orders := make([]string, 0, len(a.Order))
		for _, o := range a.Order {
			key, err := query.Column(o.Key)
			if err != nil {
				return "", err
			}
			if o.Desc {
				key += " DESC"
			}
			orders = append(orders, key)
		}
		sql += " ORDER BY " + strings.Join(orders, ", ")
	}

	if a.Size > 0 {
		sql += fmt.Sprintf(" LIMIT %d", a.Size)
	}
	return sql, nil
}
