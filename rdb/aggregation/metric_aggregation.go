package aggregation

import (
	"fmt"

	"github.com/hatlonely/litedb/rdb/query"
)

// MetricAggregation 指标聚合基础结构
type MetricAggregation struct {
	AggName string `cfg:"name" validate:"required"`
	Field   string `cfg:"field"`
}

func (m *MetricAggregation) Name() string {
	return m.AggName
}

// expr fn(Field) AS AggName，Field 为空时使用 empty
func (m *MetricAggregation) expr(fn string, empty string) (string, error) {
	name, err := query.Column(m.AggName)
	if err != nil {
		return "", err
	}
	arg := empty
	if m.Field != "" || empty == "" {
		if arg, err = query.Column(m.Field); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%s(%s) AS %s", fn, arg, name), nil
}
