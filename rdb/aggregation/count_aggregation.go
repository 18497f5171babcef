package aggregation

// CountAggregation 计数聚合，Field 为空时统计行数，否则统计字段非 NULL 的行数
type CountAggregation struct {
	MetricAggregation
}

func (a *CountAggregation) Type() AggregationType {
	return AggTypeCount
}

func (a *CountAggregation) ToSQL() (string, error) {
	return a.expr("COUNT", "*")
}
