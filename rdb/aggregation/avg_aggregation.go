package aggregation

// AvgAggregation 平均值聚合
type AvgAggregation struct {
	MetricAggregation
}

func (a *AvgAggregation) Type() AggregationType {
	return AggTypeAvg
}

func (a *AvgAggregation) ToSQL() (string, error) {
	return a.expr("AVG", "")
}
