package aggregation

// MinAggregation 最小值聚合
type MinAggregation struct {
	MetricAggregation
}

func (a *MinAggregation) Type() AggregationType {
	return AggTypeMin
}

func (a *MinAggregation) ToSQL() (string, error) {
	return a.expr("MIN", "")
}
