package aggregation

// SumAggregation 求和聚合
type SumAggregation struct {
	MetricAggregation
}

func (a *SumAggregation) Type() AggregationType {
	return AggTypeSum
}

func (a *SumAggregation) ToSQL() (string, error) {
	return a.expr("SUM", "")
}
