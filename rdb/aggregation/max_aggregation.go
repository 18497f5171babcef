package aggregation

// MaxAggregation 最大值聚合
type MaxAggregation struct {
	MetricAggregation
}

func (a *MaxAggregation) Type() AggregationType {
	return AggTypeMax
}

func (a *MaxAggregation) ToSQL() (string, error) {
	return a.expr("MAX", "")
}
