package aggregation

import (
	"github.com/hatlonely/litedb/rdb/row"
)

// Bucket 一个分组的聚合结果
// 整表聚合时只有一个 Bucket，Key 为空
type Bucket struct {
	Key      row.Row
	DocCount int64
	Values   row.Row
}

// Value 数值结果，NULL（例如空表上的 SUM）和非数值返回 0
func (b Bucket) Value(name string) float64 {
	v := b.Values.Value(name)
	if f, ok := v.AsReal(); ok {
		return f
	}
	if i, ok := v.AsInt(); ok {
		return float64(i)
	}
	return 0
}

func (b Bucket) Count(name string) int64 {
	if i, ok := b.Values.Value(name).AsInt(); ok {
		return i
	}
	return 0
}

// Result 聚合结果
type Result struct {
	Buckets []Bucket
}

// NewResult 把聚合查询返回的行转换为分组结果
func NewResult(aggs []Aggregation, rows []row.Row) *Result {
	var terms *TermsAggregation
	if len(aggs) == 1 {
		terms, _ = aggs[0].(*TermsAggregation)
	}

	r := &Result{Buckets: make([]Bucket, 0, len(rows))}
	for _, item := range rows {
		if terms == nil {
			r.Buckets = append(r.Buckets, Bucket{Key: row.New(), Values: item})
			continue
		}

		b := Bucket{Key: row.New(), Values: item.Clone()}
		for _, field := range terms.Fields {
			b.Key.Set(field, item.Value(field))
			b.Values.Delete(field)
		}
		b.DocCount, _ = item.Value(DocCount).AsInt()
		b.Values.Delete(DocCount)
		r.Buckets = append(r.Buckets, b)
	}
	return r
}

// GetValue 整表聚合的数值结果
func (r *Result) GetValue(name string) float64 {
	if len(r.Buckets) == 0 {
		return 0
	}
	return r.Buckets[0].Value(name)
}

func (r *Result) GetCount(name string) int64 {
	if len(r.Buckets) == 0 {
		return 0
	}
	return r.Buckets[0].Count(name)
}
