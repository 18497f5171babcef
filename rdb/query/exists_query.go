package query

// ExistsQuery 字段不为 NULL
type ExistsQuery struct {
	Field string `cfg:"field"`
}

func (q *ExistsQuery) Type() QueryType {
	return QueryTypeExists
}

func (q *ExistsQuery) ToSQL() (string, []any, error) {
	field, err := Column(q.Field)
	if err != nil {
		return "", nil, err
	}
	return field + " IS NOT NULL", nil, nil
}
