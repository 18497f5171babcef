package query

import (
	"regexp"
	"strings"

	"github.com/hatlonely/litedb/rdb/row"
	"github.com/pkg/errors"
)

// QueryType 查询类型
type QueryType string

const (
	QueryTypeBool     QueryType = "bool"
	QueryTypeTerm     QueryType = "term"
	QueryTypeTerms    QueryType = "terms"
	QueryTypeMatch    QueryType = "match"
	QueryTypeRange    QueryType = "range"
	QueryTypeExists   QueryType = "exists"
	QueryTypeWildcard QueryType = "wildcard"
	QueryTypePrefix   QueryType = "prefix"
)

// Query 查询条件，转换为带位置参数的 SQL 条件表达式
type Query interface {
	Type() QueryType
	ToSQL() (string, []any, error)
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Column 字段名只能是标识符，避免拼接到语句中的字段名带入其他 SQL
func Column(field string) (string, error) {
	if !identifier.MatchString(field) {
		return "", errors.Errorf("invalid field [%s]", field)
	}
	return field, nil
}

// arg row.Value 转换为驱动参数，其他值原样返回
func arg(v any) any {
	switch x := v.(type) {
	case row.Value:
		return x.Interface()
	case *row.Value:
		if x == nil {
			return nil
		}
		return x.Interface()
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where 转换为 Table.Select 使用的 WHERE 子句，q 为空时返回空字符串
func Where(q Query) (string, []any, error) {
	if q == nil {
		return "", nil, nil
	}
	sql, args, err := q.ToSQL()
	if err != nil {
		return "", nil, err
	}
	return "WHERE " + sql, args, nil
}
