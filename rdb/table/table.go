package table

import (
	"fmt"
	"strings"

	"github.com/hatlonely/litedb/rdb/aggregation"
	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/query"
	"github.com/hatlonely/litedb/rdb/row"
	"github.com/hatlonely/litedb/uid/intgen"
	"github.com/hatlonely/litedb/uid/strgen"
)

// MessageMissingPrimaryKey 更新或删除的行缺少主键
const MessageMissingPrimaryKey = "Cannot update without primary key!"

// blobPlaceholder 插入时 BLOB 列绑定的占位值
const blobPlaceholder = "NOBLOBS"

type Option func(t *Table)

// WithStrKeys Insert 时为缺少主键的行生成字符串主键
func WithStrKeys(g strgen.StrGenerator) Option {
	return func(t *Table) {
		t.strKeys = g
	}
}

// WithIntKeys Insert 时为缺少主键的行生成整数主键
func WithIntKeys(g intgen.IntGenerator) Option {
	return func(t *Table) {
		t.intKeys = g
	}
}

// Table 绑定到 DB 的一张表，所有操作都通过 DB 的 worker 执行
type Table struct {
	db     *database.DB
	name   string
	schema *Schema

	insertSQL string
	strKeys   strgen.StrGenerator
	intKeys   intgen.IntGenerator
}

func New(db *database.DB, name string, fields []Field, opts ...Option) *Table {
	t := &Table{
		db:     db,
		name:   name,
		schema: NewSchema(fields),
	}
	t.insertSQL = t.schema.insertSQL(name)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) DB() *database.DB {
	return t.db
}

// Definition 表的字段定义
func (t *Table) Definition() *Schema {
	return t.schema
}

func (t *Table) PrimaryKey() string {
	return t.schema.primaryKey
}

// Create 建表，成功后再为 Unique 和 Indexed 字段建索引，可重复调用
func (t *Table) Create() *database.Future[database.Result] {
	return t.db.Do(t.create)
}

func (t *Table) create(s database.Session) database.Result {
	if r := s.Exec(t.schema.createTableSQL(t.name)); r.IsError() {
		return r
	}
	for _, statement := range t.schema.createIndexSQLs(t.name) {
		if r := s.Exec(statement); r.IsError() {
			return r
		}
	}
	return database.Success()
}

func (t *Table) Drop() *database.Future[database.Result] {
	return t.db.UpdateWithoutTx(t.dropSQL())
}

func (t *Table) dropSQL() string {
	return "DROP TABLE " + t.name
}

// DropAndCreate 删除后重新建表，忽略删除的结果，返回建表的结果
func (t *Table) DropAndCreate() *database.Future[database.Result] {
	return t.db.Do(func(s database.Session) database.Result {
		s.Exec(t.dropSQL())
		return t.create(s)
	})
}

// Schema 通过 pragma table_info 读取实际的表结构
// 返回的 Items 每行为 Field.ToMap 的形式，可用 FieldsFromResult 转换
func (t *Table) Schema() *database.Future[database.Result] {
	return t.db.TxBlock(func(tx *database.Tx) database.Result {
		r := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", t.name))
		if !r.IsItems() {
			return r
		}
		items := make([]row.Row, 0, len(r.Items))
		for _, item := range r.Items {
			items = append(items, FieldFromMap(item.Map()).toRow())
		}
		return database.ItemsOf(items)
	})
}

// RowFields 按字段定义的顺序返回插入时绑定的值
// 行中类型匹配的值优先，其次是字段的默认值，最后是类型的零值；BLOB 列固定为占位值
func (t *Table) RowFields(r row.Row) []row.Value {
	values := make([]row.Value, 0, len(t.schema.fields))
	for _, f := range t.schema.fields {
		values = append(values, fieldValue(f, r))
	}
	return values
}

func fieldValue(f Field, r row.Row) row.Value {
	if f.Type == Blob {
		return row.Text(blobPlaceholder)
	}
	if v, ok := r.Get(f.Name); ok {
		if v, ok := f.Type.accepts(v); ok {
			return v
		}
	}
	if d, ok := f.Default.Value(); ok {
		if v, ok := f.Type.accepts(d); ok {
			return v
		}
	}
	return f.Type.zero()
}

func (t *Table) primaryKeyValue(r row.Row) (row.Value, bool) {
	v, ok := r.Get(t.schema.primaryKey)
	if !ok || v.IsNull() {
		return row.Value{}, false
	}
	return v, true
}

func missingPrimaryKey() database.Result {
	return database.Failure(database.CodeContractViolation, MessageMissingPrimaryKey)
}

// statements 插入语句绑定所有字段；更新语句只更新行中出现的非主键字段
func (t *Table) statements(insertRows []row.Row, updateRows []row.Row) ([]database.QueryArgs, bool) {
	batch := make([]database.QueryArgs, 0, len(insertRows)+len(updateRows))
	for _, r := range insertRows {
		values := t.RowFields(r)
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v.Interface()
		}
		batch = append(batch, database.QueryArgs{SQL: t.insertSQL, Args: args})
	}

	for _, r := range updateRows {
		pk, ok := t.primaryKeyValue(r)
		if !ok {
			return nil, false
		}
		var pairs []string
		var args []any
		for _, k := range r.Keys() {
			if k == t.schema.primaryKey {
				continue
			}
			pairs = append(pairs, k+" = ?")
			args = append(args, r.Value(k).Interface())
		}
		if len(pairs) == 0 {
			continue
		}
		args = append(args, pk.Interface())
		batch = append(batch, database.QueryArgs{
			SQL:  fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", t.name, strings.Join(pairs, ", "), t.schema.primaryKey),
			Args: args,
		})
	}
	return batch, true
}

// InsertAndUpdate 在一个事务中插入 insertRows 并更新 updateRows
// 任意更新行缺少主键时不执行任何语句
func (t *Table) InsertAndUpdate(insertRows []row.Row, updateRows []row.Row) *database.Future[database.Result] {
	batch, ok := t.statements(insertRows, updateRows)
	if !ok {
		return database.Resolved(missingPrimaryKey())
	}
	return t.db.Update(batch)
}

func (t *Table) Insert(rows []row.Row) *database.Future[database.Result] {
	return t.InsertAndUpdate(t.withKeys(rows), nil)
}

func (t *Table) Update(rows []row.Row) *database.Future[database.Result] {
	return t.InsertAndUpdate(nil, rows)
}

// InsertWithinTx 在已打开的事务中插入，用于 TxBlock 内组合多个操作
func (t *Table) InsertWithinTx(s database.Session, rows []row.Row) database.Result {
	return t.writeWithin(s, t.withKeys(rows), nil)
}

func (t *Table) UpdateWithinTx(s database.Session, rows []row.Row) database.Result {
	return t.writeWithin(s, nil, rows)
}

func (t *Table) writeWithin(s database.Session, insertRows []row.Row, updateRows []row.Row) database.Result {
	batch, ok := t.statements(insertRows, updateRows)
	if !ok {
		return missingPrimaryKey()
	}
	return s.Update(batch)
}

// withKeys 为缺少主键的行生成主键，不修改传入的行
func (t *Table) withKeys(rows []row.Row) []row.Row {
	pk := t.schema.PrimaryKey()
	var gen func() row.Value
	switch {
	case pk.Type == Text && t.strKeys != nil:
		gen = func() row.Value { return row.Text(t.strKeys.Generate()) }
	case pk.Type == Integer && t.intKeys != nil:
		gen = func() row.Value { return row.Int(t.intKeys.Generate()) }
	default:
		return rows
	}

	out := make([]row.Row, len(rows))
	for i, r := range rows {
		if _, ok := t.primaryKeyValue(r); ok {
			out[i] = r
			continue
		}
		c := r.Clone()
		c.Set(pk.Name, gen())
		out[i] = c
	}
	return out
}

// existsQuery 查询已存在的主键，所有行都必须带主键
func (t *Table) existsQuery(rows []row.Row) (string, []any, bool) {
	seen := map[string]bool{}
	var args []any
	for _, r := range rows {
		pk, ok := t.primaryKeyValue(r)
		if !ok {
			return "", nil, false
		}
		if key := t.primaryKeyString(pk); !seen[key] {
			seen[key] = true
			args = append(args, pk.Interface())
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)", t.schema.primaryKey, t.name, t.schema.primaryKey, placeholders)
	return sql, args, true
}

// partition 按主键是否已存在把行分为插入和更新，保持各自的相对顺序
// 同一批中重复出现的主键，第一次插入，之后的视为更新
func (t *Table) partition(rows []row.Row, existing []row.Row) ([]row.Row, []row.Row) {
	found := map[string]bool{}
	for _, item := range existing {
		found[t.primaryKeyString(item.Value(t.schema.primaryKey))] = true
	}

	var insertRows, updateRows []row.Row
	for _, r := range rows {
		pk, _ := t.primaryKeyValue(r)
		if v := t.schema.PrimaryKey().Type.affinity(pk); !v.Equal(pk) {
			r.Set(t.schema.primaryKey, v)
		}
		key := t.primaryKeyString(pk)
		if found[key] {
			updateRows = append(updateRows, r)
			continue
		}
		found[key] = true
		insertRows = append(insertRows, r)
	}
	return insertRows, updateRows
}

// primaryKeyString 先按主键列的亲和性转换，"5" 和 5 在 INT 主键上是同一个键
func (t *Table) primaryKeyString(v row.Value) string {
	v = t.schema.PrimaryKey().Type.affinity(v)
	return v.Kind().String() + ":" + v.String()
}

// Upsert 在一个事务中先查询已存在的主键，再插入不存在的行、更新已存在的行
func (t *Table) Upsert(rows []row.Row) *database.Future[database.Result] {
	if len(rows) == 0 {
		return database.Resolved(database.Success())
	}
	query, args, ok := t.existsQuery(rows)
	if !ok {
		return database.Resolved(missingPrimaryKey())
	}
	return t.db.TxBlock(func(tx *database.Tx) database.Result {
		return t.upsertWithin(tx, query, args, rows)
	})
}

func (t *Table) upsertWithin(s database.Session, query string, args []any, rows []row.Row) database.Result {
	r := s.Query(query, args...)
	if r.IsError() {
		return r
	}
	insertRows, updateRows := t.partition(rows, r.Items)
	return t.writeWithin(s, insertRows, updateRows)
}

// UpsertNoTx 查询和写入是两个独立的任务
// 两者之间其他调用方写入的同一主键会导致插入冲突或者更新丢失
func (t *Table) UpsertNoTx(rows []row.Row) *database.Future[database.Result] {
	if len(rows) == 0 {
		return database.Resolved(database.Success())
	}
	query, args, ok := t.existsQuery(rows)
	if !ok {
		return database.Resolved(missingPrimaryKey())
	}
	return database.Then(t.db.Query(query, args...), func(r database.Result) *database.Future[database.Result] {
		if r.IsError() {
			return database.Resolved(r)
		}
		insertRows, updateRows := t.partition(rows, r.Items)
		return t.InsertAndUpdate(insertRows, updateRows)
	})
}

// Select 查询整张表，where 原样拼接在语句后面，需要调用方自己写 WHERE
func (t *Table) Select(where string, args ...any) *database.Future[database.Result] {
	sql := "SELECT * FROM " + t.name
	if where != "" {
		sql += " " + where
	}
	return t.db.Query(sql, args...)
}

// Find 按查询条件查询，suffix 追加在 WHERE 子句之后，例如 ORDER BY
func (t *Table) Find(q query.Query, suffix string) *database.Future[database.Result] {
	where, args, err := query.Where(q)
	if err != nil {
		return database.Resolved(database.Failure(database.CodeContractViolation, err.Error()))
	}
	return t.Select(strings.TrimSpace(where+" "+suffix), args...)
}

// Aggregate 按查询条件聚合，结果行包含分组字段和聚合名，可用 aggregation.NewResult 转换
func (t *Table) Aggregate(q query.Query, aggs ...aggregation.Aggregation) *database.Future[database.Result] {
	where, args, err := query.Where(q)
	if err != nil {
		return database.Resolved(database.Failure(database.CodeContractViolation, err.Error()))
	}
	sql, err := aggregation.Statement(t.name, where, aggs)
	if err != nil {
		return database.Resolved(database.Failure(database.CodeContractViolation, err.Error()))
	}
	return t.db.Query(sql, args...)
}

// Delete 按主键删除，任意一行缺少主键时不执行任何语句
func (t *Table) Delete(rows []row.Row) *database.Future[database.Result] {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.schema.primaryKey)
	batch := make([]database.QueryArgs, 0, len(rows))
	for _, r := range rows {
		pk, ok := t.primaryKeyValue(r)
		if !ok {
			return database.Resolved(missingPrimaryKey())
		}
		batch = append(batch, database.NewQueryArgs(sql, pk.Interface()))
	}
	return t.db.Update(batch)
}

func (t *Table) DeleteAll() *database.Future[database.Result] {
	return t.db.Update([]database.QueryArgs{database.NewQueryArgs("DELETE FROM " + t.name)})
}
