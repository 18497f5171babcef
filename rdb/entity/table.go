package entity

import (
	"fmt"

	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/query"
	"github.com/hatlonely/litedb/rdb/row"
	"github.com/hatlonely/litedb/rdb/table"
)

type CacheOptions struct {
	// Enabled 开启后 Select 优先返回缓存中的实体
	Enabled bool `cfg:"enabled"`
	// StoreMisses Select 时把新构造的实体也放入缓存
	StoreMisses bool `cfg:"storeMisses"`
}

// Result 实体表的操作结果，Items 被替换为 Entities
type Result[E Entity] struct {
	Kind     database.Kind
	Entities []E
	Code     int
	Message  string
}

func (r Result[E]) IsSuccess() bool  { return r.Kind == database.KindSuccess }
func (r Result[E]) IsEntities() bool { return r.Kind == database.KindItems }
func (r Result[E]) IsError() bool    { return r.Kind == database.KindError }

func (r Result[E]) String() string {
	switch r.Kind {
	case database.KindSuccess:
		return "Success"
	case database.KindItems:
		return fmt.Sprintf("Entities(%d)", len(r.Entities))
	default:
		return fmt.Sprintf("Error(%d, %q)", r.Code, r.Message)
	}
}

func failure[E Entity](r database.Result) Result[E] {
	return Result[E]{Kind: database.KindError, Code: r.Code, Message: r.Message}
}

// Table 在 table.Table 上构造实体，并按主键缓存
// 缓存的读写在 worker 完成对应任务时同步执行，和数据库操作的提交顺序一致
// construct 也在 worker 上执行，不能等待同一个 DB 上的 Future
type Table[E Entity] struct {
	table     *table.Table
	construct func(Fields) E
	options   CacheOptions
	cache     *Cache[E]
}

func NewTable[E Entity](t *table.Table, construct func(Fields) E, options *CacheOptions) *Table[E] {
	if options == nil {
		options = &CacheOptions{}
	}
	return &Table[E]{
		table:     t,
		construct: construct,
		options:   *options,
		cache:     NewCache[E](t.Definition()),
	}
}

func (t *Table[E]) Table() *table.Table {
	return t.table
}

func (t *Table[E]) Cache() *Cache[E] {
	return t.cache
}

func (t *Table[E]) Create() *database.Future[database.Result] {
	return t.table.Create()
}

// Drop 删表，完成后清空缓存
func (t *Table[E]) Drop() *database.Future[database.Result] {
	return database.Apply(t.table.Drop(), func(r database.Result) database.Result {
		t.cache.Erase()
		return r
	})
}

func (t *Table[E]) EraseCache() {
	t.cache.Erase()
}

// Select 缓存开启时，主键命中缓存的行返回缓存中的实体，其余的行构造新实体
func (t *Table[E]) Select(where string, args ...any) *database.Future[Result[E]] {
	return database.Apply(t.table.Select(where, args...), t.toResult)
}

func (t *Table[E]) toResult(r database.Result) Result[E] {
	switch {
	case r.IsError():
		return failure[E](r)
	case r.IsSuccess():
		return Result[E]{Kind: database.KindSuccess}
	}
	return Result[E]{Kind: database.KindItems, Entities: t.entities(r.Items)}
}

// Find 按查询条件查询，缓存规则和 Select 相同
func (t *Table[E]) Find(q query.Query, suffix string) *database.Future[Result[E]] {
	return database.Apply(t.table.Find(q, suffix), t.toResult)
}

func (t *Table[E]) entities(items []row.Row) []E {
	entities := make([]E, 0, len(items))
	if !t.options.Enabled || !t.cache.Enabled() {
		for _, item := range items {
			entities = append(entities, t.construct(item.Map()))
		}
		return entities
	}

	pk := t.table.PrimaryKey()
	var keys []string
	for _, item := range items {
		if key, ok := item.Value(pk).AsText(); ok {
			keys = append(keys, key)
		}
	}
	cached := t.cache.FindAsMap(keys)

	var misses []E
	for _, item := range items {
		key, ok := item.Value(pk).AsText()
		if ok {
			if e, hit := cached[key]; hit {
				entities = append(entities, e)
				continue
			}
		}
		e := t.construct(item.Map())
		entities = append(entities, e)
		if ok {
			misses = append(misses, e)
		}
	}
	if t.options.StoreMisses {
		t.cache.Store(misses...)
	}
	return entities
}

// Delete 按主键删除，成功后从缓存中移除
func (t *Table[E]) Delete(keys []string) *database.Future[Result[E]] {
	rows := make([]row.Row, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, row.New(t.table.PrimaryKey(), key))
	}
	return database.Apply(t.table.Delete(rows), func(r database.Result) Result[E] {
		switch {
		case r.IsError():
			return failure[E](r)
		case r.IsItems():
			return Result[E]{Kind: database.KindError, Code: database.CodeContractViolation, Message: "Expected success rather than items"}
		}
		if t.options.Enabled {
			t.cache.RemoveKeys(keys)
		}
		return Result[E]{Kind: database.KindSuccess}
	})
}

// DeleteAll 成功后清空缓存
func (t *Table[E]) DeleteAll() *database.Future[database.Result] {
	return database.Apply(t.table.DeleteAll(), func(r database.Result) database.Result {
		if r.IsSuccess() {
			t.cache.Erase()
		}
		return r
	})
}

func (t *Table[E]) Insert(entities []E) *database.Future[database.Result] {
	return t.write(t.table.Insert, entities)
}

func (t *Table[E]) Update(entities []E) *database.Future[database.Result] {
	return t.write(t.table.Update, entities)
}

func (t *Table[E]) Upsert(entities []E) *database.Future[database.Result] {
	return t.write(t.table.Upsert, entities)
}

// write 写入成功后缓存这些实体
func (t *Table[E]) write(fn func([]row.Row) *database.Future[database.Result], entities []E) *database.Future[database.Result] {
	rows := make([]row.Row, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, ToRow(e))
	}
	return database.Apply(fn(rows), func(r database.Result) database.Result {
		if t.options.Enabled && !r.IsError() {
			t.cache.Store(entities...)
		}
		return r
	})
}
