package model

import (
	"sort"
	"sync"

	"github.com/hatlonely/litedb/log/logger"
	"github.com/hatlonely/litedb/rdb/database"
	"github.com/hatlonely/litedb/rdb/table"
	"github.com/pkg/errors"
)

// Model 一个数据库文件上按名字注册的表
type Model struct {
	db     *database.DB
	logger logger.Logger

	mu     sync.Mutex
	tables map[string]*table.Table
}

func New(db *database.DB, l logger.Logger) *Model {
	if l == nil {
		l = logger.Nop()
	}
	return &Model{
		db:     db,
		logger: l.WithGroup("model"),
		tables: map[string]*table.Table{},
	}
}

func (m *Model) DB() *database.DB {
	return m.db
}

func (m *Model) Close() error {
	return m.db.Close()
}

// RegisterTable 注册但不建表，同名的表已注册时返回已注册的表
func (m *Model) RegisterTable(name string, fields []table.Field, opts ...table.Option) *table.Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tables[name]; ok {
		return t
	}
	t := table.New(m.db, name, fields, opts...)
	m.tables[name] = t
	return t
}

// GetTable 返回已注册的表，没有时建表并注册
// 少于两个字段时不建表，返回 nil
func (m *Model) GetTable(name string, fields []table.Field, opts ...table.Option) *table.Table {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tables[name]; ok {
		return t
	}
	if len(fields) < 2 {
		m.logger.Warn("cannot create a table with less than 2 fields", "table", name, "fields", len(fields))
		return nil
	}

	t := table.New(m.db, name, fields, opts...)
	t.Create().OnComplete(func(r database.Result) {
		if r.IsError() {
			m.logger.Error("create table failed", "table", name, "code", r.Code, "message", r.Message)
		}
	})
	m.tables[name] = t
	return t
}

func (m *Model) Table(name string) (*table.Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[name]
	return t, ok
}

// Tables 按名字排序
func (m *Model) Tables() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.names()
}

func (m *Model) names() []string {
	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DropTable 取消注册并删表，未注册的表直接返回 Success
func (m *Model) DropTable(name string) *database.Future[database.Result] {
	m.mu.Lock()
	t, ok := m.tables[name]
	delete(m.tables, name)
	m.mu.Unlock()

	if !ok {
		return database.Resolved(database.Success())
	}
	return t.Drop()
}

// ResetAll 按名字顺序重建所有注册的表，返回第一个错误
func (m *Model) ResetAll() *database.Future[database.Result] {
	m.mu.Lock()
	futures := make([]*database.Future[database.Result], 0, len(m.tables))
	for _, name := range m.names() {
		futures = append(futures, m.tables[name].DropAndCreate())
	}
	m.mu.Unlock()

	p := database.NewPromise[database.Result]()
	go func() {
		result := database.Success()
		for _, f := range futures {
			if r := f.Get(); r.IsError() && !result.IsError() {
				result = r
			}
		}
		p.Resolve(result)
	}()
	return p.Future()
}

// ArrayToFields 从字典列表创建字段，每个字典必须包含合法的 name、type 和 index
func ArrayToFields(dicts []map[string]any) ([]table.Field, error) {
	fields := make([]table.Field, 0, len(dicts))
	for i, d := range dicts {
		name, _ := d["name"].(string)
		typ, _ := d["type"].(string)
		index, _ := d["index"].(string)
		if name == "" {
			return nil, errors.Errorf("field [%d] has no name", i)
		}
		t, ok := table.ParseType(typ)
		if !ok {
			return nil, errors.Errorf("field [%s] has unknown type [%s]", name, typ)
		}
		idx, ok := table.ParseIndex(index)
		if !ok {
			return nil, errors.Errorf("field [%s] has unknown index [%s]", name, index)
		}
		fields = append(fields, table.Field{Name: name, Type: t, Index: idx, Default: table.NonNull})
	}
	return fields, nil
}
